package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rbac_system/internal/api/middleware"
	"rbac_system/internal/app/service"
	"rbac_system/internal/common"
	"rbac_system/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	resolver    middleware.IdentityResolver
}

func NewUserHandler(userService *service.UserService, resolver middleware.IdentityResolver) *UserHandler {
	return &UserHandler{userService: userService, resolver: resolver}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	// Any authenticated user may read their own record.
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator(h.resolver))
		authed.Get("/me", h.me)
	})

	// Directory management is a principal-only tier.
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator(h.resolver))
		adminRouter.Use(middleware.RequireRole(model.RolePrincipal))
		adminRouter.Get("/", h.listUsers)
		adminRouter.Post("/", h.createUser)
		adminRouter.Put("/{userID}", h.updateUser)
		adminRouter.Delete("/{userID}", h.deleteUser)
	})
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := h.userService.List(r.Context(), service.ListUsersQuery{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	})
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "userID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
