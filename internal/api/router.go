package api

import (
	"net/http"
	"time"

	"rbac_system/internal/api/handler"
	"rbac_system/internal/app/service"
	"rbac_system/internal/common"
	"rbac_system/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer <token>" when present and puts the
	// verified claims in the request context. Enforcement happens per
	// route group in middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{
			"message": "RBAC System API",
			"status":  "running",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(r)

	// User directory routes (authenticated, mostly principal-only)
	userHandler := handler.NewUserHandler(userService, authService)
	r.Route("/users", userHandler.RegisterRoutes)

	return r
}
