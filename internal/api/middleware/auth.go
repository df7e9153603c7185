package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"rbac_system/internal/common"
	"rbac_system/internal/common/security"
	"rbac_system/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const CurrentUserCtxKey contextKey = "currentUser"

// IdentityResolver turns a validated token subject into a live user
// record. Implemented by service.AuthService.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (*model.User, error)
}

// Authenticator rejects requests without a valid bearer token and
// threads the resolved user through the request context. All token and
// resolution failures collapse to the same 401 so the response does
// not reveal which check failed.
func Authenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context()) // filled in by jwtauth.Verifier

			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing credentials")
				return
			}

			subject, err := security.SubjectFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing credentials")
				return
			}

			user, err := resolver.ResolveIdentity(r.Context(), subject)
			if err != nil {
				// A deleted user's token is still signed and unexpired;
				// failing resolution here is what retires it.
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing credentials")
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole denies the request unless the authenticated user's role
// is in the allowed set. The denial names the required role and the
// caller's actual role.
func RequireRole(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing credentials")
				return
			}
			for _, role := range allowed {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondWithError(w, http.StatusForbidden,
				fmt.Sprintf("Access denied. %s role required. Your role: %s", roleNames(allowed), user.Role))
		})
	}
}

func roleNames(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}
	return strings.Join(names, " or ")
}

// GetUserFromContext returns the user resolved by Authenticator.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(CurrentUserCtxKey).(*model.User)
	return user, ok
}
