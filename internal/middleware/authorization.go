package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole middleware ensures the authenticated user has one of the
// specified roles. It must run after AuthMiddleware.
func RequireRole(logger *zap.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				logger.Warn("User not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, role := range allowedRoles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User roles not authorized",
				zap.Strings("roles", user.Roles),
				zap.Strings("allowed_roles", allowedRoles),
			)
			respondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// RequireAdmin middleware ensures the user has the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, "admin")
}
