package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"teslo-catalog/internal/domain"
	"teslo-catalog/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware validates bearer tokens and resolves the full user record,
// so downstream handlers receive the caller identity the catalog service
// attributes writes to. Inactive users are rejected even with a valid token.
func AuthMiddleware(users service.UserService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := users.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Debug("Token subject not found", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if !user.IsActive {
				logger.Debug("Inactive user rejected", zap.String("user_id", user.ID.String()))
				respondWithError(w, http.StatusUnauthorized, "user is inactive, talk with an admin")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)

			logger.Debug("User authenticated",
				zap.String("user_id", user.ID.String()),
				zap.Strings("roles", user.Roles),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from the request context
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
