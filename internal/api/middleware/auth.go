package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amine/notehub/internal/api/respond"
	"github.com/amine/notehub/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey       contextKey = "userID"
	refreshTokenKey contextKey = "refreshToken"
)

// Auth guards routes with a bearer access token. The token subject must
// resolve to an existing user.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(w, r)
			if !ok {
				return
			}

			userID, err := authService.ParseAccessToken(token)
			if err != nil {
				slog.Debug("access token rejected", "error", err)
				respond.Error(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			if _, err := authService.Validate(r.Context(), userID); err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RefreshAuth guards the token-refresh route with a bearer refresh token.
// Signature and expiry are checked here; the stored-hash comparison
// happens in the service.
func RefreshAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(w, r)
			if !ok {
				return
			}

			userID, err := authService.ParseRefreshToken(token)
			if err != nil {
				slog.Debug("refresh token rejected", "error", err)
				respond.Error(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, refreshTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		respond.Error(w, r, http.StatusUnauthorized, "authorization header required")
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		respond.Error(w, r, http.StatusUnauthorized, "invalid authorization header")
		return "", false
	}

	return parts[1], true
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func GetRefreshToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(refreshTokenKey).(string)
	return token, ok
}
