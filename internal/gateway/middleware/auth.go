package middleware

import (
	"context"
	"net/http"
	"strings"

	authjwt "github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/jwt"
)

type contextKey string

const (
	ContextKeyUserId contextKey = "user_id"
)

type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware creates the middleware with the JWT secret used for
// token validation.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth enforces a valid Bearer token and injects the authenticated
// user's ID into the request context for downstream handlers.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		authHeader := r.Header.Get("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			http.Error(w, `{"error": "missing or invalid authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := authjwt.ValidateToken(tokenStr, m.jwtSecret)
		if err != nil {
			http.Error(w, `{"error": "invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserId, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FlexibleAuth attempts to authenticate the user but proceeds even if no
// token is present. Used by routes that render both public and personalized
// views.
func (m *AuthMiddleware) FlexibleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := authjwt.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			// Token invalid/expired - proceed as guest
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserId, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
