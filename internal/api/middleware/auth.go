package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ClaimsKey contextKey = "claims"
)

// TokenValidator is satisfied by *service.AuthService.
type TokenValidator interface {
	ValidateToken(token string) (*domain.Claims, error)
}

func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				httpx.WriteError(w, http.StatusUnauthorized, "Authorization header required", httpx.CodeAuthentication)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid authorization header", httpx.CodeAuthentication)
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid token", httpx.CodeAuthentication)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				log.Printf("ERROR [middleware.Auth] failed to parse user ID: %v", err)
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid user ID", httpx.CodeAuthentication)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", httpx.CodeAuthentication)
			return
		}
		if !claims.Admin {
			log.Printf("ERROR [middleware.RequireAdmin] userID=%s is not an admin", claims.Subject)
			httpx.WriteError(w, http.StatusForbidden, "Admin access required", httpx.CodeForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetClaims(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*domain.Claims)
	return claims, ok
}
