package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *domain.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*domain.Claims, error) {
	return s.claims, s.err
}

func claimsFor(id uuid.UUID, admin bool) *domain.Claims {
	return &domain.Claims{
		Admin:            admin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		header         string
		validator      stubValidator
		expectedStatus int
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("bad")}, http.StatusUnauthorized},
		{"bad subject", "Bearer ok", stubValidator{claims: &domain.Claims{}}, http.StatusUnauthorized},
		{"valid", "Bearer ok", stubValidator{claims: claimsFor(userID, false)}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetUserID(r.Context())
				require.True(t, ok)
				gotID = id
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(tt.validator)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, userID, gotID)
			} else {
				assert.Contains(t, rec.Body.String(), "AuthenticationError")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		admin          bool
		expectedStatus int
	}{
		{"admin passes", true, http.StatusOK},
		{"non-admin forbidden", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			handler := Auth(stubValidator{claims: claimsFor(uuid.New(), tt.admin)})(RequireAdmin(next))

			req := httptest.NewRequest(http.MethodDelete, "/api/events/x", nil)
			req.Header.Set("Authorization", "Bearer ok")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}

	t.Run("without auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://charity.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.Header.Set("Origin", "https://charity.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://charity.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
		req.Header.Set("Origin", "https://charity.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
