package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dollers-electro/middleware"
	"dollers-electro/utils"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"email": claims.Email, "role": claims.Role})
	})
}

func doRequest(t *testing.T, handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret-key")
	protected := middleware.AuthMiddleware(okHandler())

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, protected, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doRequest(t, protected, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, protected, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	})

	t.Run("valid token reaches handler with claims", func(t *testing.T) {
		token, err := utils.GenerateJWT("jane@example.com", "customer")
		require.NoError(t, err)

		rec := doRequest(t, protected, "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "jane@example.com", body["email"])
		assert.Equal(t, "customer", body["role"])
	})
}

func TestAdminMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret-key")
	stack := middleware.AuthMiddleware(middleware.AdminMiddleware(okHandler()))

	t.Run("customer is forbidden", func(t *testing.T) {
		token, err := utils.GenerateJWT("jane@example.com", "customer")
		require.NoError(t, err)
		rec := doRequest(t, stack, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := utils.GenerateJWT("boss@example.com", "admin")
		require.NoError(t, err)
		rec := doRequest(t, stack, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
