package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/auth"
)

func protectedEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		assert.True(t, ok)
		json.NewEncoder(w).Encode(p)
	})
}

func TestRequireAuthAcceptsBearerAndLegacyHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	token, err := tokens.Generate(3, entity.RoleSales)
	assert.NoError(t, err)

	handler := RequireAuth(tokens)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth-token", token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var p Principal
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, int64(3), p.UserID)
	assert.Equal(t, entity.RoleSales, p.Role)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	handler := RequireAuth(tokens)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No token, authorization denied", body["msg"])

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Token is not valid", body["msg"])
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	supervisorToken, _ := tokens.Generate(1, entity.RoleSupervisor)
	salesToken, _ := tokens.Generate(3, entity.RoleSales)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(tokens)(RequireRole(entity.RoleSupervisor)(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+supervisorToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+salesToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden: Insufficient permissions", body["msg"])
}

func TestOwnsAllRows(t *testing.T) {
	assert.True(t, Principal{Role: entity.RoleSupervisor}.OwnsAllRows())
	assert.True(t, Principal{Role: entity.RoleSalesManager}.OwnsAllRows())
	assert.True(t, Principal{Role: entity.RoleProductManager}.OwnsAllRows())
	assert.False(t, Principal{Role: entity.RoleSales}.OwnsAllRows())
	assert.False(t, Principal{Role: entity.RoleTelesales}.OwnsAllRows())
}
