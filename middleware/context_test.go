package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"project-tracker/graph-service/middleware"
	"project-tracker/graph-service/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureContext(t *testing.T, authorization string) models.RequestContext {
	t.Helper()
	var captured models.RequestContext
	handler := middleware.RequestContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/graph", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return captured
}

func TestRequestContext_NoToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rc := captureContext(t, "")

	assert.False(t, rc.Authenticated())
	assert.Empty(t, rc.OrganizationSlug)
}

func TestRequestContext_GarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rc := captureContext(t, "Bearer not-a-token")

	assert.False(t, rc.Authenticated())
}

func TestRequestContext_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          "dev@acme.test",
		"organization": "acme",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rc := captureContext(t, "Bearer "+signed)

	assert.True(t, rc.Authenticated())
	assert.Equal(t, "dev@acme.test", rc.Subject)
	assert.Equal(t, "acme", rc.OrganizationSlug)
}

func TestRequestContext_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "dev@acme.test"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	rc := captureContext(t, "Bearer "+signed)

	assert.False(t, rc.Authenticated())
}

func TestFromContext_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/graph", nil)

	rc := middleware.FromContext(req.Context())

	assert.Equal(t, models.RequestContext{}, rc)
}
