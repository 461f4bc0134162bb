package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"project-tracker/graph-service/models"

	"github.com/dgrijalva/jwt-go"
)

type contextKey int

const requestContextKey contextKey = 0

// RequestContext attaches a models.RequestContext to every request. A bearer
// token, when present and parseable, fills in the caller identity; a missing
// or bad token leaves the zero context. Nothing is rejected here: requests
// are not authenticated yet, this only reserves the seam.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := contextFromToken(r.Header.Get("Authorization"))
		ctx := context.WithValue(r.Context(), requestContextKey, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request context set by the middleware, or the zero
// context when the middleware did not run.
func FromContext(ctx context.Context) models.RequestContext {
	rc, _ := ctx.Value(requestContextKey).(models.RequestContext)
	return rc
}

func contextFromToken(authHeader string) models.RequestContext {
	if authHeader == "" {
		return models.RequestContext{}
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return models.RequestContext{}
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		return models.RequestContext{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RequestContext{}
	}

	rc := models.RequestContext{}
	if subject, ok := claims["sub"].(string); ok {
		rc.Subject = subject
	}
	if slug, ok := claims["organization"].(string); ok {
		rc.OrganizationSlug = slug
	}
	return rc
}
