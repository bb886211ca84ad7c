package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/retailmart/retailmart/internal/models"
	"github.com/retailmart/retailmart/internal/service"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// Auth extracts the bearer token from the Authorization header, verifies it
// and passes its payload to the request context
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(tokenString)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthPayload extracts authorization token payload from context
func GetAuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(authPayloadKey).(*models.TokenPayload)
	return payload, ok
}

// WithAuthPayload returns ctx carrying the token payload. Used by tests to
// call handlers without the full middleware chain.
func WithAuthPayload(ctx context.Context, payload *models.TokenPayload) context.Context {
	return context.WithValue(ctx, authPayloadKey, payload)
}
