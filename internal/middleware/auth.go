package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/martin0965432/SmartView/internal/auth"
)

// AccessTokenCookie carries the access token for browser clients
const AccessTokenCookie = "access_token"

type contextKey string

const userContextKey contextKey = "user"

// tokenValidator is satisfied by *auth.JWTService
type tokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// ExtractToken reads the access token from the cookie or the Authorization header
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireAuth rejects requests without a valid access token and puts the
// token claims in the request context
func RequireAuth(validator tokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized: access token required")
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				unauthorized(w, "Unauthorized: "+err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a context carrying claims
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*auth.Claims)
	return claims, ok
}

// UserID returns the authenticated user ID, or "" when there is none
func UserID(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
