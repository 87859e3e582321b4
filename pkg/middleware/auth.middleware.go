package middleware

import (
	"context"
	"net/http"
	"strings"

	"connect-service/pkg/jwtutil"
	"connect-service/pkg/response"
)

type contextKey string

const (
	ContextUserID contextKey = "userID"
	ContextToken  contextKey = "token"
)

func GetUserID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUserID).(string)
	return val, ok
}

func GetToken(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextToken).(string)
	return val, ok
}

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Require resolves the caller from the session cookie (or Authorization
// header) and stashes the user id in the request context. Handlers past
// this point can assume an authenticated caller.
func (am *AuthMiddleware) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := jwtutil.Verify(am.secret, token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Unauthorized - invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie("jwt"); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
