// Package middleware provides the HTTP middleware shared by all routes:
// JWT authentication and structured request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/splitroom/splitroom/internal/apperr"
	"github.com/splitroom/splitroom/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key for storing the authenticated username.
	UsernameKey contextKey = "username"
)

// SessionCookieName is the cookie the login handler sets and the auth
// middleware reads as a fallback to the Authorization header.
const SessionCookieName = "jwt"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetUsername extracts the username from the context.
// Returns empty string if not found.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// ErrorWriter writes a classified error to the response; supplied by the
// handler layer so the middleware emits the same envelope as everything
// else.
type ErrorWriter func(w http.ResponseWriter, err error)

// RequireAuth returns middleware that validates JWT tokens and requires
// authentication. The token is taken from the Authorization header
// ("Bearer ...") or, failing that, from the session cookie. Valid claims
// put the user ID and username on the request context.
func RequireAuth(jwtManager *auth.JWTManager, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				writeErr(w, apperr.Unauthenticated(auth.ErrMissingToken.Error()))
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				writeErr(w, apperr.Unauthenticated(auth.ErrInvalidToken.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the JWT from the Authorization header or the session
// cookie. Returns empty string when neither is present.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
