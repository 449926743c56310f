package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"ambassadorhub/internal/delivery/http/helpers"
	"ambassadorhub/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// SetIdentity returns a context carrying the authenticated user ID and role.
// Used by the auth middleware and by tests.
func SetIdentity(ctx context.Context, userID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RoleFromContext returns the authenticated role from the context, if present.
func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// user ID and role in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing token")
				return
			}
			userID, role, err := verifier.Verify(token)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), userID, role))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that rejects with 403 unless the context role
// set by RequireAuth matches. It fails closed when no role is present.
func RequireRole(required domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
				return
			}
			if role != required {
				helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
				return
			}
			next(w, r)
		}
	}
}
