package middleware

import (
	"context"
	"net/http"

	"skillarena/internal/common"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// sessionFromRequest reads the result of the session Verifier. Missing,
// invalid, expired and malformed tokens all return an error.
func sessionFromRequest(r *http.Request) (*security.Session, error) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, jwtauth.ErrNoTokenFound
	}
	return security.SessionFromClaims(claims)
}

// Authenticator is the API trust boundary. It must run after the session
// Verifier and answers 401 when no valid session is present.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireRoles answers 403 unless the session role is one of roles.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRoleFromContext(r.Context())
			if !ok || !role.In(roles...) {
				common.RespondWithError(w, http.StatusForbidden, "You do not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithSession(ctx context.Context, s *security.Session) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, s.UserID)
	return context.WithValue(ctx, UserRoleCtxKey, s.Role)
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

func GetUserRoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(UserRoleCtxKey).(model.Role)
	return role, ok
}
