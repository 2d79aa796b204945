package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

type SessionConfig struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Session is the identity carried by a signed session token.
type Session struct {
	UserID string
	Role   model.Role
}

// SessionManager issues and validates self-contained session tokens. No
// database round trip is needed to validate one.
type SessionManager struct {
	tokenAuth  *jwtauth.JWTAuth
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	return &SessionManager{
		tokenAuth:  jwtauth.New("HS256", cfg.Secret, nil),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}
}

func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// GenerateToken signs {user_id, role} with a fixed expiry of now + TTL.
func (m *SessionManager) GenerateToken(userID string, role model.Role) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := m.tokenAuth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates signature and expiry and extracts the session.
func (m *SessionManager) Parse(tokenString string) (*Session, error) {
	token, err := jwtauth.VerifyToken(m.tokenAuth, tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %v: %w", err, common.ErrUnauthorized)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("invalid session claims: %v: %w", err, common.ErrUnauthorized)
	}
	return SessionFromClaims(claims)
}

// Verifier finds the token in the session cookie, then in the
// Authorization header, and stores the verification result in the context.
func (m *SessionManager) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(m.tokenAuth, m.TokenFromCookie, jwtauth.TokenFromHeader)
}

func (m *SessionManager) TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func SessionFromClaims(claims jwt.MapClaims) (*Session, error) {
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
	}
	return &Session{UserID: userID, Role: role}, nil
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (model.Role, error) {
	raw, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	role, ok := model.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("role claim %q is not a known role", raw)
	}
	return role, nil
}
