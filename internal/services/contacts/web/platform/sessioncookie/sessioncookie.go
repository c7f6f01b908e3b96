// Package sessioncookie centralizes the signed anonymous session cookie.
//
// The cookie carries an HS256 token whose subject is a random session id.
// The id keys per-visitor state such as pending flash notices.
package sessioncookie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/httpx"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/requestmeta"
)

// Name is the canonical web session cookie name.
const Name = "contacts_session"

const issuer = "contacts"

type contextKey struct{}

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
	policy requestmeta.SchemePolicy
	now    func() time.Time
	newID  func() string
}

// NewManager builds a Manager signing with secret.
func NewManager(secret string, policy requestmeta.SchemePolicy) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Manager{
		secret: []byte(secret),
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Issue signs a token for sessionID.
func (m *Manager) Issue(sessionID string) (string, error) {
	if m == nil {
		return "", errors.New("session manager is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", errors.New("session id is required")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(m.now()),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the session id carried by a valid token.
func (m *Manager) Verify(raw string) (string, error) {
	if m == nil {
		return "", errors.New("session manager is not configured")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("session token is required")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("session subject: %w", err)
	}
	return claims.Subject, nil
}

// Middleware resolves the visitor session and stores its id in the request
// context. Missing or invalid cookies start a fresh session.
func (m *Manager) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := m.resolve(r)
			if !ok {
				sessionID = m.newID()
				token, err := m.Issue(sessionID)
				if err == nil {
					m.write(w, r, token)
				}
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

func (m *Manager) resolve(r *http.Request) (string, bool) {
	raw, ok := Read(r)
	if !ok {
		return "", false
	}
	sessionID, err := m.Verify(raw)
	if err != nil {
		return "", false
	}
	return sessionID, true
}

func (m *Manager) write(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, m.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WithSessionID stores sessionID on ctx.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// FromContext returns the session id placed by Middleware.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sessionID, ok := ctx.Value(contextKey{}).(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
