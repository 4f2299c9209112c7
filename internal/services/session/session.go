package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "aware_session"

// DefaultTTL is how long an issued session stays valid.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned when a token fails parsing, signature
// verification or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// Manager issues and verifies signed session tokens. Tokens are HS256 JWTs
// carrying the user id in the subject claim.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager creates a session manager. The secret must be non-empty; token
// forgery is trivial otherwise.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue creates a signed token for the user.
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Subject(strconv.FormatInt(userID, 10)).
		Issuer(m.issuer).
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return string(signed), nil
}

// Verify parses and validates a token and returns the user id it was issued
// for.
func (m *Manager) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return userID, nil
}

// TTL reports the configured session lifetime, for cookie expiry.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
