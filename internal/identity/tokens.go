package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

const (
	RoleRequester = "requester"
	RoleAdmin     = "admin"
)

// Identity is who is calling. RequesterID is the token subject.
type Identity struct {
	RequesterID string
	Role        string
}

type claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *Tokens) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", errors.New("identity: empty subject")
	}
	if role == "" {
		role = RoleRequester
	}

	now := t.now()
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// ResolveRequester verifies a token and returns the caller. Any failure is
// reported as unauthenticated.
func (t *Tokens) ResolveRequester(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(
		token,
		&c,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, httperr.Wrap(httperr.CodeUnauthenticated, err, "invalid token")
	}

	if c.Subject == "" {
		return Identity{}, httperr.ErrBusinessf(httperr.CodeUnauthenticated, "token has no subject")
	}

	role := c.Role
	if role == "" {
		role = RoleRequester
	}

	return Identity{RequesterID: c.Subject, Role: role}, nil
}
