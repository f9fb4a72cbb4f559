// Package auth verifies bearer tokens and turns them into principals.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/models"
)

// ErrUnauthorized is returned for any missing, malformed or invalid token
var ErrUnauthorized = errors.New("unauthorized")

// Claims carried by an access token. The subject is the principal id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Gate verifies HS256 tokens signed with a shared secret
type Gate struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewGate creates a Gate from auth config
func NewGate(cfg config.AuthConfig) *Gate {
	return &Gate{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// Authenticate parses an Authorization header value of the form
// "Bearer <token>" and returns the principal it names
func (g *Gate) Authenticate(header string) (*models.Principal, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}
	return g.Verify(strings.TrimSpace(token))
}

// Verify checks a raw token
func (g *Gate) Verify(token string) (*models.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	}
	if g.issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleAuthor:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrUnauthorized, claims.Role)
	}

	return &models.Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// Issue signs a token for p valid for ttl
func (g *Gate) Issue(p models.Principal, ttl time.Duration) (string, error) {
	now := g.now()
	claims := Claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    g.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}
