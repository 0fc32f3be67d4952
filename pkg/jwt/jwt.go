package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booknest/internal/shared"
)

var ErrMissingAccount = errors.New("session token has no account id")

// Claims mirrors the session payload of the OAuth provider
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// SessionUser converts the claims to the shared session shape
func (c *Claims) SessionUser() *shared.SessionUser {
	return &shared.SessionUser{
		AccountID: c.AccountID,
		Email:     c.Email,
		Name:      c.Name,
		Image:     c.Image,
	}
}

// Manager verifies session tokens (HS256, shared secret with the session provider)
type Manager struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewManager creates new session token manager
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateSessionToken mints a token for user; used by local tooling and tests,
// production tokens come from the session provider
func (m *Manager) GenerateSessionToken(user shared.SessionUser) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: user.AccountID,
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.AccountID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses a session token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// Some providers only fill "sub"
	if claims.AccountID == "" {
		claims.AccountID = claims.Subject
	}
	if claims.AccountID == "" {
		return nil, ErrMissingAccount
	}

	return claims, nil
}
