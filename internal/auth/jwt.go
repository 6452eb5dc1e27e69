// Package auth implements bearer-token issuance and validation for the
// service's identity model: HMAC-SHA256 signed JWTs with a subject claim
// carrying the username and an absolute UTC expiry.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenDuration is the default bearer lifetime (spec: 30 minutes,
// overridable per call via GenerateTokenFor).
const DefaultTokenDuration = 30 * time.Minute

// Config holds JWT signing configuration.
type Config struct {
	// SecretKey is the HMAC signing key. Must be loaded from configuration,
	// never hardcoded.
	SecretKey string

	// Issuer identifies who issued the token.
	Issuer string

	// TokenDuration is the default bearer lifetime.
	TokenDuration time.Duration
}

// Claims carries the subject (username) and internal user id.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and validates bearer tokens.
type Manager struct {
	config Config
}

// NewManager constructs a Manager, applying defaults for Issuer and
// TokenDuration when unset.
func NewManager(config Config) *Manager {
	if config.TokenDuration == 0 {
		config.TokenDuration = DefaultTokenDuration
	}
	if config.Issuer == "" {
		config.Issuer = "codesandbox"
	}
	return &Manager{config: config}
}

// GenerateToken issues a bearer for the given user using the default
// lifetime.
func (m *Manager) GenerateToken(userID int64, username string) (string, error) {
	return m.GenerateTokenFor(userID, username, m.config.TokenDuration)
}

// GenerateTokenFor issues a bearer for the given user with an explicit
// lifetime, overriding the configured default.
func (m *Manager) GenerateTokenFor(userID int64, username string, duration time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a bearer, rejecting any token not
// signed with an HMAC method (prevents algorithm-substitution attacks:
// "none" or RSA/ECDSA tokens crafted against a known public key).
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
