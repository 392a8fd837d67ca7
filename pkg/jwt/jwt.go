package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the JWT payload carried by authenticated requests.
// The board never authenticates users itself; it only verifies the
// token minted by the identity collaborator and lifts the claims into
// an actor context.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Staff     bool   `json:"staff"`
	Superuser bool   `json:"superuser"`
}

// Manager verifies and issues HMAC-signed tokens
type Manager struct {
	secretKey []byte
	expiry    time.Duration
}

// NewManager creates a new JWT manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiry:    expiry,
	}
}

// IssueToken signs a token for the given identity (used by tests and dev tooling)
func (m *Manager) IssueToken(userID uint64, name, email string, staff, superuser bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
		UserID:    userID,
		Name:      name,
		Email:     email,
		Staff:     staff,
		Superuser: superuser,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken parses and validates a bearer token
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
