package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT claims structure for library staff
type Claims struct {
	StaffID string `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Type    string `json:"type"` // "access"
	jwt.RegisteredClaims
}

// Manager handles JWT operations
type Manager struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates new JWT manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: secret, expiry: expiry, now: time.Now}
}

// GenerateAccessToken signs an access token for a librarian
func (m *Manager) GenerateAccessToken(staffID, email, role string) (string, error) {
	now := m.now()
	claims := Claims{
		StaffID: staffID,
		Email:   email,
		Role:    role,
		Type:    "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates access token specifically
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type: expected access, got %s", claims.Type)
	}

	return claims, nil
}
