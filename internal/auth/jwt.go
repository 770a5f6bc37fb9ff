package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
)

// Claims are the access token claims. The subject is the user ID.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

const issuer = "rental-booking-backend"

// JWTManager issues and verifies HS256 access tokens. Issue and expiry times
// both come from its clock, so tokens stay valid under a fixed clock.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewJWTManager creates a JWT manager. A nil clock means the system clock.
func NewJWTManager(secret string, ttl time.Duration, clk clock.Clock) *JWTManager {
	if clk == nil {
		clk = clock.System()
	}
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}
}

// GenerateAccessToken signs a token for userID. Each token gets a unique ID.
func (m *JWTManager) GenerateAccessToken(userID, email string) (string, error) {
	now := m.clock.Now().UTC()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}
	return signed, nil
}

// ParseAndValidate verifies the signature, issuer and expiry of tokenStr.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid jwt token")
	}
	return claims, nil
}
