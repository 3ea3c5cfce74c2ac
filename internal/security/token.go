package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a missing, malformed, expired or badly signed token.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated principal embedded in a bearer token.
type Identity struct {
	UserID uint
	Role   string
	Name   string
}

// TokenManager issues and verifies bearer tokens carrying an identity.
type TokenManager interface {
	Issue(identity Identity) (string, error)
	Verify(token string) (Identity, error)
}

// Claims is the JWT payload for campus tokens.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type jwtManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds an HS256 token manager with the given validity window.
func NewJWTManager(secret string, ttl time.Duration) TokenManager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &jwtManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *jwtManager) Issue(identity Identity) (string, error) {
	now := m.now()
	claims := Claims{
		Role: identity.Role,
		Name: identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *jwtManager) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: userID, Role: claims.Role, Name: claims.Name}, nil
}
