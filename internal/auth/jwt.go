package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the operator login does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenManager issues and verifies the HS256 bearer tokens that guard the
// registration endpoint. There is a single operator identity, configured at
// startup with a bcrypt password hash; this service does not manage user
// accounts.
type TokenManager struct {
	secret       []byte
	ttl          time.Duration
	operatorUser string
	operatorHash []byte
}

func NewTokenManager(secret, operatorUser, operatorPasswordHash string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		ttl:          ttl,
		operatorUser: operatorUser,
		operatorHash: []byte(operatorPasswordHash),
	}
}

// Issue checks the operator credentials and returns a signed token.
func (m *TokenManager) Issue(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.operatorUser)) == 1
	passErr := bcrypt.CompareHashAndPassword(m.operatorHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(m.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a token and returns its subject.
func (m *TokenManager) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
