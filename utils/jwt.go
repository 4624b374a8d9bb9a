package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a token carries about its user.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	IsHost bool   `json:"is_host"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 tokens with one shared secret.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// GenerateToken issues a token for the user that expires after the
// configured lifetime.
func (m *TokenManager) GenerateToken(userID, email string, isHost bool) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		IsHost: isHost,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken checks the signature and expiry and returns the claims.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}

	return claims, nil
}
