package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/playtube/user-service/internal/domain"
)

// TokenManager signs and verifies the two token classes. Access and
// refresh tokens use independent secrets and expiries; verification of
// one class never accepts a token of the other.
type TokenManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenManager creates a new token manager
func NewTokenManager(accessSecret, refreshSecret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// IssueAccessToken signs a short-lived token carrying the user's
// identity claims.
func (m *TokenManager) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"fullName": user.FullName,
		"iat":      now.Unix(),
		"exp":      now.Add(m.accessTokenExpiry).Unix(),
	})

	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived token carrying only the user
// id. The jti claim makes every issued token distinct, so rotation can
// be detected by exact string comparison against the stored value.
func (m *TokenManager) IssueRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"iat":  now.Unix(),
		"exp":  now.Add(m.refreshTokenExpiry).Unix(),
		"type": "refresh",
		"jti":  uuid.New().String(),
	})

	signed, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*domain.AccessClaims, error) {
	claims, err := m.parse(tokenString, m.accessSecret)
	if err != nil {
		return nil, err
	}

	out := &domain.AccessClaims{}
	var ok bool
	if out.UserID, ok = claims["id"].(string); !ok {
		return nil, fmt.Errorf("invalid id claim")
	}
	if out.Email, ok = claims["email"].(string); !ok {
		return nil, fmt.Errorf("invalid email claim")
	}
	if out.Username, ok = claims["username"].(string); !ok {
		return nil, fmt.Errorf("invalid username claim")
	}
	if out.FullName, ok = claims["fullName"].(string); !ok {
		return nil, fmt.Errorf("invalid fullName claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp claim")
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat claim")
	}
	out.Exp = int64(exp)
	out.Iat = int64(iat)

	if out.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}
	return out, nil
}

// VerifyRefreshToken validates a refresh token and returns the user id
// it was issued to.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (string, error) {
	claims, err := m.parse(tokenString, m.refreshSecret)
	if err != nil {
		return "", err
	}

	if claims["type"] != "refresh" {
		return "", fmt.Errorf("invalid token type")
	}

	userID, ok := claims["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid id claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", fmt.Errorf("invalid exp claim")
	}
	if time.Now().Unix() > int64(exp) {
		return "", fmt.Errorf("token is expired")
	}

	return userID, nil
}

// AccessTokenExpiry returns the access token lifetime in seconds.
func (m *TokenManager) AccessTokenExpiry() int {
	return int(m.accessTokenExpiry.Seconds())
}

// RefreshTokenExpiry returns the refresh token lifetime in seconds.
func (m *TokenManager) RefreshTokenExpiry() int {
	return int(m.refreshTokenExpiry.Seconds())
}

func (m *TokenManager) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
