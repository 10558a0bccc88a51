package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// sessionClaims is the payload shared by access and refresh tokens
type sessionClaims struct {
	Type  string `json:"type"`
	Fresh bool   `json:"fresh"`
	jwt.RegisteredClaims
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry, refreshExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// GenerateTokens generates both access and refresh tokens bound to the same subject
func (tg *TokenGenerator) GenerateTokens(subject string) (string, string, error) {
	accessToken, err := tg.sign(subject, tokenTypeAccess, tg.accessTokenExpiry, true)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := tg.sign(subject, tokenTypeRefresh, tg.refreshTokenExpiry, false)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken issues a non-fresh access token, used when refreshing a session
func (tg *TokenGenerator) GenerateAccessToken(subject string) (string, error) {
	accessToken, err := tg.sign(subject, tokenTypeAccess, tg.accessTokenExpiry, false)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

func (tg *TokenGenerator) sign(subject, tokenType string, expiry time.Duration, fresh bool) (string, error) {
	now := tg.now()
	claims := sessionClaims{
		Type:  tokenType,
		Fresh: fresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns its subject
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (string, error) {
	return tg.validate(tokenString, tokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its subject
func (tg *TokenGenerator) ValidateRefreshToken(tokenString string) (string, error) {
	return tg.validate(tokenString, tokenTypeRefresh)
}

func (tg *TokenGenerator) validate(tokenString, expectedType string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, jwt.WithTimeFunc(tg.now))

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", errors.New("token is invalid")
	}

	if claims.Type != expectedType {
		return "", fmt.Errorf("token type is not %s", expectedType)
	}

	if claims.Subject == "" {
		return "", errors.New("subject not found in token")
	}

	return claims.Subject, nil
}
