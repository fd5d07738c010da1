package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"mediafolders/internal/domain/models"
)

// HMACVerifier implements TokenVerifier for HS256 tokens signed with a shared secret.
// Used for local development, the seed command and tests.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier
func NewHMACVerifier(secret string, logger *slog.Logger) (TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates an HS256 token and extracts its claims
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{},
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, securityError()
	}

	return extractClaims(token, v.logger)
}

// Close is a no-op; the verifier holds no resources
func (v *HMACVerifier) Close() error {
	return nil
}

// IssueHMACToken signs claims with the shared secret, expiring after ttl.
// IssuedAt and ExpiresAt are set when zero.
func IssueHMACToken(secret string, claims models.SessionClaims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret cannot be empty")
	}
	now := time.Now()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
