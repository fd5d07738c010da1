package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mediafolders/internal/domain"
	"mediafolders/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// SecurityCheckFailedMessage is the only detail a rejected token reveals
const SecurityCheckFailedMessage = "Security check failed."

func securityError() error {
	return &domain.SecurityError{Message: SecurityCheckFailedMessage}
}

// JWKSVerifier implements TokenVerifier using public keys from a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the JWKS endpoint.
// The JWKS keys are cached and automatically refreshed based on HTTP cache headers.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	// keyfunc v3 automatically handles caching and refresh based on HTTP cache headers
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS token verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a token signed with a JWKS key and extracts its claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, securityError()
	}

	return extractClaims(token, v.logger)
}

// Close releases resources held by the verifier.
// In keyfunc v3, the library manages its own resources based on HTTP cache headers,
// so this is a no-op for graceful shutdown compatibility.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWKS token verifier closed")
	return nil
}

// extractClaims checks the parsed token carries a subject
func extractClaims(token *jwt.Token, logger *slog.Logger) (*models.SessionClaims, error) {
	if !token.Valid {
		logger.Debug("token is invalid after parsing")
		return nil, securityError()
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok {
		logger.Error("failed to extract claims from token")
		return nil, securityError()
	}

	// Validate user ID exists (sub claim)
	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, securityError()
	}

	return claims, nil
}
