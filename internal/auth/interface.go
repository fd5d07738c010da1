package auth

import "mediafolders/internal/domain/models"

// TokenVerifier defines the interface for session token verification.
// This abstraction allows for different verification implementations (JWKS in
// production, a shared secret in development) while keeping the middleware
// agnostic to the verification details.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns a SecurityError if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	// Should be called when the verifier is no longer needed.
	Close() error
}
