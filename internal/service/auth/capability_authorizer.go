package auth

import (
	"context"
	"log/slog"

	"mediafolders/internal/domain"
	"mediafolders/internal/domain/models"
	"mediafolders/internal/domain/services"
)

// PermissionDeniedMessage is the only detail a failed capability check reveals
const PermissionDeniedMessage = "Permission denied."

// CapabilityBasedAuthorizer implements CapabilityAuthorizer with a single capability check.
// A session may act if its token grants the capability explicitly or through its role.
type CapabilityBasedAuthorizer struct {
	capability string
	logger     *slog.Logger
}

// NewCapabilityAuthorizer creates an authorizer requiring capability
func NewCapabilityAuthorizer(capability string, logger *slog.Logger) services.CapabilityAuthorizer {
	return &CapabilityBasedAuthorizer{
		capability: capability,
		logger:     logger,
	}
}

// Authorize checks the session carries the configured capability
func (a *CapabilityBasedAuthorizer) Authorize(ctx context.Context, claims *models.SessionClaims) error {
	if claims == nil {
		return &domain.PermissionError{Message: PermissionDeniedMessage}
	}
	if !claims.Can(a.capability) {
		a.logger.Debug("capability check failed",
			"user_id", claims.GetUserID(),
			"role", claims.Role,
			"capability", a.capability,
		)
		return &domain.PermissionError{Message: PermissionDeniedMessage}
	}
	return nil
}
