package services

import (
	"context"

	"mediafolders/internal/domain/models"
)

// CapabilityAuthorizer checks whether an authenticated session may use the media organizer.
// Current implementation: a single capability (default "upload_files").
//
// Design principle: authentication (token is valid) happens in the auth middleware,
// authorization (session may act) is delegated here.
type CapabilityAuthorizer interface {
	// Authorize returns a PermissionError when the session lacks the capability
	Authorize(ctx context.Context, claims *models.SessionClaims) error
}
