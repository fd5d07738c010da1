package httputil

import (
	"context"
	"net/http"

	"mediafolders/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// WithClaims adds the verified session claims to the request context
func WithClaims(r *http.Request, claims *models.SessionClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves session claims from context, returns nil if not found
func GetClaims(r *http.Request) *models.SessionClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.SessionClaims)
	return claims
}

// GetUserID retrieves the session's user ID, returns empty string if not found
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}

// WithRequestID adds the request ID to the request context
func WithRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, requestID)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
