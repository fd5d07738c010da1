package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrCycle      = errors.New("cycle detected")
	ErrPermission = errors.New("permission denied")
	ErrSecurity   = errors.New("security check failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates an unknown folder or attachment id
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates empty or invalid input
	ValidationError struct {
		Message string
	}

	// CycleError indicates a reparent that would make a folder its own ancestor
	CycleError struct {
		Message string
	}

	// PermissionError indicates the caller lacks the required capability
	PermissionError struct {
		Message string
	}

	// SecurityError indicates a missing or invalid request-authentication token
	SecurityError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *CycleError) Error() string      { return e.Message }
func (e *PermissionError) Error() string { return e.Message }
func (e *SecurityError) Error() string   { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *CycleError) StatusCode() int      { return http.StatusConflict }
func (e *PermissionError) StatusCode() int { return http.StatusForbidden }
func (e *SecurityError) StatusCode() int   { return http.StatusUnauthorized }

// Is implementations so typed errors match their sentinel with errors.Is()
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *CycleError) Is(target error) bool      { return target == ErrCycle }
func (e *PermissionError) Is(target error) bool { return target == ErrPermission }
func (e *SecurityError) Is(target error) bool   { return target == ErrSecurity }

// DuplicateError represents a name or slug collision with details about the existing folder
// Implements HTTPError interface for extensible error handling
type DuplicateError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder)
	ResourceID   int64  // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *DuplicateError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *DuplicateError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrDuplicate
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
