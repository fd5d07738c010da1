package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"mediafolders/internal/domain"
	"mediafolders/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Anything that is not a domain error is logged and reported as a 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var dupErr *domain.DuplicateError
	if errors.As(err, &dupErr) {
		httputil.RespondErrorWithExtras(w, dupErr.StatusCode(), dupErr.Error(), map[string]interface{}{
			"resource_type": dupErr.ResourceType,
			"resource_id":   dupErr.ResourceID,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	logger.Error("request failed", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
}

// badRequest reports malformed input that never reached a service
func badRequest(w http.ResponseWriter, message string) {
	httputil.RespondError(w, http.StatusBadRequest, message)
}

// messageResponse is the data payload of operations that only report a notice
type messageResponse struct {
	Message string `json:"message"`
}
