package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mediafolders/internal/auth"
	"mediafolders/internal/domain"
	"mediafolders/internal/domain/services"
	"mediafolders/internal/httputil"
)

// Auth verifies the bearer token and stores its claims in the request context.
// Missing or invalid tokens get a 401 with no detail beyond "Security check failed.".
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Debug("missing bearer token", "path", r.URL.Path)
				httputil.RespondError(w, http.StatusUnauthorized, auth.SecurityCheckFailedMessage)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, auth.SecurityCheckFailedMessage)
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

// RequireCapability rejects sessions the authorizer denies with a 403.
// Must run after Auth.
func RequireCapability(authorizer services.CapabilityAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorizer.Authorize(r.Context(), httputil.GetClaims(r)); err != nil {
				status := http.StatusForbidden
				var httpErr domain.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.StatusCode()
				}
				httputil.RespondError(w, status, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
