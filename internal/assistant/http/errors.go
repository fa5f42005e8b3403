// Package http wires the assistant services onto the HTTP API surface.
package http

import (
	"errors"
	"net/http"

	"github.com/littledragon/assistant/internal/assistant/service"
	"github.com/littledragon/assistant/pkg/httpx"
)

// writeServiceError maps service errors onto the JSON error envelope. Auth
// failures always render the same generic 401 body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Incorrect email or password")
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken),
		errors.Is(err, service.ErrRevokedToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		httpx.WriteError(w, http.StatusUnauthorized, "could_not_validate_credentials", "Could not validate credentials")
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "username_taken", "Username already registered")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", "Email already registered")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, service.ErrSessionNotFound):
		httpx.WriteError(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, service.ErrSessionForbidden):
		httpx.WriteError(w, http.StatusForbidden, "session_forbidden", "Session belongs to another user")
	case errors.Is(err, service.ErrUpstreamProvider):
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "The model provider request failed")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeBadRequest(w http.ResponseWriter, description string) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", description)
}
