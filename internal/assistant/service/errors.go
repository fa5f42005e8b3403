// Package service implements the application logic for accounts, tokens and
// chat on top of the store, session and provider layers.
package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrEmailTaken         = errors.New("email_taken")
	ErrUserNotFound       = errors.New("user_not_found")

	ErrInvalidToken = errors.New("invalid_token")
	ErrExpiredToken = errors.New("expired_token")
	ErrRevokedToken = errors.New("revoked_token")

	ErrSessionNotFound  = errors.New("session_not_found")
	ErrSessionForbidden = errors.New("session_forbidden")
	ErrUpstreamProvider = errors.New("upstream_provider_error")
)
