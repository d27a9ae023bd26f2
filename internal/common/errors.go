// Package common defines shared constants and sentinel errors used across
// client and server layers of my-umkm. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. Verify reports expiry through ErrInvalidToken
	// as well, so callers that do not care about the reason can match once.
	ErrTokenExpired = errors.New("token expired")

	// Conversation-specific errors.
	ErrorSelfConversation = errors.New("conversation with self is not allowed")
)
