// Package common defines shared constants and sentinel errors used across
// the sanitizer server and its operator client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")

	// Authentication and authorization.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("forbidden")
	ErrAccountDisabled    = errors.New("account deactivated")

	// Orchestrator errors.
	ErrDeviceBusy     = errors.New("device busy")
	ErrDeviceNotFound = errors.New("device not found")
	ErrJobNotFound    = errors.New("job not found")
	ErrJobFinished    = errors.New("job already finished")

	// Certificate errors.
	ErrNotEligible         = errors.New("not eligible for certificate")
	ErrSigningFailed       = errors.New("certificate signing failed")
	ErrCertificateTampered = errors.New("certificate content does not match its id")

	// ErrPersistence marks a failed durable write. The operation that
	// triggered it must not report success.
	ErrPersistence = errors.New("persistence error")
)
