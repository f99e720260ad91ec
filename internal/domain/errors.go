package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrStoreUnavailable marks a failed storage round trip. Safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Credential failures. All of them satisfy errors.Is(err, ErrUnauthorized).
var (
	ErrMissingCredential = fmt.Errorf("missing credential: %w", ErrUnauthorized)
	ErrInvalidCredential = fmt.Errorf("invalid credential: %w", ErrUnauthorized)
	ErrExpiredCredential = fmt.Errorf("expired credential: %w", ErrUnauthorized)
	ErrUnknownSubject    = fmt.Errorf("unknown subject: %w", ErrUnauthorized)
)

// ErrInvalidInput is returned for malformed questionnaire input.
var ErrInvalidInput = fmt.Errorf("invalid input: %w", ErrBadRequest)
