package services

import "errors"

// Sentinel errors surfaced to the HTTP layer, which maps them to status
// codes with errors.Is. "Not found" covers absent, expired and
// blob-missing cases alike so responses never reveal which one it was.
var (
	ErrNotFound     = errors.New("file not found")
	ErrTooLarge     = errors.New("file too large")
	ErrUnauthorized = errors.New("password required")
	ErrForbidden    = errors.New("invalid password")
)
