package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. wrong event vocabulary for the subject, no pending
// payment submission, experience not active).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a concurrent workflow transition lost the race
// for the next per-subject sequence number. The caller should re-read the
// subject's status before retrying.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
