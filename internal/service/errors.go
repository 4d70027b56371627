package service

import "errors"

// Failure taxonomy shared by all services. Handlers map these to HTTP status
// codes; callers wrap with fmt.Errorf("%w: ...") to add detail.
var (
	ErrValidation   = errors.New("validation_failed")
	ErrNotFound     = errors.New("not_found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid_state")
	ErrConflict     = errors.New("conflict")
)
