package models

import "errors"

// Domain specific errors surfaced by collaborator clients and handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")

	// ErrDegraded signals that a collaborator is unreachable and the caller
	// is being served cached or empty data. The view state stays renderable.
	ErrDegraded = errors.New("collaborator unavailable, serving degraded data")
)
