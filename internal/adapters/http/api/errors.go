package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrTooLarge    = errors.New("request body too large")
	ErrUnknownType = errors.New("unknown entity type")
)
