package graph

import "errors"

// Sentinel error kinds for this package.
var (
	ErrConnect     = errors.New("graph store connection failed")
	ErrQuery       = errors.New("graph query failed")
	ErrBreakerOpen = errors.New("graph store circuit open")
)
