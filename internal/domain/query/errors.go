package query

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnsupportedMetric = errors.New("metric not supported for this question")
	ErrUnsafeParameter   = errors.New("unsafe query parameter")
	ErrMissingEntity     = errors.New("query entity missing")
)
