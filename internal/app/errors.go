package service

import (
	"errors"

	"github.com/okian/clubstats/internal/domain/model"
)

// Pipeline errors. Answer recovers all of them and renders a sentence.
var (
	ErrEntityNotFound       = errors.New("entity not found")
	ErrAmbiguousEntity      = errors.New("entity is ambiguous")
	ErrMetricNotRecognized  = errors.New("metric not recognized")
	ErrQueryExecutionFailed = errors.New("query execution failed")
	ErrEmptyResultSet       = errors.New("empty result set")
	ErrZeroDenominator      = errors.New("ratio denominator is zero")
	ErrNoUserContext        = errors.New("first person question without user context")
)

// entityError carries what the reply needs about a failed resolution.
type entityError struct {
	err        error
	kind       model.EntityType
	input      string
	suggestion string
	candidates []string
}

func (e *entityError) Error() string {
	return e.err.Error() + ": " + string(e.kind) + " " + e.input
}

func (e *entityError) Unwrap() error { return e.err }
