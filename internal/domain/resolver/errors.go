package resolver

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrCorpusUnavailable marks a provider failure. Resolution continues
	// against an empty corpus.
	ErrCorpusUnavailable = errors.New("entity corpus unavailable")
)
