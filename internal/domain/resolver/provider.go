package resolver

import (
	"context"
	"slices"
	"strings"

	"github.com/okian/clubstats/internal/domain/model"
)

// CorpusProvider lists the known entity names of one type. Implementations
// return a fresh, de-duplicated, order-stable list.
type CorpusProvider interface {
	ListEntities(ctx context.Context, t model.EntityType) ([]string, error)
}

// ProviderFunc adapts a function to CorpusProvider.
type ProviderFunc func(ctx context.Context, t model.EntityType) ([]string, error)

// ListEntities calls f.
func (f ProviderFunc) ListEntities(ctx context.Context, t model.EntityType) ([]string, error) {
	return f(ctx, t)
}

// StaticProvider serves a fixed corpus. Unknown types yield an empty list.
type StaticProvider map[model.EntityType][]string

// ListEntities returns a copy of the configured names.
func (p StaticProvider) ListEntities(_ context.Context, t model.EntityType) ([]string, error) {
	return slices.Clone(p[t]), nil
}

// dedupe drops blank and repeated names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
