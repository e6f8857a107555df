package graph

import (
	"context"
	"fmt"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
)

const nameColumn = "name"

var corpusQueries = map[model.EntityType]string{
	model.EntityPlayer:     "MATCH (p:Player) WHERE p.playerName IS NOT NULL RETURN DISTINCT p.playerName AS name ORDER BY name",
	model.EntityTeam:       "MATCH (f:Fixture) WHERE f.team IS NOT NULL RETURN DISTINCT f.team AS name ORDER BY name",
	model.EntityOpposition: "MATCH (f:Fixture) WHERE f.opposition IS NOT NULL RETURN DISTINCT f.opposition AS name ORDER BY name",
	model.EntityLeague:     "MATCH (f:Fixture) WHERE f.league IS NOT NULL RETURN DISTINCT f.league AS name ORDER BY name",
}

// CorpusProvider lists entity names stored in the graph. Stat types are
// not stored and come from the metric catalog.
type CorpusProvider struct {
	runner Runner
}

// NewCorpusProvider reads names through runner.
func NewCorpusProvider(runner Runner) *CorpusProvider {
	return &CorpusProvider{runner: runner}
}

// ListEntities returns every distinct name of type t.
func (p *CorpusProvider) ListEntities(ctx context.Context, t model.EntityType) ([]string, error) {
	if t == model.EntityStatType {
		catalog := model.Metrics()
		names := make([]string, len(catalog))
		for i, m := range catalog {
			names[i] = m.Label
		}
		return names, nil
	}

	text, ok := corpusQueries[t]
	if !ok {
		return nil, fmt.Errorf("%w: no corpus for %q", ErrQuery, t)
	}
	rows, err := p.runner.Run(ctx, query.Query{Text: text, Params: map[string]any{}})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		if s := r.String(nameColumn); s != "" {
			names = append(names, s)
		}
	}
	return names, nil
}
