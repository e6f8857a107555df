// Package graph runs club statistics queries against a Neo4j store and
// exposes the store's entity names as resolver corpora.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/pkg/logger"
)

const defaultDatabase = "neo4j"

// Runner executes a statement and returns its rows.
type Runner interface {
	Run(ctx context.Context, q query.Query) ([]query.Row, error)
}

// Executor runs read queries through a Neo4j driver.
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
	log      logger.Logger
}

// Open connects to uri and verifies connectivity.
func Open(ctx context.Context, uri, username, password string, opts ...Option) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, uri, err)
	}
	return NewExecutor(driver, opts...), nil
}

// NewExecutor wraps an existing driver.
func NewExecutor(driver neo4j.DriverWithContext, opts ...Option) *Executor {
	e := &Executor{driver: driver, database: defaultDatabase, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes q on a reader and collects every record.
func (e *Executor) Run(ctx context.Context, q query.Query) ([]query.Row, error) {
	res, err := neo4j.ExecuteQuery(ctx, e.driver, q.Text, q.Params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		e.log.Warn(ctx, "graph query failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return rowsFrom(res.Records), nil
}

// Close releases the driver.
func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

func rowsFrom(records []*neo4j.Record) []query.Row {
	rows := make([]query.Row, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		row := make(query.Row, len(rec.Keys))
		for i, k := range rec.Keys {
			if i < len(rec.Values) {
				row[k] = rec.Values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
