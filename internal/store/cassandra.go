package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

const (
	// pageSize matches the store's scan fetch size. Iterators fetch the
	// next page ahead of time once a tenth of the current page remains, so
	// callers never observe a page boundary.
	pageSize = 1000
	prefetch = 0.10
)

// Config holds the connection parameters for the Cassandra cluster.
type Config struct {
	Hosts       []string
	Keyspace    string
	Consistency string // e.g. "ONE", "QUORUM"
	Timeout     time.Duration
}

// Cassandra is the gocql-backed Client. Statement preparation is handled
// by the driver, which keeps a race-free per-statement prepared cache for
// the session's lifetime; repositories only hold the query templates.
type Cassandra struct {
	session *gocql.Session
}

// Connect opens a session against the cluster and verifies it with the
// configured consistency and timeout.
func Connect(cfg Config) (*Cassandra, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Timeout = cfg.Timeout
	cluster.PageSize = pageSize

	cons, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("store: bad consistency %q: %w", cfg.Consistency, err)
	}
	cluster.Consistency = cons

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Cassandra{session: session}, nil
}

func (c *Cassandra) Exec(ctx context.Context, b Bound) error {
	return c.session.Query(b.Stmt, b.Args...).WithContext(ctx).Exec()
}

func (c *Cassandra) ExecBatch(ctx context.Context, ws *WriteSet) error {
	if ws == nil || ws.Len() == 0 {
		return nil
	}
	batch := c.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, b := range ws.Statements() {
		batch.Query(b.Stmt, b.Args...)
	}
	return c.session.ExecuteBatch(batch)
}

func (c *Cassandra) Query(ctx context.Context, b Bound) Iter {
	return c.session.Query(b.Stmt, b.Args...).
		WithContext(ctx).
		PageSize(pageSize).
		Prefetch(prefetch).
		Iter()
}

func (c *Cassandra) QueryOne(ctx context.Context, b Bound, dest ...interface{}) error {
	err := c.session.Query(b.Stmt, b.Args...).WithContext(ctx).Scan(dest...)
	if err == gocql.ErrNotFound {
		return ErrNotFound
	}
	return err
}

func (c *Cassandra) Close() { c.session.Close() }
