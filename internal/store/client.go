// Package store wraps the wide-column database client. Repositories speak
// to it in terms of bound statements, write-sets and paginated scans; the
// Cassandra implementation lives in cassandra.go and everything above it
// depends only on the Client interface.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by QueryOne when no row matches.
var ErrNotFound = errors.New("store: not found")

// Bound is a statement template together with its positional arguments,
// ready for execution.
type Bound struct {
	Stmt string
	Args []interface{}
}

// Iter walks the rows of a scan. Pagination is handled underneath: Scan
// keeps yielding rows across page boundaries until the result set or the
// request context is exhausted. Close reports any error encountered,
// including context cancellation mid-scan.
type Iter interface {
	Scan(dest ...interface{}) bool
	Close() error
}

// Client is the store boundary the repositories are written against.
type Client interface {
	// Exec runs a single mutation.
	Exec(ctx context.Context, b Bound) error
	// ExecBatch submits every statement in the write-set as one batch.
	// Application is best-effort atomic: the store promises the batch is
	// accepted or rejected as a unit, not that rows apply in order.
	ExecBatch(ctx context.Context, ws *WriteSet) error
	// Query starts a paginated scan.
	Query(ctx context.Context, b Bound) Iter
	// QueryOne reads a single row into dest, or ErrNotFound.
	QueryOne(ctx context.Context, b Bound, dest ...interface{}) error
	// Close releases the underlying session.
	Close()
}
