package repository

import (
	"context"
	"reflect"

	"github.com/listhub/lists-api/internal/store"
)

// fakeClient is an in-memory store.Client for repository tests. Reads are
// answered by the oneFn/queryFn hooks; writes are recorded for assertions.
type fakeClient struct {
	execs   []store.Bound
	batches []*store.WriteSet

	// oneFn answers QueryOne. A nil hook or a nil row means no match.
	oneFn func(b store.Bound) []interface{}
	// queryFn answers Query with zero or more rows.
	queryFn func(b store.Bound) [][]interface{}

	execErr error
}

func (f *fakeClient) Exec(_ context.Context, b store.Bound) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.execs = append(f.execs, b)
	return nil
}

func (f *fakeClient) ExecBatch(_ context.Context, ws *store.WriteSet) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.batches = append(f.batches, ws)
	return nil
}

func (f *fakeClient) Query(_ context.Context, b store.Bound) store.Iter {
	var rows [][]interface{}
	if f.queryFn != nil {
		rows = f.queryFn(b)
	}
	return &fakeIter{rows: rows}
}

func (f *fakeClient) QueryOne(_ context.Context, b store.Bound, dest ...interface{}) error {
	if f.oneFn == nil {
		return store.ErrNotFound
	}
	row := f.oneFn(b)
	if row == nil {
		return store.ErrNotFound
	}
	scanInto(dest, row)
	return nil
}

func (f *fakeClient) Close() {}

// lastBatch returns the most recent write-set, or nil.
func (f *fakeClient) lastBatch() *store.WriteSet {
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1]
}

type fakeIter struct {
	rows [][]interface{}
	idx  int
}

func (it *fakeIter) Scan(dest ...interface{}) bool {
	if it.idx >= len(it.rows) {
		return false
	}
	scanInto(dest, it.rows[it.idx])
	it.idx++
	return true
}

func (it *fakeIter) Close() error { return nil }

// scanInto assigns row values through the destination pointers, the way a
// driver scan would.
func scanInto(dest []interface{}, row []interface{}) {
	for i, d := range dest {
		if i >= len(row) || row[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
}
