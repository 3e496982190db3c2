// Package store defines the ScheduleStore contract (spec §4.C): a
// pull-only, row-oriented capability the query layer (package query)
// reads through. Concrete backends (SQLiteStore, PSQLStore,
// MemoryStore) translate a small, fixed vocabulary of named Query
// values into parameterized reads, so no caller-assembled SQL ever
// reaches a driver — the classic "concatenated identifiers" injection
// surface the teacher's SQL strings are vulnerable to is closed by
// construction here.
package store

import (
	"context"
	"fmt"
)

// Row exposes untyped columns by name, as read back from whichever
// backend served the query.
type Row map[string]any

func (r Row) String(col string) string {
	v, _ := r[col].(string)
	return v
}

func (r Row) Int(col string) int {
	switch v := r[col].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (r Row) Int8(col string) int8 {
	return int8(r.Int(col))
}

func (r Row) Float64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Query names the read operation and carries its parameters. The SQL
// (or in-memory equivalent) behind each Name is owned entirely by the
// backend; Query itself never contains SQL text.
type Query struct {
	Name string
	Args []any
}

// Store is the capability the query layer consumes. Each operation may
// suspend (spec §5); callers pass a context to allow cancellation.
type Store interface {
	// Get returns the first matched row, or ok=false if none matched.
	Get(ctx context.Context, q Query) (row Row, ok bool, err error)

	// Select returns the full, ordered result set for q.
	Select(ctx context.Context, q Query) ([]Row, error)
}

// ErrUnknownQuery is returned by backends when given a Query.Name they
// don't recognize; package query wraps it into a coreerr StoreError. It should never surface in
// practice since package query only ever constructs Query values via
// the builders in queries.go.
type ErrUnknownQuery struct {
	Name string
}

func (e *ErrUnknownQuery) Error() string {
	return fmt.Sprintf("store: unknown query %q", e.Name)
}
