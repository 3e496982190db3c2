package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Loader is the bulk-write counterpart to Store, used exclusively by
// package parse during ingestion. It takes whole rows rather than a
// named Query: ingestion writes every column of a known GTFS (or rt_*
// extension) table, so there is no caller-assembled predicate to keep
// out of SQL the way there is on the read side.
type Loader interface {
	InsertRow(ctx context.Context, table string, row Row) error
}

// insertSQL builds a deterministic "INSERT INTO table (cols...) VALUES
// (?, ?, ...)" statement (or its $N equivalent) from row's keys, sorted
// for reproducibility since Go map iteration order is not.
func insertSQL(table string, row Row, placeholder func(i int) string) (string, []any) {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		args[i] = row[c]
		ph[i] = placeholder(i)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
	return stmt, args
}

func (s *SQLiteStore) InsertRow(ctx context.Context, table string, row Row) error {
	stmt, args := insertSQL(table, row, func(int) string { return "?" })
	_, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

func (s *PSQLStore) InsertRow(ctx context.Context, table string, row Row) error {
	stmt, args := insertSQL(table, row, func(i int) string { return fmt.Sprintf("$%d", i+1) })
	_, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

func (s *MemoryStore) InsertRow(ctx context.Context, table string, row Row) error {
	s.Append(table, row)
	return nil
}
