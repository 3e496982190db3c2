// Package parse ingests a GTFS static feed (zip of CSV files) plus the
// rt_* operator-extension tables spec §3/§6 adds, writing rows through
// a store.Loader. It is grounded on the teacher's parse package, which
// writes through a storage.FeedWriter; generalized here to route every
// write through store.Loader.InsertRow so ingestion never needs
// backend-specific SQL, the same way the read side never does.
package parse

import (
	"context"
	"fmt"

	"github.com/right-track/core/store"
)

// Writer adapts a store.Loader into typed, per-table write methods. It
// carries no state beyond the loader and a context; it does not batch
// or buffer, mirroring the teacher's row-at-a-time FeedWriter calls.
type Writer struct {
	ctx    context.Context
	loader store.Loader
}

// NewWriter returns a Writer over loader, issuing every subsequent
// write under ctx.
func NewWriter(ctx context.Context, loader store.Loader) *Writer {
	return &Writer{ctx: ctx, loader: loader}
}

func (w *Writer) insert(table string, row store.Row) error {
	if err := w.loader.InsertRow(w.ctx, table, row); err != nil {
		return fmt.Errorf("writing %s row: %w", table, err)
	}
	return nil
}
