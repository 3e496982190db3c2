// Package transit is the top-level facade wiring package store,
// calendar, graph, query, search and parse together into one loaded
// schedule, grounded on the teacher's Manager/Static split in
// manager.go/static.go: Manager owns the storage backend and feed
// lifecycle, Static is the queryable handle over one loaded feed. Here
// Schedule plays Static's role (one immutable loaded feed, ready to
// query and search), while Loader (loader.go) plays Manager's role:
// retrieving static feeds by URL, hashing them, and picking whichever
// retrieved feed is active for a requested date. See DESIGN.md for why
// each retrieved feed gets its own store rather than sharing one the
// way the teacher's single storage.Storage handle does.
package transit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/right-track/core/parse"
	"github.com/right-track/core/query"
	"github.com/right-track/core/search"
	"github.com/right-track/core/store"
)

// Schedule is a loaded GTFS feed, ready to be queried and searched.
type Schedule struct {
	Store  store.Store
	Layer  *query.Layer
	Engine *search.Engine
	log    *slog.Logger
}

// Options configures a Schedule.
type Options struct {
	Logger *slog.Logger
}

// New wires a Schedule over an already-populated st (e.g. one Load
// just ingested into, or one restored from disk). Use this when st's
// tables are already loaded and only the read-side wiring is needed.
func New(st store.Store, opts Options) *Schedule {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	layer := query.NewLayer(st, query.Options{Logger: log})
	return &Schedule{
		Store:  st,
		Layer:  layer,
		Engine: search.NewEngine(layer, log),
		log:    log.With("component", "transit"),
	}
}

// Load ingests a zipped GTFS static feed (stock files plus whichever
// rt_* extension files are present) into st and wires a Schedule over
// it. st must support store.Loader (every backend in package store
// does); ingestion and queries share the same backend, mirroring the
// teacher's single storage.Storage handle.
func Load(ctx context.Context, st store.Store, opts Options, data []byte) (*Schedule, error) {
	loader, ok := st.(store.Loader)
	if !ok {
		return nil, fmt.Errorf("transit: store %T does not implement store.Loader", st)
	}
	if err := parse.Static(ctx, loader, data); err != nil {
		return nil, fmt.Errorf("loading static feed: %w", err)
	}
	return New(st, opts), nil
}

// Reload re-ingests data into the same backing store and clears every
// query-layer cache, so readers stop seeing results memoized before
// the reload. Rows are inserted on top of what the store already
// holds; tables are not emptied first, so a MemoryStore keeps the old
// rows alongside the new ones and a SQL store rejects rows whose
// primary keys are already present. Grounded on manager.go's RefreshFeeds, minus the
// HTTP-retrieval and feed-history bookkeeping spec §1 puts out of
// scope.
func (s *Schedule) Reload(ctx context.Context, data []byte) error {
	loader, ok := s.Store.(store.Loader)
	if !ok {
		return fmt.Errorf("transit: store %T does not implement store.Loader", s.Store)
	}
	if err := parse.Static(ctx, loader, data); err != nil {
		return fmt.Errorf("reloading static feed: %w", err)
	}
	s.Layer.ClearCache()
	s.log.Info("schedule reloaded")
	return nil
}
