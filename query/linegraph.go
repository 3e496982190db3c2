package query

import (
	"context"

	"github.com/right-track/core/graph"
	"github.com/right-track/core/store"
)

// lineGraph builds the line graph lazily on first use and retains it
// until ClearCache, per spec §4.F.
func (l *Layer) lineGraph(ctx context.Context) (*graph.Graph, error) {
	l.mu.Lock()
	g := l.graph
	l.mu.Unlock()
	if g != nil {
		return g, nil
	}

	idx, err := l.stops(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := l.store.Select(ctx, store.LineGraph())
	if err != nil {
		return nil, storeErr(store.QNameLineGraph, err)
	}
	edges := make([][2]string, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, [2]string{row.String("stop1_id"), row.String("stop2_id")})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.graph == nil {
		l.graph = graph.New(idx.stops, edges, l.log)
	}
	return l.graph, nil
}

// GetPaths enumerates all simple paths between two stops in the line
// graph, as sequences of {stopId, transferWeight}.
func (l *Layer) GetPaths(ctx context.Context, originID, destinationID string) ([]graph.Path, error) {
	g, err := l.lineGraph(ctx)
	if err != nil {
		return nil, err
	}
	return g.Paths(ctx, originID, destinationID)
}

// GetNextStops returns the unique stop ids that appear after stopID on
// any path from originID to destinationID, sorted by transfer weight
// descending.
func (l *Layer) GetNextStops(ctx context.Context, originID, destinationID, stopID string) ([]string, error) {
	g, err := l.lineGraph(ctx)
	if err != nil {
		return nil, err
	}
	return g.NextStops(ctx, originID, destinationID, stopID)
}
