package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func TestGetRouteByID(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{
		{"route_id": "r1", "route_long_name": "Main Line", "route_short_name": "1", "route_type": 3},
	})

	l := newTestLayer(s)
	r, err := l.GetRoute(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Main Line", r.LongName)
	assert.Equal(t, "1", r.ShortName)
}

func TestGetRouteNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLayer(s)

	_, err := l.GetRoute(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGetRoutesSortedByLongName(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{
		{"route_id": "r1", "route_long_name": "Zeta Line"},
		{"route_id": "r2", "route_long_name": "Alpha Line"},
	})

	l := newTestLayer(s)
	routes, err := l.GetRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "Alpha Line", routes[0].LongName)
	assert.Equal(t, "Zeta Line", routes[1].LongName)
}
