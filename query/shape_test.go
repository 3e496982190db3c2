package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/store"
)

func TestGetShapeSortsBySequence(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_shapes", []store.Row{
		{"shape_id": "sh1", "shape_pt_lat": 40.2, "shape_pt_lon": -73.2, "shape_pt_sequence": 2},
		{"shape_id": "sh1", "shape_pt_lat": 40.0, "shape_pt_lon": -73.0, "shape_pt_sequence": 1},
	})

	l := newTestLayer(s)
	pts, err := l.GetShape(context.Background(), "sh1")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, uint32(1), pts[0].Sequence)
	assert.Equal(t, uint32(2), pts[1].Sequence)
}

func TestGetShapeNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLayer(s)

	_, err := l.GetShape(context.Background(), "missing")
	kind, ok := coreerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, coreerr.KindNotFound, kind)
}

func TestGetShapeCenterAveragesPoints(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_shapes", []store.Row{
		{"shape_id": "sh1", "shape_pt_lat": 40.0, "shape_pt_lon": -74.0, "shape_pt_sequence": 1},
		{"shape_id": "sh1", "shape_pt_lat": 42.0, "shape_pt_lon": -72.0, "shape_pt_sequence": 2},
	})

	l := newTestLayer(s)
	lat, lon, err := l.GetShapeCenter(context.Background(), "sh1")
	require.NoError(t, err)
	assert.Equal(t, 41.0, lat)
	assert.Equal(t, -73.0, lon)
}

func TestGetShapeRoutesFiltersByShapeID(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{
		{"route_id": "r1", "route_long_name": "Main Line", "route_type": 3},
		{"route_id": "r2", "route_long_name": "Branch Line", "route_type": 3},
	})
	s.Load("gtfs_trips", []store.Row{
		{"trip_id": "t1", "route_id": "r1", "service_id": "weekday", "shape_id": "sh1"},
		{"trip_id": "t2", "route_id": "r2", "service_id": "weekday", "shape_id": "sh2"},
	})

	l := newTestLayer(s)
	routes, err := l.GetShapeRoutes(context.Background(), "sh1")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "r1", routes[0].ID)
}
