package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/store"
)

func newTestLayer(st store.Store) *Layer {
	return NewLayer(st, Options{})
}

func TestGetStopAppliesOperatorExtras(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "s1", "stop_name": "Main St", "stop_lat": 40.0, "stop_lon": -73.0},
	})
	s.Load("rt_stops_extra", []store.Row{
		{"stop_id": "s1", "status_id": "42", "display_name": "Main Street Station", "transfer_weight": 3},
	})

	l := newTestLayer(s)
	stop, err := l.GetStop(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "Main Street Station", stop.DisplayName)
	assert.Equal(t, "42", stop.StatusID)
	assert.Equal(t, 3, stop.TransferWeight)
	assert.True(t, stop.HasFeed())
}

func TestGetStopNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLayer(s)

	_, err := l.GetStop(context.Background(), "missing")
	kind, ok := coreerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, coreerr.KindNotFound, kind)
}

func TestGetStopByNameFallsThroughAltThenDisplay(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "s1", "stop_name": "Main St"},
		{"stop_id": "s2", "stop_name": "Oak Ave"},
	})
	s.Load("rt_alt_stop_names", []store.Row{
		{"stop_id": "s2", "alt_stop_name": "Maple"},
	})

	l := newTestLayer(s)

	byName, err := l.GetStopByName(context.Background(), "main st")
	require.NoError(t, err)
	assert.Equal(t, "s1", byName.ID)

	byAlt, err := l.GetStopByName(context.Background(), "MAPLE")
	require.NoError(t, err)
	assert.Equal(t, "s2", byAlt.ID)
}

func TestGetStopByStatusIDRejectsSentinel(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLayer(s)

	_, err := l.GetStopByStatusID(context.Background(), "-1")
	kind, ok := coreerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, coreerr.KindNotSupported, kind)
}

func TestGetStopsHasFeedFilter(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "s1", "stop_name": "B Stop"},
		{"stop_id": "s2", "stop_name": "A Stop"},
	})
	s.Load("rt_stops_extra", []store.Row{
		{"stop_id": "s1", "status_id": "1"},
		{"stop_id": "s2", "status_id": "-1"},
	})

	l := newTestLayer(s)

	all, err := l.GetStops(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A Stop", all[0].Name, "sorted by name ascending")

	withFeed, err := l.GetStops(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, withFeed, 1)
	assert.Equal(t, "s1", withFeed[0].ID)
}

func TestGetStopsByLocationSortsAndTruncates(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "near", "stop_name": "Near", "stop_lat": 40.001, "stop_lon": -73.001},
		{"stop_id": "far", "stop_name": "Far", "stop_lat": 41.0, "stop_lon": -74.0},
	})

	l := newTestLayer(s)

	out, err := l.GetStopsByLocation(context.Background(), 40.0, -73.0, StopsByLocationOptions{Count: 1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "near", out[0].ID)
}

func TestGetStopsByLocationDistanceFilter(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "near", "stop_name": "Near", "stop_lat": 40.001, "stop_lon": -73.001},
		{"stop_id": "far", "stop_name": "Far", "stop_lat": 45.0, "stop_lon": -80.0},
	})

	l := newTestLayer(s)

	out, err := l.GetStopsByLocation(context.Background(), 40.0, -73.0, StopsByLocationOptions{Distance: 5})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "near", out[0].ID)
}

func TestClearCachePurgesStopIndex(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_stops", []store.Row{{"stop_id": "s1", "stop_name": "Main St"}})

	l := newTestLayer(s)
	_, err := l.GetStop(context.Background(), "s1")
	require.NoError(t, err)

	s.Load("gtfs_stops", []store.Row{{"stop_id": "s1", "stop_name": "Renamed"}})
	stillCached, err := l.GetStop(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Main St", stillCached.Name, "cache not yet cleared")

	l.ClearCache()
	refreshed, err := l.GetStop(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", refreshed.Name)
}
