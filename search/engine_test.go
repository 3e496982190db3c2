package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/query"
	"github.com/right-track/core/store"
)

func weekdayCal(id string) store.Row {
	return store.Row{
		"service_id": id,
		"monday":     true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
		"start_date": 20260101, "end_date": 20261231,
	}
}

func TestSearchFindsDirectTrip(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{{"route_id": "r1", "route_long_name": "Main Line"}})
	s.Load("gtfs_calendar", []store.Row{weekdayCal("weekday")})
	s.Load("gtfs_trips", []store.Row{
		{"trip_id": "t1", "route_id": "r1", "service_id": "weekday", "direction_id": "0"},
	})
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "a", "stop_name": "A"},
		{"stop_id": "b", "stop_name": "B"},
	})
	s.Load("gtfs_stop_times", []store.Row{
		{"trip_id": "t1", "stop_id": "a", "stop_sequence": 1, "departure_time_seconds": 8 * 3600, "arrival_time_seconds": 8 * 3600},
		{"trip_id": "t1", "stop_id": "b", "stop_sequence": 2, "departure_time_seconds": 9 * 3600, "arrival_time_seconds": 9 * 3600},
	})

	layer := query.NewLayer(s, query.Options{})
	engine := NewEngine(layer, nil)

	departure, err := gtfstime.New(thurs, 7*3600+30*60)
	require.NoError(t, err)

	results, err := engine.Search(context.Background(), Request{
		OriginID:      "a",
		DestinationID: "b",
		Departure:     departure,
		Options:       DefaultOptions(),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Origin.StopID)
	assert.Equal(t, "b", results[0].Destination.StopID)
	assert.Equal(t, 0, results[0].NumTransfers)
}

func TestSearchRejectsBlankEndpoints(t *testing.T) {
	s := store.NewMemoryStore()
	layer := query.NewLayer(s, query.Options{})
	engine := NewEngine(layer, nil)

	departure, err := gtfstime.New(thurs, 3600)
	require.NoError(t, err)

	_, err = engine.Search(context.Background(), Request{
		OriginID:      "",
		DestinationID: "b",
		Departure:     departure,
	})
	assert.Error(t, err)
}

func TestSearchFindsOneTransferJourney(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{
		{"route_id": "r1", "route_long_name": "First Leg"},
		{"route_id": "r2", "route_long_name": "Second Leg"},
	})
	s.Load("gtfs_calendar", []store.Row{weekdayCal("weekday")})
	s.Load("gtfs_trips", []store.Row{
		{"trip_id": "t1", "route_id": "r1", "service_id": "weekday", "direction_id": "0"},
		{"trip_id": "t2", "route_id": "r2", "service_id": "weekday", "direction_id": "0"},
	})
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "a", "stop_name": "A"},
		{"stop_id": "hub", "stop_name": "Hub", "transfer_weight": 5},
		{"stop_id": "c", "stop_name": "C"},
	})
	s.Load("gtfs_stop_times", []store.Row{
		{"trip_id": "t1", "stop_id": "a", "stop_sequence": 1, "departure_time_seconds": 8 * 3600, "arrival_time_seconds": 8 * 3600},
		{"trip_id": "t1", "stop_id": "hub", "stop_sequence": 2, "departure_time_seconds": 9 * 3600, "arrival_time_seconds": 9 * 3600},
		{"trip_id": "t2", "stop_id": "hub", "stop_sequence": 1, "departure_time_seconds": 9*3600 + 10*60, "arrival_time_seconds": 9*3600 + 10*60},
		{"trip_id": "t2", "stop_id": "c", "stop_sequence": 2, "departure_time_seconds": 10 * 3600, "arrival_time_seconds": 10 * 3600},
	})
	s.Load("rt_line_graph", []store.Row{
		{"stop1_id": "a", "stop2_id": "hub"},
		{"stop1_id": "hub", "stop2_id": "c"},
	})

	layer := query.NewLayer(s, query.Options{})
	engine := NewEngine(layer, nil)

	departure, err := gtfstime.New(thurs, 7*3600+30*60)
	require.NoError(t, err)

	results, err := engine.Search(context.Background(), Request{
		OriginID:      "a",
		DestinationID: "c",
		Departure:     departure,
		Options:       DefaultOptions(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	found := false
	for _, r := range results {
		if r.Origin.StopID == "a" && r.Destination.StopID == "c" && r.NumTransfers == 1 {
			found = true
			require.Len(t, r.Transfers, 1)
			assert.Equal(t, "hub", r.Transfers[0].StopID)
		}
	}
	assert.True(t, found, "expected a one-transfer journey through hub")
}

func TestSearchNoTransfersOptionExcludesIndirectJourneys(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("gtfs_routes", []store.Row{{"route_id": "r1", "route_long_name": "Only Leg"}})
	s.Load("gtfs_calendar", []store.Row{weekdayCal("weekday")})
	s.Load("gtfs_trips", []store.Row{
		{"trip_id": "t1", "route_id": "r1", "service_id": "weekday", "direction_id": "0"},
	})
	s.Load("gtfs_stops", []store.Row{
		{"stop_id": "a", "stop_name": "A"},
		{"stop_id": "b", "stop_name": "B"},
	})
	s.Load("gtfs_stop_times", []store.Row{
		{"trip_id": "t1", "stop_id": "a", "stop_sequence": 1, "departure_time_seconds": 8 * 3600, "arrival_time_seconds": 8 * 3600},
		{"trip_id": "t1", "stop_id": "b", "stop_sequence": 2, "departure_time_seconds": 9 * 3600, "arrival_time_seconds": 9 * 3600},
	})

	layer := query.NewLayer(s, query.Options{})
	engine := NewEngine(layer, nil)

	departure, err := gtfstime.New(thurs, 7*3600+30*60)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.AllowTransfers = false

	results, err := engine.Search(context.Background(), Request{
		OriginID:      "a",
		DestinationID: "b",
		Departure:     departure,
		Options:       opts,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
