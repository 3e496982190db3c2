package parse

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func minimalFeedFiles() map[string]string {
	return map[string]string{
		"agency.txt": `
agency_id,agency_name,agency_url,agency_timezone
1,Agency,http://example.com,America/New_York`,
		"routes.txt": `
route_id,agency_id,route_short_name,route_long_name,route_type
r1,1,1,Main Line,3`,
		"stops.txt": `
stop_id,stop_name,stop_lat,stop_lon
a,Stop A,40.0,-73.0
b,Stop B,40.1,-73.1`,
		"trips.txt": `
trip_id,route_id,service_id
t1,r1,weekday`,
		"stop_times.txt": `
trip_id,arrival_time,departure_time,stop_id,stop_sequence
t1,08:00:00,08:00:00,a,1
t1,08:30:00,08:30:00,b,2`,
		"calendar.txt": `
service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
weekday,1,1,1,1,1,0,0,20260101,20261231`,
	}
}

func TestStaticIngestsMinimalFeed(t *testing.T) {
	data := buildZip(t, minimalFeedFiles())

	s := store.NewMemoryStore()
	err := Static(context.Background(), s, data)
	require.NoError(t, err)

	routes, err := s.Select(context.Background(), store.Routes())
	require.NoError(t, err)
	assert.Len(t, routes, 1)

	stopTimes, err := s.Select(context.Background(), store.StopTimesByTrip("t1"))
	require.NoError(t, err)
	assert.Len(t, stopTimes, 2)
}

func TestStaticRejectsMissingRequiredFile(t *testing.T) {
	files := minimalFeedFiles()
	delete(files, "stop_times.txt")
	data := buildZip(t, files)

	s := store.NewMemoryStore()
	err := Static(context.Background(), s, data)
	assert.Error(t, err)
}

func TestStaticRejectsMissingCalendarAndCalendarDates(t *testing.T) {
	files := minimalFeedFiles()
	delete(files, "calendar.txt")
	data := buildZip(t, files)

	s := store.NewMemoryStore()
	err := Static(context.Background(), s, data)
	assert.Error(t, err)
}

func TestStaticAcceptsCalendarDatesOnlyFeed(t *testing.T) {
	files := minimalFeedFiles()
	delete(files, "calendar.txt")
	files["trips.txt"] = `
trip_id,route_id,service_id
t1,r1,special-event`
	files["calendar_dates.txt"] = `
service_id,date,exception_type
special-event,20260704,1`
	data := buildZip(t, files)

	s := store.NewMemoryStore()
	err := Static(context.Background(), s, data)
	require.NoError(t, err)
}

func TestStaticIngestsOptionalExtensionFiles(t *testing.T) {
	files := minimalFeedFiles()
	files["rt_stops_extra.txt"] = `
stop_id,status_id,display_name,transfer_weight,zone_id
a,100,Stop A Display,2,zoneA`
	files["rt_line_graph.txt"] = `
stop1_id,stop2_id
a,b`
	data := buildZip(t, files)

	s := store.NewMemoryStore()
	err := Static(context.Background(), s, data)
	require.NoError(t, err)

	extraRows, err := s.Select(context.Background(), store.StopsExtra())
	require.NoError(t, err)
	assert.Len(t, extraRows, 1)

	graphRows, err := s.Select(context.Background(), store.LineGraph())
	require.NoError(t, err)
	assert.Len(t, graphRows, 1)
}
