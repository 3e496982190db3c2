package transit

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

func minimalFeed() map[string]string {
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

func TestLoadWiresAQueryableSchedule(t *testing.T) {
	data := buildZip(t, minimalFeed())
	s := store.NewMemoryStore()

	sched, err := Load(context.Background(), s, Options{}, data)
	require.NoError(t, err)
	require.NotNil(t, sched.Layer)
	require.NotNil(t, sched.Engine)

	route, err := sched.Layer.GetRoute(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Main Line", route.LongName)
}

func TestLoadRejectsStoreWithoutLoader(t *testing.T) {
	data := buildZip(t, minimalFeed())

	_, err := Load(context.Background(), readOnlyStore{}, Options{}, data)
	assert.Error(t, err)
}

// readOnlyStore implements store.Store but not store.Loader, exercising
// Load's type-assertion guard.
type readOnlyStore struct{}

func (readOnlyStore) Get(ctx context.Context, q store.Query) (store.Row, bool, error) {
	return nil, false, nil
}
func (readOnlyStore) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	return nil, nil
}

func TestNewWiresScheduleOverExistingStore(t *testing.T) {
	s := store.NewMemoryStore()
	sched := New(s, Options{})
	require.NotNil(t, sched.Layer)
	require.NotNil(t, sched.Engine)
}

func TestReloadClearsCacheAndPicksUpNewData(t *testing.T) {
	s := store.NewMemoryStore()
	sched, err := Load(context.Background(), s, Options{}, buildZip(t, minimalFeed()))
	require.NoError(t, err)

	route, err := sched.Layer.GetRoute(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Main Line", route.LongName)

	// Reload against a route appended for a second trip, confirming the
	// cache-clear step lets readers observe the newly loaded data instead
	// of the memoized value above.
	more := minimalFeed()
	more["routes.txt"] = `
route_id,agency_id,route_short_name,route_long_name,route_type
r1,1,1,Main Line,3
r2,1,2,Second Line,3`
	more["trips.txt"] = `
trip_id,route_id,service_id
t2,r2,weekday`
	more["stop_times.txt"] = `
trip_id,arrival_time,departure_time,stop_id,stop_sequence
t2,09:00:00,09:00:00,a,1
t2,09:30:00,09:30:00,b,2`

	require.NoError(t, sched.Reload(context.Background(), buildZip(t, more)))

	route2, err := sched.Layer.GetRoute(context.Background(), "r2")
	require.NoError(t, err)
	assert.Equal(t, "Second Line", route2.LongName)
}
