package transit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func newMemoryStoreFunc() NewStoreFunc {
	return func() store.Store { return store.NewMemoryStore() }
}

func TestLoaderLoadStaticRetrievesAndParses(t *testing.T) {
	var hits int32
	data := buildZip(t, minimalFeed())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(newMemoryStoreFunc(), Options{})

	sched, err := l.LoadStatic(context.Background(), srv.URL, time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	route, err := sched.Layer.GetRoute(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Main Line", route.LongName)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestLoaderLoadStaticReusesRetrievedFeedOnSecondCall(t *testing.T) {
	var hits int32
	data := buildZip(t, minimalFeed())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(newMemoryStoreFunc(), Options{})
	when := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	_, err := l.LoadStatic(context.Background(), srv.URL, when)
	require.NoError(t, err)
	_, err = l.LoadStatic(context.Background(), srv.URL, when)
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestLoaderLoadStaticNoActiveFeedOutsideDateRange(t *testing.T) {
	files := minimalFeed()
	files["rt_about.txt"] = `
compile_date,gtfs_publish_date,start_date,end_date,version,notes
20250101,20250101,20250101,20250601,1.0,expired feed`
	data := buildZip(t, files)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(newMemoryStoreFunc(), Options{})

	_, err := l.LoadStatic(context.Background(), srv.URL, time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoActiveFeed)
}

func TestLoaderRefreshSkipsFeedWithinRefreshInterval(t *testing.T) {
	var hits int32
	data := buildZip(t, minimalFeed())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(newMemoryStoreFunc(), Options{})
	when := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	_, err := l.LoadStatic(context.Background(), srv.URL, when)
	require.NoError(t, err)

	require.NoError(t, l.Refresh(context.Background()))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}
