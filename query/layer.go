// Package query implements the memoized, fully-typed read layer from
// spec §4.D on top of package store's generic row contract. Every
// reader caches its materialized result keyed by its arguments and
// coalesces concurrent first-fills with singleflight, per the
// "single-flight guarantee" in §4.D and the "single-flight guard" in
// §5.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/right-track/core/calendar"
	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/graph"
	"github.com/right-track/core/store"
)

// cacheSize is the per-reader LRU capacity. Readers with effectively
// singleton results (getAbout, getRoutes, getHolidays) never come
// close to it; readers keyed by id/date benefit from it on feeds with
// many stops/trips.
const cacheSize = 4096

// reader names the per-entity-family cache, used only as a map key;
// never surfaced to callers.
type reader string

const (
	readerAbout          reader = "about"
	readerService         reader = "service"
	readerServicesDefault reader = "services_default"
	readerServiceExcepts  reader = "service_exceptions"
	readerServicesEffect  reader = "services_effective"
	readerRoute           reader = "route"
	readerRoutes          reader = "routes"
	readerStop            reader = "stop"
	readerStopByName      reader = "stop_by_name"
	readerStopByStatus    reader = "stop_by_status"
	readerStops           reader = "stops"
	readerStopsByRoute    reader = "stops_by_route"
	readerStopsByLocation reader = "stops_by_location"
	readerStopTimesByTrip reader = "stop_times_by_trip"
	readerStopTimeOne     reader = "stop_time_one"
	readerTrip            reader = "trip"
	readerTripByShort     reader = "trip_by_short_name"
	readerTripByDeparture reader = "trip_by_departure"
	readerTripsByDate     reader = "trips_by_date"
	readerHoliday         reader = "holiday"
	readerHolidays        reader = "holidays"
	readerDirections      reader = "directions"
	readerDirection       reader = "direction"
	readerShape           reader = "shape"
	readerShapes          reader = "shapes"
	readerShapeRoutes     reader = "shape_routes"
	readerShapeCenter     reader = "shape_center"
	readerLinks           reader = "links"
	readerLinkCategories  reader = "link_categories"
	readerLinksByCategory reader = "links_by_category"
	readerAgency          reader = "agency"
	readerTripTemplates   reader = "trip_templates"
	readerStopIndex       reader = "stop_index"
)

// memo pairs an LRU with a singleflight group so concurrent misses for
// the same key collapse into one fill.
type memo struct {
	lru *lru.Cache[string, any]
	sf  singleflight.Group
}

func newMemo() *memo {
	c, _ := lru.New[string, any](cacheSize)
	return &memo{lru: c}
}

func (m *memo) get(key string, fill func() (any, error)) (any, error) {
	if v, ok := m.lru.Get(key); ok {
		return v, nil
	}
	v, err, _ := m.sf.Do(key, func() (any, error) {
		if v, ok := m.lru.Get(key); ok {
			return v, nil
		}
		val, err := fill()
		if err != nil {
			return nil, err
		}
		m.lru.Add(key, val)
		return val, nil
	})
	return v, err
}

func (m *memo) clear() {
	m.lru.Purge()
}

// Layer is the query engine's entry point: construct one per loaded
// schedule (see package transit), share it across concurrent callers,
// and call ClearCache after a reload.
type Layer struct {
	store    store.Store
	resolver *calendar.Resolver
	log      *slog.Logger

	mu     sync.Mutex
	memos  map[reader]*memo
	graph  *graph.Graph
}

// Options configures a Layer. The zero value is valid: a nil Logger
// defaults to slog.Default().
type Options struct {
	Logger *slog.Logger
}

// NewLayer builds a Layer over st. The calendar resolver is stateless
// and shared across every getServicesEffective/getService(s) call.
func NewLayer(st store.Store, opts Options) *Layer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Layer{
		store:    st,
		resolver: calendar.NewResolver(),
		log:      log.With("component", "query"),
		memos:    make(map[reader]*memo),
	}
}

func (l *Layer) memoFor(r reader) *memo {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.memos[r]
	if !ok {
		m = newMemo()
		l.memos[r] = m
	}
	return m
}

// ClearCache drops every memoized result and the lazily-built line
// graph. Callers do this after a schedule reload (see transit.Loader).
func (l *Layer) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.memos {
		m.clear()
	}
	l.graph = nil
	l.log.Debug("cache cleared")
}

func memoGet[T any](m *memo, key string, fill func() (T, error)) (T, error) {
	v, err := m.get(key, func() (any, error) {
		return fill()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func storeErr(query string, err error) error {
	return coreerr.Store(query, err)
}

// Distance is the geodesic helper from spec §4.D: haversine great
// circle distance between two lat/lon pairs, in miles.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371
	const kmToMiles = 0.621371

	aLat := lat1 * math.Pi / 180
	bLat := lat2 * math.Pi / 180
	dLat := aLat - bLat
	dLon := (lon1 - lon2) * math.Pi / 180

	a := math.Cos(aLat)*math.Cos(bLat)*math.Pow(math.Sin(dLon/2), 2) + math.Pow(math.Sin(dLat/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return c * earthRadiusKm * kmToMiles
}

func missingRow(ctx context.Context, what, id string) error {
	_ = ctx
	return coreerr.NotFound(fmt.Sprintf("%s %q not found", what, id))
}
