package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a pure in-memory Store, primarily for tests and for
// small embedded deployments that never touch a real database. Tables
// are held as plain Row slices, keyed by table name, and the named
// queries are answered by filtering/sorting those slices directly
// instead of going through SQL.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemoryStore returns an empty store. Use Load to populate tables
// directly; package parse fills it through InsertRow, which appends.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string][]Row{}}
}

// Load replaces the full contents of a table (e.g. "gtfs_stops",
// "rt_holidays") with rows. It is the bulk-write counterpart to
// Get/Select; package parse does not use it (ingestion goes through
// InsertRow, which calls Append).
func (s *MemoryStore) Load(table string, rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = rows
}

// Append adds rows to a table without discarding what's already there.
func (s *MemoryStore) Append(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], rows...)
}

func (s *MemoryStore) Get(ctx context.Context, q Query) (Row, bool, error) {
	rows, err := s.Select(ctx, q)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (s *MemoryStore) Select(ctx context.Context, q Query) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch q.Name {
	case QNameAbout:
		return s.tables["rt_about"], nil

	case QNameAgencies:
		return filterByCol(s.tables["gtfs_agency"], "agency_id", q.Args), nil

	case QNameRoutes:
		return filterByCol(s.tables["gtfs_routes"], "route_id", q.Args), nil

	case QNameStops:
		return filterByCol(s.tables["gtfs_stops"], "stop_id", q.Args), nil

	case QNameStopsExtra:
		return filterByCol(s.tables["rt_stops_extra"], "stop_id", q.Args), nil

	case QNameAltStopNames:
		return filterByCol(s.tables["rt_alt_stop_names"], "stop_id", q.Args), nil

	case QNameCalendar:
		return filterByCol(s.tables["gtfs_calendar"], "service_id", q.Args), nil

	case QNameCalendarByDate:
		date := q.Args[0].(int)
		var out []Row
		for _, r := range s.tables["gtfs_calendar_dates"] {
			if r.Int("date") == date {
				out = append(out, r)
			}
		}
		return out, nil

	case QNameCalendarByService:
		return filterByCol(s.tables["gtfs_calendar_dates"], "service_id", q.Args), nil

	case QNameTrips:
		return filterByCol(s.tables["gtfs_trips"], "trip_id", q.Args), nil

	case QNameTripByShortName:
		shortName, _ := q.Args[0].(string)
		var out []Row
		for _, r := range s.tables["gtfs_trips"] {
			if r.String("trip_short_name") == shortName {
				out = append(out, r)
			}
		}
		return out, nil

	case QNameStopTimesByTrip:
		rows := filterByCol(s.tables["gtfs_stop_times"], "trip_id", q.Args)
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].String("trip_id") != rows[j].String("trip_id") {
				return rows[i].String("trip_id") < rows[j].String("trip_id")
			}
			return rows[i].Int("stop_sequence") < rows[j].Int("stop_sequence")
		})
		return rows, nil

	case QNameStopTimesByStop:
		stopID, _ := q.Args[0].(string)
		start, _ := q.Args[1].(int)
		end, _ := q.Args[2].(int)

		children := map[string]bool{stopID: true}
		for _, r := range s.tables["gtfs_stops"] {
			if r.String("parent_station") == stopID {
				children[r.String("stop_id")] = true
			}
		}

		var out []Row
		for _, r := range s.tables["gtfs_stop_times"] {
			if !children[r.String("stop_id")] {
				continue
			}
			sec := r.Int("departure_time_seconds")
			if start >= 0 && sec < start {
				continue
			}
			if end >= 0 && sec > end {
				continue
			}
			out = append(out, r)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Int("departure_time_seconds") < out[j].Int("departure_time_seconds")
		})
		return out, nil

	case QNameHolidays:
		rows := append([]Row{}, s.tables["rt_holidays"]...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Int("date") < rows[j].Int("date") })
		return rows, nil

	case QNameDirections:
		return s.tables["gtfs_directions"], nil

	case QNameShapes:
		rows := filterByCol(s.tables["gtfs_shapes"], "shape_id", q.Args)
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].String("shape_id") != rows[j].String("shape_id") {
				return rows[i].String("shape_id") < rows[j].String("shape_id")
			}
			return rows[i].Int("shape_pt_sequence") < rows[j].Int("shape_pt_sequence")
		})
		return rows, nil

	case QNameLinks:
		return s.tables["rt_links"], nil

	case QNameLineGraph:
		return s.tables["rt_line_graph"], nil
	}

	return nil, &ErrUnknownQuery{Name: q.Name}
}

func filterByCol(rows []Row, col string, ids []any) []Row {
	if len(ids) == 0 {
		return rows
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		s, _ := id.(string)
		want[s] = true
	}
	var out []Row
	for _, r := range rows {
		if want[r.String(col)] {
			out = append(out, r)
		}
	}
	return out
}
