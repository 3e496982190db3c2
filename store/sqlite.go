package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig configures SQLiteStore, mirroring the teacher's
// storage.SQLiteConfig.
type SQLiteConfig struct {
	// OnDisk, when true, opens/creates a file at Directory/schedule.db.
	// Otherwise an in-process ":memory:" database is used.
	OnDisk    bool
	Directory string
}

// SQLiteStore is the primary on-disk/in-process Store backend, built
// on database/sql + github.com/mattn/go-sqlite3.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the schedule database
// and ensures the schema exists.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	source := ":memory:"
	if cfg.OnDisk {
		source = cfg.Directory + "/schedule.db"
	}

	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	for _, stmt := range schemaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// DB exposes the underlying *sql.DB for use by a FeedWriter during
// ingestion (see package parse).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Get(ctx context.Context, q Query) (Row, bool, error) {
	sqlText, args, err := sqliteQuery(q)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, false, &queryError{q: q, cause: err}
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	row, err := scanRow(rows)
	if err != nil {
		return nil, false, &queryError{q: q, cause: err}
	}
	return row, true, nil
}

func (s *SQLiteStore) Select(ctx context.Context, q Query) ([]Row, error) {
	sqlText, args, err := sqliteQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, &queryError{q: q, cause: err}
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, &queryError{q: q, cause: err}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// scanRow generically scans the current row into a Row map using
// rows.Columns()/rows.Scan() with sql.RawBytes-free generic targets.
func scanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := Row{}
	for i, c := range cols {
		row[c] = normalizeSQLValue(values[i])
	}
	return row, nil
}

func normalizeSQLValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	default:
		return x
	}
}

type queryError struct {
	q     Query
	cause error
}

func (e *queryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.q.Name, e.cause)
}
func (e *queryError) Unwrap() error { return e.cause }

// QueryName returns the Query.Name that failed, for coreerr.Store
// construction by callers.
func (e *queryError) QueryName() string { return e.q.Name }

// placeholders returns "?,?,?" for the given count, for use in IN (...).
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}

// sqliteQuery translates a Query into SQLite SQL text and driver args.
func sqliteQuery(q Query) (string, []any, error) {
	switch q.Name {
	case QNameAbout:
		return `SELECT compile_date, gtfs_publish_date, start_date, end_date, version, notes FROM rt_about`, nil, nil

	case QNameAgencies:
		base := `SELECT agency_id, agency_name, agency_url, agency_timezone, agency_lang, agency_phone, agency_fare_url, agency_email FROM gtfs_agency`
		return withIDFilter(base, "agency_id", q.Args)

	case QNameRoutes:
		base := `SELECT route_id, agency_id, route_short_name, route_long_name, route_desc, route_type, route_url, route_color, route_text_color, route_sort_order FROM gtfs_routes`
		return withIDFilter(base, "route_id", q.Args)

	case QNameStops:
		base := `SELECT stop_id, stop_code, stop_name, stop_desc, stop_lat, stop_lon, zone_id, stop_url, location_type, parent_station, stop_timezone, wheelchair_boarding FROM gtfs_stops`
		return withIDFilter(base, "stop_id", q.Args)

	case QNameStopsExtra:
		base := `SELECT stop_id, status_id, display_name, transfer_weight, zone_id FROM rt_stops_extra`
		return withIDFilter(base, "stop_id", q.Args)

	case QNameAltStopNames:
		base := `SELECT stop_id, alt_stop_name FROM rt_alt_stop_names`
		return withIDFilter(base, "stop_id", q.Args)

	case QNameCalendar:
		base := `SELECT service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date FROM gtfs_calendar`
		return withIDFilter(base, "service_id", q.Args)

	case QNameCalendarByDate:
		return `SELECT service_id, date, exception_type FROM gtfs_calendar_dates WHERE date = ?`, q.Args, nil

	case QNameCalendarByService:
		base := `SELECT service_id, date, exception_type FROM gtfs_calendar_dates`
		return withIDFilter(base, "service_id", q.Args)

	case QNameTrips:
		base := `SELECT trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id, shape_id, wheelchair_accessible, bikes_allowed, peak FROM gtfs_trips`
		return withIDFilter(base, "trip_id", q.Args)

	case QNameTripByShortName:
		return `SELECT trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id, shape_id, wheelchair_accessible, bikes_allowed, peak FROM gtfs_trips WHERE trip_short_name = ?`, q.Args, nil

	case QNameStopTimesByTrip:
		base := `SELECT trip_id, arrival_time, arrival_time_seconds, departure_time, departure_time_seconds, stop_id, stop_sequence, stop_headsign, pickup_type, drop_off_type, shape_dist_traveled, has_shape_dist_traveled, timepoint FROM gtfs_stop_times`
		sqlText, args, err := withIDFilter(base, "trip_id", q.Args)
		if err != nil {
			return "", nil, err
		}
		return sqlText + " ORDER BY trip_id, stop_sequence", args, nil

	case QNameStopTimesByStop:
		if len(q.Args) != 3 {
			return "", nil, fmt.Errorf("stop_times_by_stop expects 3 args, got %d", len(q.Args))
		}
		stopID, start, end := q.Args[0], q.Args[1].(int), q.Args[2].(int)
		sqlText := `
SELECT st.trip_id, st.arrival_time, st.arrival_time_seconds, st.departure_time, st.departure_time_seconds,
       st.stop_id, st.stop_sequence, st.stop_headsign, st.pickup_type, st.drop_off_type,
       st.shape_dist_traveled, st.has_shape_dist_traveled, st.timepoint
FROM gtfs_stop_times st
WHERE st.stop_id IN (
    SELECT stop_id FROM gtfs_stops WHERE stop_id = ? OR parent_station = ?
)`
		args := []any{stopID, stopID}
		if start >= 0 {
			sqlText += " AND st.departure_time_seconds >= ?"
			args = append(args, start)
		}
		if end >= 0 {
			sqlText += " AND st.departure_time_seconds <= ?"
			args = append(args, end)
		}
		sqlText += " ORDER BY st.departure_time_seconds"
		return sqlText, args, nil

	case QNameHolidays:
		return `SELECT date, holiday_name, peak, service_info FROM rt_holidays ORDER BY date`, nil, nil

	case QNameDirections:
		return `SELECT direction_id, description FROM gtfs_directions`, nil, nil

	case QNameShapes:
		base := `SELECT shape_id, shape_pt_lat, shape_pt_lon, shape_pt_sequence, shape_dist_traveled FROM gtfs_shapes`
		sqlText, args, err := withIDFilter(base, "shape_id", q.Args)
		if err != nil {
			return "", nil, err
		}
		return sqlText + " ORDER BY shape_id, shape_pt_sequence", args, nil

	case QNameLinks:
		return `SELECT link_category_title, link_title, link_description, link_url FROM rt_links`, nil, nil

	case QNameLineGraph:
		return `SELECT stop1_id, stop2_id FROM rt_line_graph`, nil, nil
	}

	return "", nil, &ErrUnknownQuery{Name: q.Name}
}

func withIDFilter(base, col string, ids []any) (string, []any, error) {
	if len(ids) == 0 {
		return base, nil, nil
	}
	return base + fmt.Sprintf(" WHERE %s IN (%s)", col, placeholders(len(ids))), ids, nil
}
