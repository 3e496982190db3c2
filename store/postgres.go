package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PSQLStore is the Postgres Store backend, built on database/sql +
// github.com/lib/pq. It understands the same named-query vocabulary as
// SQLiteStore, translated to $N placeholders.
type PSQLStore struct {
	db *sql.DB
}

// NewPSQLStore opens a connection using connStr and ensures the schema
// exists. Set clearDB to drop and recreate every table first; callers
// probably only want that in tests.
func NewPSQLStore(connStr string, clearDB bool) (*PSQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if clearDB {
		if _, err := db.Exec(dropStatements()); err != nil {
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	for _, stmt := range schemaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &PSQLStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PSQLStore) Close() error { return s.db.Close() }

// DB exposes the underlying *sql.DB for use by a FeedWriter during
// ingestion (see package parse).
func (s *PSQLStore) DB() *sql.DB { return s.db }

func (s *PSQLStore) Get(ctx context.Context, q Query) (Row, bool, error) {
	sqlText, args, err := psqlQuery(q)
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

func (s *PSQLStore) Select(ctx context.Context, q Query) ([]Row, error) {
	sqlText, args, err := psqlQuery(q)
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

// psqlQuery mirrors sqliteQuery's dispatch, substituting $N placeholders
// where sqliteQuery uses "?".
func psqlQuery(q Query) (string, []any, error) {
	switch q.Name {
	case QNameAbout:
		return `SELECT compile_date, gtfs_publish_date, start_date, end_date, version, notes FROM rt_about`, nil, nil

	case QNameAgencies:
		base := `SELECT agency_id, agency_name, agency_url, agency_timezone, agency_lang, agency_phone, agency_fare_url, agency_email FROM gtfs_agency`
		return withIDFilterPg(base, "agency_id", q.Args)

	case QNameRoutes:
		base := `SELECT route_id, agency_id, route_short_name, route_long_name, route_desc, route_type, route_url, route_color, route_text_color, route_sort_order FROM gtfs_routes`
		return withIDFilterPg(base, "route_id", q.Args)

	case QNameStops:
		base := `SELECT stop_id, stop_code, stop_name, stop_desc, stop_lat, stop_lon, zone_id, stop_url, location_type, parent_station, stop_timezone, wheelchair_boarding FROM gtfs_stops`
		return withIDFilterPg(base, "stop_id", q.Args)

	case QNameStopsExtra:
		base := `SELECT stop_id, status_id, display_name, transfer_weight, zone_id FROM rt_stops_extra`
		return withIDFilterPg(base, "stop_id", q.Args)

	case QNameAltStopNames:
		base := `SELECT stop_id, alt_stop_name FROM rt_alt_stop_names`
		return withIDFilterPg(base, "stop_id", q.Args)

	case QNameCalendar:
		base := `SELECT service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date FROM gtfs_calendar`
		return withIDFilterPg(base, "service_id", q.Args)

	case QNameCalendarByDate:
		return `SELECT service_id, date, exception_type FROM gtfs_calendar_dates WHERE date = $1`, q.Args, nil

	case QNameCalendarByService:
		base := `SELECT service_id, date, exception_type FROM gtfs_calendar_dates`
		return withIDFilterPg(base, "service_id", q.Args)

	case QNameTrips:
		base := `SELECT trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id, shape_id, wheelchair_accessible, bikes_allowed, peak FROM gtfs_trips`
		return withIDFilterPg(base, "trip_id", q.Args)

	case QNameTripByShortName:
		return `SELECT trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id, shape_id, wheelchair_accessible, bikes_allowed, peak FROM gtfs_trips WHERE trip_short_name = $1`, q.Args, nil

	case QNameStopTimesByTrip:
		base := `SELECT trip_id, arrival_time, arrival_time_seconds, departure_time, departure_time_seconds, stop_id, stop_sequence, stop_headsign, pickup_type, drop_off_type, shape_dist_traveled, has_shape_dist_traveled, timepoint FROM gtfs_stop_times`
		sqlText, args, err := withIDFilterPg(base, "trip_id", q.Args)
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
    SELECT stop_id FROM gtfs_stops WHERE stop_id = $1 OR parent_station = $1
)`
		args := []any{stopID}
		n := 2
		if start >= 0 {
			sqlText += fmt.Sprintf(" AND st.departure_time_seconds >= $%d", n)
			args = append(args, start)
			n++
		}
		if end >= 0 {
			sqlText += fmt.Sprintf(" AND st.departure_time_seconds <= $%d", n)
			args = append(args, end)
			n++
		}
		sqlText += " ORDER BY st.departure_time_seconds"
		return sqlText, args, nil

	case QNameHolidays:
		return `SELECT date, holiday_name, peak, service_info FROM rt_holidays ORDER BY date`, nil, nil

	case QNameDirections:
		return `SELECT direction_id, description FROM gtfs_directions`, nil, nil

	case QNameShapes:
		base := `SELECT shape_id, shape_pt_lat, shape_pt_lon, shape_pt_sequence, shape_dist_traveled FROM gtfs_shapes`
		sqlText, args, err := withIDFilterPg(base, "shape_id", q.Args)
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

func withIDFilterPg(base, col string, ids []any) (string, []any, error) {
	if len(ids) == 0 {
		return base, nil, nil
	}
	ph := make([]string, len(ids))
	for i := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	clause := ""
	for i, p := range ph {
		if i > 0 {
			clause += ", "
		}
		clause += p
	}
	return base + fmt.Sprintf(" WHERE %s IN (%s)", col, clause), ids, nil
}

func dropStatements() string {
	return `
DROP TABLE IF EXISTS gtfs_agency;
DROP TABLE IF EXISTS gtfs_routes;
DROP TABLE IF EXISTS gtfs_stops;
DROP TABLE IF EXISTS gtfs_trips;
DROP TABLE IF EXISTS gtfs_stop_times;
DROP TABLE IF EXISTS gtfs_calendar;
DROP TABLE IF EXISTS gtfs_calendar_dates;
DROP TABLE IF EXISTS gtfs_directions;
DROP TABLE IF EXISTS gtfs_shapes;
DROP TABLE IF EXISTS rt_stops_extra;
DROP TABLE IF EXISTS rt_alt_stop_names;
DROP TABLE IF EXISTS rt_holidays;
DROP TABLE IF EXISTS rt_links;
DROP TABLE IF EXISTS rt_line_graph;
DROP TABLE IF EXISTS rt_route_graph;
DROP TABLE IF EXISTS rt_about;
`
}
