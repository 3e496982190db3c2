package store

// schemaStatements returns the DDL for the full authoritative schema
// from spec §6 (stock GTFS tables plus the rt_* operator extensions).
// It is shared, nearly verbatim, between SQLiteStore and PSQLStore:
// both speak a conservative SQL subset (TEXT/REAL/INTEGER columns,
// 0/1 booleans) so the same statements apply to either driver, the
// way the teacher's sqlite.go and postgres.go independently declare
// near-identical tables.
func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS gtfs_agency (
			agency_id TEXT PRIMARY KEY,
			agency_name TEXT NOT NULL,
			agency_url TEXT NOT NULL,
			agency_timezone TEXT NOT NULL,
			agency_lang TEXT,
			agency_phone TEXT,
			agency_fare_url TEXT,
			agency_email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_routes (
			route_id TEXT PRIMARY KEY,
			agency_id TEXT,
			route_short_name TEXT,
			route_long_name TEXT,
			route_desc TEXT,
			route_type INTEGER NOT NULL,
			route_url TEXT,
			route_color TEXT,
			route_text_color TEXT,
			route_sort_order INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_stops (
			stop_id TEXT PRIMARY KEY,
			stop_code TEXT,
			stop_name TEXT NOT NULL,
			stop_desc TEXT,
			stop_lat REAL NOT NULL,
			stop_lon REAL NOT NULL,
			zone_id TEXT,
			stop_url TEXT,
			location_type INTEGER,
			parent_station TEXT,
			stop_timezone TEXT,
			wheelchair_boarding INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_trips (
			trip_id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			trip_headsign TEXT,
			trip_short_name TEXT,
			direction_id TEXT,
			block_id TEXT,
			shape_id TEXT,
			wheelchair_accessible INTEGER,
			bikes_allowed INTEGER,
			peak INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_stop_times (
			trip_id TEXT NOT NULL,
			arrival_time TEXT NOT NULL,
			arrival_time_seconds INTEGER NOT NULL,
			departure_time TEXT NOT NULL,
			departure_time_seconds INTEGER NOT NULL,
			stop_id TEXT NOT NULL,
			stop_sequence INTEGER NOT NULL,
			stop_headsign TEXT,
			pickup_type INTEGER,
			drop_off_type INTEGER,
			shape_dist_traveled REAL,
			has_shape_dist_traveled INTEGER,
			timepoint INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_calendar (
			service_id TEXT PRIMARY KEY,
			monday INTEGER NOT NULL,
			tuesday INTEGER NOT NULL,
			wednesday INTEGER NOT NULL,
			thursday INTEGER NOT NULL,
			friday INTEGER NOT NULL,
			saturday INTEGER NOT NULL,
			sunday INTEGER NOT NULL,
			start_date INTEGER NOT NULL,
			end_date INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_calendar_dates (
			service_id TEXT NOT NULL,
			date INTEGER NOT NULL,
			exception_type INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_directions (
			direction_id TEXT PRIMARY KEY,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gtfs_shapes (
			shape_id TEXT NOT NULL,
			shape_pt_lat REAL NOT NULL,
			shape_pt_lon REAL NOT NULL,
			shape_pt_sequence INTEGER NOT NULL,
			shape_dist_traveled REAL
		)`,
		`CREATE TABLE IF NOT EXISTS rt_stops_extra (
			stop_id TEXT PRIMARY KEY,
			status_id TEXT,
			display_name TEXT,
			transfer_weight INTEGER NOT NULL DEFAULT 0,
			zone_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rt_alt_stop_names (
			stop_id TEXT NOT NULL,
			alt_stop_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rt_holidays (
			date INTEGER PRIMARY KEY,
			holiday_name TEXT NOT NULL,
			peak INTEGER NOT NULL,
			service_info TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rt_links (
			link_category_title TEXT NOT NULL,
			link_title TEXT NOT NULL,
			link_description TEXT,
			link_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rt_line_graph (
			stop1_id TEXT NOT NULL,
			stop2_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rt_route_graph (
			stop1_id TEXT NOT NULL,
			stop2_id TEXT NOT NULL,
			direction_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rt_about (
			compile_date TEXT,
			gtfs_publish_date TEXT,
			start_date TEXT,
			end_date TEXT,
			version TEXT,
			notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stop_times_trip ON gtfs_stop_times (trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stop_times_stop ON gtfs_stop_times (stop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stop_times_departure ON gtfs_stop_times (departure_time_seconds)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_route ON gtfs_trips (route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_service ON gtfs_trips (service_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stops_parent ON gtfs_stops (parent_station)`,
	}
}
