package store

// Named queries understood by every Store backend. Builders below are
// the only supported way to construct a Query — package query never
// assembles Query{Name: "..."} literals itself, keeping the vocabulary
// centralized here.
const (
	QNameAbout             = "about"
	QNameAgencies          = "agencies"
	QNameRoutes            = "routes"
	QNameStops             = "stops"
	QNameStopsExtra        = "stops_extra"
	QNameAltStopNames      = "alt_stop_names"
	QNameCalendar          = "calendar"
	QNameCalendarByDate    = "calendar_dates_by_date"
	QNameCalendarByService = "calendar_dates_by_service"
	QNameTrips             = "trips"
	QNameTripByShortName   = "trip_by_short_name"
	QNameStopTimesByTrip   = "stop_times_by_trip"
	QNameStopTimesByStop   = "stop_times_by_stop"
	QNameHolidays          = "holidays"
	QNameDirections        = "directions"
	QNameShapes            = "shapes"
	QNameLinks             = "links"
	QNameLineGraph         = "line_graph"
)

// About returns database metadata (rt_about), a single row.
func About() Query { return Query{Name: QNameAbout} }

// Agencies returns all agencies, or those matching ids when non-empty.
func Agencies(ids ...string) Query { return Query{Name: QNameAgencies, Args: toArgs(ids)} }

// Routes returns all routes, or those matching ids when non-empty.
func Routes(ids ...string) Query { return Query{Name: QNameRoutes, Args: toArgs(ids)} }

// Stops returns all stops, or those matching ids when non-empty.
func Stops(ids ...string) Query { return Query{Name: QNameStops, Args: toArgs(ids)} }

// StopsExtra returns rt_stops_extra rows, or those matching ids when
// non-empty.
func StopsExtra(ids ...string) Query { return Query{Name: QNameStopsExtra, Args: toArgs(ids)} }

// AltStopNames returns all rt_alt_stop_names rows, or those for ids
// when non-empty.
func AltStopNames(ids ...string) Query { return Query{Name: QNameAltStopNames, Args: toArgs(ids)} }

// Calendar returns all gtfs_calendar rows, or those matching ids.
func Calendar(ids ...string) Query { return Query{Name: QNameCalendar, Args: toArgs(ids)} }

// CalendarDatesByDate returns calendar_dates rows with date = date.
func CalendarDatesByDate(date int) Query {
	return Query{Name: QNameCalendarByDate, Args: []any{date}}
}

// CalendarDatesByService returns calendar_dates rows for the given
// service ids.
func CalendarDatesByService(ids ...string) Query {
	return Query{Name: QNameCalendarByService, Args: toArgs(ids)}
}

// Trips returns all trips, or those matching ids when non-empty.
func Trips(ids ...string) Query { return Query{Name: QNameTrips, Args: toArgs(ids)} }

// TripByShortName returns the trip(s) with the given short_name.
func TripByShortName(shortName string) Query {
	return Query{Name: QNameTripByShortName, Args: []any{shortName}}
}

// StopTimesByTrip returns stop_times for the given trip ids,
// sequence-sorted.
func StopTimesByTrip(tripIDs ...string) Query {
	return Query{Name: QNameStopTimesByTrip, Args: toArgs(tripIDs)}
}

// StopTimesByStop returns stop_times for a single stop id (or its
// child stops, when it names a station), optionally bounded to
// departures within [startSeconds, endSeconds]. Pass -1 for either
// bound to leave it open.
func StopTimesByStop(stopID string, startSeconds, endSeconds int) Query {
	return Query{Name: QNameStopTimesByStop, Args: []any{stopID, startSeconds, endSeconds}}
}

// Holidays returns all rt_holidays rows.
func Holidays() Query { return Query{Name: QNameHolidays} }

// Directions returns all gtfs_directions rows.
func Directions() Query { return Query{Name: QNameDirections} }

// Shapes returns all gtfs_shapes rows, or those matching ids, sequence
// sorted.
func Shapes(ids ...string) Query { return Query{Name: QNameShapes, Args: toArgs(ids)} }

// Links returns all rt_links rows.
func Links() Query { return Query{Name: QNameLinks} }

// LineGraph returns all rt_line_graph edge rows.
func LineGraph() Query { return Query{Name: QNameLineGraph} }

func toArgs(ids []string) []any {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
