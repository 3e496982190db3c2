package search

import (
	"github.com/right-track/core/gtfstime"
)

// searchWindow is a TripSearchDate from spec §4.G: a calendar date and
// the [start, end] range of seconds-past-local-midnight to consider on
// it. End may exceed 86400 for trips whose times roll past midnight on
// the same service date.
type searchWindow struct {
	Date  int
	Start int
	End   int
}

// buildWindows expands [departure-preHours, departure+postHours] into
// one or two searchWindows. A single window suffices unless the range
// reaches back to or before local midnight, in which case the portion
// before midnight belongs to the previous calendar date, expressed
// using seconds >= 86400 on that date (GTFS's own convention for trips
// whose service date started the day before), and the portion at or
// after midnight belongs to departure's own date starting at 0. The
// previous-date window is still needed even when start lands exactly
// on 0: a trip whose service is only effective on the earlier calendar
// date can carry an overflow stop-time that numerically lands inside
// departure's own date (spec §4.G seed case S2), so touching midnight
// is enough to require the look-back, not just crossing before it.
func buildWindows(departure gtfstime.DateTime, preHours, postHours int) []searchWindow {
	date := departure.Date()
	sec := departure.Seconds()
	start := sec - preHours*3600
	end := sec + postHours*3600

	if start > 0 {
		return []searchWindow{{Date: date, Start: start, End: end}}
	}

	prevDate := gtfstime.AddDaysToDate(date, -1)
	return []searchWindow{
		{Date: prevDate, Start: start + 86400, End: end + 86400},
		{Date: date, Start: 0, End: end},
	}
}
