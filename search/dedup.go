package search

import (
	"strconv"

	"github.com/right-track/core/gtfstime"
)

// departureInstantKey groups by the full instant, including seconds:
// GTFS stop-times can carry seconds, so two results differing only
// there within the same minute must not collapse into one group.
func departureInstantKey(dt gtfstime.DateTime) string {
	return strconv.Itoa(dt.Date()) + ":" + strconv.Itoa(dt.Seconds())
}

// dedup dominance-prunes a set of surviving journeys per spec §4.G in
// two passes: grouping by origin departure keeps the earliest-arriving
// (then fewest-segment) result per departure instant; the survivors of
// that pass are then grouped by destination arrival, keeping the
// latest-departing (then fewest-segment) result per arrival instant.
// No two returned journeys with the same endpoints share a departure or
// an arrival instant. The result is sorted ascending by origin
// departure.
func dedup(results []*Result) []*Result {
	if len(results) == 0 {
		return nil
	}

	byDeparture := map[string]*Result{}
	for _, r := range results {
		key := r.Origin.StopID + "|" + r.Destination.StopID + "|" + departureInstantKey(r.Origin.Departure)
		cur, ok := byDeparture[key]
		if !ok || betterByArrival(r, cur) {
			byDeparture[key] = r
		}
	}

	byArrival := map[string]*Result{}
	for _, r := range byDeparture {
		key := r.Origin.StopID + "|" + r.Destination.StopID + "|" + departureInstantKey(r.Destination.Arrival)
		cur, ok := byArrival[key]
		if !ok || betterByDeparture(r, cur) {
			byArrival[key] = r
		}
	}

	survivors := make([]*Result, 0, len(byArrival))
	for _, r := range byArrival {
		survivors = append(survivors, r)
	}

	sortResults(survivors)
	return survivors
}

// betterByArrival reports whether a dominates b for a shared origin
// departure: arrives sooner, or ties and uses fewer segments.
func betterByArrival(a, b *Result) bool {
	if !a.Destination.Arrival.Equal(b.Destination.Arrival) {
		return a.Destination.Arrival.Before(b.Destination.Arrival)
	}
	return len(a.Segments) < len(b.Segments)
}

// betterByDeparture reports whether a dominates b for a shared
// destination arrival: departs later, or ties and uses fewer segments.
func betterByDeparture(a, b *Result) bool {
	if !a.Origin.Departure.Equal(b.Origin.Departure) {
		return a.Origin.Departure.After(b.Origin.Departure)
	}
	return len(a.Segments) < len(b.Segments)
}
