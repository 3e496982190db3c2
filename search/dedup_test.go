package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithTimes(t *testing.T, originDep, destArr int, segments int) *Result {
	t.Helper()
	dep := mustDateTime(t, thurs, originDep)
	arr := mustDateTime(t, thurs, destArr)

	segs := make([]Segment, segments)
	for i := range segs {
		segs[i] = Segment{}
	}
	r := &Result{
		Origin:       Point{StopID: "a", Departure: dep},
		Destination:  Point{StopID: "b", Arrival: arr},
		Segments:     segs,
		NumTransfers: segments - 1,
	}
	return r
}

func TestDedupEmptyInput(t *testing.T) {
	assert.Nil(t, dedup(nil))
}

func TestDedupKeepsEarliestArrivalPerDeparture(t *testing.T) {
	slow := resultWithTimes(t, 3600, 10800, 1)
	fast := resultWithTimes(t, 3600, 7200, 1)

	out := dedup([]*Result{slow, fast})
	require.Len(t, out, 1)
	assert.Same(t, fast, out[0])
}

func TestDedupKeepsLatestDeparturePerArrival(t *testing.T) {
	early := resultWithTimes(t, 1800, 10800, 1)
	late := resultWithTimes(t, 3600, 10800, 1)

	out := dedup([]*Result{early, late})
	require.Len(t, out, 1)
	assert.Same(t, late, out[0])
}

func TestDedupPrefersFewerSegmentsOnTie(t *testing.T) {
	direct := resultWithTimes(t, 3600, 7200, 1)
	withTransfer := resultWithTimes(t, 3600, 7200, 2)

	out := dedup([]*Result{withTransfer, direct})
	require.Len(t, out, 1)
	assert.Same(t, direct, out[0])
}

func TestDedupKeepsDistinctDeparturesWithinSameMinute(t *testing.T) {
	first := resultWithTimes(t, 3600, 7200, 1)
	second := resultWithTimes(t, 3615, 7215, 1)

	out := dedup([]*Result{first, second})
	require.Len(t, out, 2)
}

func TestDedupKeepsNonDominatedAndSortsAscending(t *testing.T) {
	// Two non-dominated journeys between different departure/arrival
	// pairs both survive, sorted by origin departure.
	later := resultWithTimes(t, 7200, 10800, 1)
	earlier := resultWithTimes(t, 3600, 9000, 1)

	out := dedup([]*Result{later, earlier})
	require.Len(t, out, 2)
	assert.Same(t, earlier, out[0])
	assert.Same(t, later, out[1])
}
