package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/model"
)

func mustDateTime(t *testing.T, date, seconds int) gtfstime.DateTime {
	t.Helper()
	dt, err := gtfstime.New(date, seconds)
	require.NoError(t, err)
	return dt
}

func TestNewResultRejectsEmptySegments(t *testing.T) {
	_, err := NewResult(nil)
	assert.Error(t, err)
}

func TestNewResultSingleSegment(t *testing.T) {
	enter := Point{StopID: "a", Departure: mustDateTime(t, thurs, 3600)}
	exit := Point{StopID: "b", Arrival: mustDateTime(t, thurs, 7200)}

	r, err := NewResult([]Segment{{Trip: model.Trip{ID: "t1"}, Enter: enter, Exit: exit}})
	require.NoError(t, err)

	assert.Equal(t, "a", r.Origin.StopID)
	assert.Equal(t, "b", r.Destination.StopID)
	assert.Equal(t, 0, r.NumTransfers)
	assert.Equal(t, int64(3600*1e9), int64(r.TravelTime))
}

func TestNewResultBuildsTransfersAcrossSegments(t *testing.T) {
	seg1 := Segment{
		Trip:  model.Trip{ID: "t1"},
		Enter: Point{StopID: "a", Departure: mustDateTime(t, thurs, 3600)},
		Exit:  Point{StopID: "b", Arrival: mustDateTime(t, thurs, 5400)},
	}
	seg2 := Segment{
		Trip:  model.Trip{ID: "t2"},
		Enter: Point{StopID: "b", Departure: mustDateTime(t, thurs, 6000)},
		Exit:  Point{StopID: "c", Arrival: mustDateTime(t, thurs, 9000)},
	}

	r, err := NewResult([]Segment{seg1, seg2})
	require.NoError(t, err)

	require.Len(t, r.Transfers, 1)
	assert.Equal(t, "b", r.Transfers[0].StopID)
	assert.Equal(t, 1, r.NumTransfers)
	assert.Equal(t, "a", r.Origin.StopID)
	assert.Equal(t, "c", r.Destination.StopID)
}

func TestNewResultRejectsMismatchedTransferStop(t *testing.T) {
	seg1 := Segment{
		Enter: Point{StopID: "a", Departure: mustDateTime(t, thurs, 3600)},
		Exit:  Point{StopID: "b", Arrival: mustDateTime(t, thurs, 5400)},
	}
	seg2 := Segment{
		Enter: Point{StopID: "wrong-stop", Departure: mustDateTime(t, thurs, 6000)},
		Exit:  Point{StopID: "c", Arrival: mustDateTime(t, thurs, 9000)},
	}

	_, err := NewResult([]Segment{seg1, seg2})
	assert.Error(t, err)
}

func TestNewResultRejectsArrivalAfterNextDeparture(t *testing.T) {
	seg1 := Segment{
		Enter: Point{StopID: "a", Departure: mustDateTime(t, thurs, 3600)},
		Exit:  Point{StopID: "b", Arrival: mustDateTime(t, thurs, 9000)},
	}
	seg2 := Segment{
		Enter: Point{StopID: "b", Departure: mustDateTime(t, thurs, 6000)}, // before seg1's arrival
		Exit:  Point{StopID: "c", Arrival: mustDateTime(t, thurs, 10000)},
	}

	_, err := NewResult([]Segment{seg1, seg2})
	assert.Error(t, err)
}
