package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopDisplayNameOrFallback(t *testing.T) {
	for _, tc := range []struct {
		name        string
		stop        Stop
		want        string
	}{
		{"uses display name when set", Stop{Name: "Main St", DisplayName: "Main Street Station"}, "Main Street Station"},
		{"falls back to name", Stop{Name: "Main St"}, "Main St"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.stop.DisplayNameOrFallback())
		})
	}
}

func TestStopHasFeed(t *testing.T) {
	for _, tc := range []struct {
		name string
		stop Stop
		want bool
	}{
		{"blank status", Stop{StatusID: ""}, false},
		{"sentinel status", Stop{StatusID: NoFeedSentinel}, false},
		{"real status", Stop{StatusID: "123"}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.stop.HasFeed())
		})
	}
}

func TestStopTimeServiceDateRollsOverMidnight(t *testing.T) {
	st := NewStopTime(StopTimeFields{
		ArrivalSeconds:   25 * 3600,
		DepartureSeconds: 25*3600 + 60,
		ServiceDate:      20260730,
	})

	assert.Equal(t, 20260731, st.ArrivalServiceDate())
	assert.Equal(t, 20260731, st.DepartureServiceDate())
	assert.Equal(t, 20260731, st.ArrivalInstant().Date())
	assert.Equal(t, 3600, st.ArrivalInstant().Seconds())
}

func TestNewStopTimeCopiesAllFields(t *testing.T) {
	fields := StopTimeFields{
		Stop:              Stop{ID: "s1"},
		ArrivalClock:      "08:00:00",
		ArrivalSeconds:    8 * 3600,
		DepartureClock:    "08:01:00",
		DepartureSeconds:  8*3600 + 60,
		Sequence:          3,
		PickupType:        PickupDropOffNone,
		DropOffType:       PickupDropOffRegular,
		Headsign:          "Downtown",
		ShapeDistTraveled: 1.5,
		HasShapeDist:      true,
		Timepoint:         TimepointExact,
		ServiceDate:       20260730,
	}

	st := NewStopTime(fields)
	assert.Equal(t, "s1", st.Stop.ID)
	assert.Equal(t, "08:00:00", st.ArrivalClock)
	assert.Equal(t, uint32(3), st.Sequence)
	assert.Equal(t, PickupDropOffNone, st.PickupType)
	assert.Equal(t, "Downtown", st.Headsign)
	assert.True(t, st.HasShapeDist)
	assert.Equal(t, TimepointExact, st.Timepoint)
}

func TestTripFirstLastStopTime(t *testing.T) {
	trip := Trip{
		StopTimes: []StopTime{
			{Stop: Stop{ID: "a"}, Sequence: 1},
			{Stop: Stop{ID: "b"}, Sequence: 2},
			{Stop: Stop{ID: "c"}, Sequence: 3},
		},
	}

	assert.Equal(t, "a", trip.FirstStopTime().Stop.ID)
	assert.Equal(t, "c", trip.LastStopTime().Stop.ID)
}

func TestTripSequenceIndexOf(t *testing.T) {
	trip := Trip{
		StopTimes: []StopTime{
			{Stop: Stop{ID: "a"}},
			{Stop: Stop{ID: "b"}},
			{Stop: Stop{ID: "c"}},
		},
	}

	idx, ok := trip.SequenceIndexOf("b")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = trip.SequenceIndexOf("missing")
	assert.False(t, ok)
}
