package gtfstime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   string
		seconds int
		err     bool
	}{
		{"hh:mm:ss", "08:30:15", 8*3600 + 30*60 + 15, false},
		{"hh:mm", "08:30", 8*3600 + 30*60, false},
		{"hhmm", "0830", 8*3600 + 30*60, false},
		{"overflow past midnight", "25:30:00", 25*3600 + 30*60, false},
		{"am", "8:30 AM", 8*3600 + 30*60, false},
		{"pm", "8:30PM", 20*3600 + 30*60, false},
		{"noon", "12:00 PM", 12 * 3600, false},
		{"midnight am", "12:00 AM", 0, false},
		{"empty", "", 0, true},
		{"bad minute", "08:70", 0, true},
		{"exceeds max", "49:00:00", 0, true},
		{"garbage", "not-a-time", 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			secs, err := ParseClock(tc.input)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.seconds, secs)
		})
	}
}

func TestNewValidatesRange(t *testing.T) {
	_, err := New(20260730, -1)
	assert.Error(t, err)

	_, err = New(20260730, MaxSeconds+1)
	assert.Error(t, err)

	_, err = New(10000101, 0)
	assert.Error(t, err, "date before MinDate should be rejected")

	dt, err := New(20260730, 3600)
	require.NoError(t, err)
	assert.Equal(t, 20260730, dt.Date())
	assert.Equal(t, 3600, dt.Seconds())
}

func TestAddMinutesRollsDate(t *testing.T) {
	dt, err := New(20260730, 23*3600+50*60)
	require.NoError(t, err)

	later := dt.AddMinutes(20)
	assert.Equal(t, 20260731, later.Date())
	assert.Equal(t, 10*60, later.Seconds())

	earlier := dt.AddMinutes(-24 * 60)
	assert.Equal(t, 20260729, earlier.Date())
}

func TestBeforeAfterCompareByInstant(t *testing.T) {
	// 20260730 23:50 and 20260731 00:10 are 20 minutes apart in
	// instant terms, even though their raw seconds values don't
	// reflect that directly.
	late, err := New(20260730, 23*3600+50*60)
	require.NoError(t, err)
	early, err := New(20260731, 10*60)
	require.NoError(t, err)

	assert.True(t, late.Before(early))
	assert.True(t, early.After(late))
	assert.Equal(t, 20*60, int(early.Sub(late).Seconds()))
}

func TestWeekday(t *testing.T) {
	// 2026-07-30 is a Thursday.
	dt, err := New(20260730, 0)
	require.NoError(t, err)
	assert.Equal(t, "Thursday", dt.Weekday().String())
}

func TestAddDaysToDate(t *testing.T) {
	assert.Equal(t, 20260801, AddDaysToDate(20260731, 1))
	assert.Equal(t, 20260731, AddDaysToDate(20260801, -1))
}

func TestRollDate(t *testing.T) {
	assert.Equal(t, 20260730, RollDate(20260730, 3600))
	assert.Equal(t, 20260731, RollDate(20260730, 86400+3600))
}

func TestGTFSClockRoundTrip(t *testing.T) {
	dt, err := New(20260730, 25*3600+5*60+9)
	require.NoError(t, err)
	assert.Equal(t, "25:05:09", dt.GTFSClock())
}

func TestHuman(t *testing.T) {
	for _, tc := range []struct {
		seconds int
		want    string
	}{
		{0, "12:00 AM"},
		{12 * 3600, "12:00 PM"},
		{13 * 3600, "1:00 PM"},
		{25 * 3600, "1:00 AM"},
	} {
		dt, err := New(20260730, tc.seconds)
		require.NoError(t, err)
		assert.Equal(t, tc.want, dt.Human())
	}
}
