package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func TestGetHolidayAndIsHoliday(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("rt_holidays", []store.Row{
		{"date": 20260704, "holiday_name": "Independence Day", "peak": false, "service_info": "Sunday schedule"},
	})

	l := newTestLayer(s)

	h, ok, err := l.GetHoliday(context.Background(), 20260704)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Independence Day", h.Name)
	assert.False(t, h.Peak)

	is, err := l.IsHoliday(context.Background(), 20260704)
	require.NoError(t, err)
	assert.True(t, is)

	is, err = l.IsHoliday(context.Background(), 20260101)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestGetHolidaysListsAll(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("rt_holidays", []store.Row{
		{"date": 20260101, "holiday_name": "New Year's Day", "peak": false},
		{"date": 20261225, "holiday_name": "Christmas", "peak": false},
	})

	l := newTestLayer(s)
	all, err := l.GetHolidays(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
