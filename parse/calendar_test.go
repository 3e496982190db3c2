package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func TestParseCalendar(t *testing.T) {
	for _, tc := range []struct {
		name       string
		content    string
		serviceIDs map[string]bool
		err        bool
	}{
		{
			"minimal",
			`
service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
weekday,1,1,1,1,1,0,0,20260101,20261231`,
			map[string]bool{"weekday": true},
			false,
		},
		{
			"invalid start_date",
			`
service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
weekday,1,1,1,1,1,0,0,not-a-date,20261231`,
			nil, true,
		},
		{
			"duplicate service_id",
			`
service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
weekday,1,1,1,1,1,0,0,20260101,20261231
weekday,0,0,0,0,0,1,1,20260101,20261231`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			w := newTestWriter(s)

			services, err := w.Calendar(strings.NewReader(tc.content))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.serviceIDs, services)
		})
	}
}

func TestParseCalendarDatesFoldsInNewServiceIDs(t *testing.T) {
	s := store.NewMemoryStore()
	w := newTestWriter(s)

	content := `
service_id,date,exception_type
weekday,20260101,2
calendar-dates-only,20260704,1`

	services, err := w.CalendarDates(strings.NewReader(content), map[string]bool{"weekday": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"weekday": true, "calendar-dates-only": true}, services)
}

func TestParseCalendarDatesRejectsInvalidExceptionType(t *testing.T) {
	s := store.NewMemoryStore()
	w := newTestWriter(s)

	content := `
service_id,date,exception_type
weekday,20260101,9`

	_, err := w.CalendarDates(strings.NewReader(content), map[string]bool{"weekday": true})
	assert.Error(t, err)
}
