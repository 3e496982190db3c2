package parse

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/right-track/core/store"
)

// CalendarCSV mirrors gtfs_calendar. Grounded on parse/calendar.go.
type CalendarCSV struct {
	ServiceID string `csv:"service_id"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

// Calendar parses calendar.txt and returns the set of known service
// IDs. calendar.txt is optional in GTFS (a feed may rely solely on
// calendar_dates.txt), so an empty/absent reader is not an error here;
// Static handles that by skipping the call entirely.
func (w *Writer) Calendar(data io.Reader) (map[string]bool, error) {
	rows := []*CalendarCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar csv: %w", err)
	}

	services := map[string]bool{}
	for _, c := range rows {
		if services[c.ServiceID] {
			return nil, fmt.Errorf("repeated service_id %q", c.ServiceID)
		}
		if c.ServiceID == "" {
			return nil, fmt.Errorf("empty service_id")
		}
		services[c.ServiceID] = true

		startDate, err := strconv.Atoi(c.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date for service %q: %w", c.ServiceID, err)
		}
		endDate, err := strconv.Atoi(c.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date for service %q: %w", c.ServiceID, err)
		}

		if err := w.insert("gtfs_calendar", store.Row{
			"service_id": c.ServiceID,
			"monday":     c.Monday,
			"tuesday":    c.Tuesday,
			"wednesday":  c.Wednesday,
			"thursday":   c.Thursday,
			"friday":     c.Friday,
			"saturday":   c.Saturday,
			"sunday":     c.Sunday,
			"start_date": startDate,
			"end_date":   endDate,
		}); err != nil {
			return nil, fmt.Errorf("writing service %q: %w", c.ServiceID, err)
		}
	}

	return services, nil
}

// CalendarDateCSV mirrors gtfs_calendar_dates. Grounded on
// parse/calendar_dates.go.
type CalendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

// CalendarDates parses calendar_dates.txt. serviceID references are not
// required to already exist in gtfs_calendar — a service can be
// defined purely by its exceptions (spec §4.D) — so the returned set
// folds in every service_id seen here too.
func (w *Writer) CalendarDates(data io.Reader, knownServices map[string]bool) (map[string]bool, error) {
	rows := []*CalendarDateCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar_dates csv: %w", err)
	}

	services := map[string]bool{}
	for k := range knownServices {
		services[k] = true
	}

	for _, cd := range rows {
		if cd.ExceptionType != 1 && cd.ExceptionType != 2 {
			return nil, fmt.Errorf("invalid exception_type %d for service %q", cd.ExceptionType, cd.ServiceID)
		}
		date, err := strconv.Atoi(cd.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date for service %q: %w", cd.ServiceID, err)
		}
		services[cd.ServiceID] = true

		if err := w.insert("gtfs_calendar_dates", store.Row{
			"service_id":     cd.ServiceID,
			"date":           date,
			"exception_type": cd.ExceptionType,
		}); err != nil {
			return nil, fmt.Errorf("writing calendar_date for service %q: %w", cd.ServiceID, err)
		}
	}

	return services, nil
}
