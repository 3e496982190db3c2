package query

import (
	"context"
	"strconv"

	"github.com/right-track/core/calendar"
	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// allServices loads every gtfs_calendar row plus every
// gtfs_calendar_dates row (grouped onto their owning service), the raw
// material every per-date reader in this file resolves against. It is
// memoized once under a fixed key since it has no arguments.
func (l *Layer) allServices(ctx context.Context) ([]model.Service, error) {
	m := l.memoFor(readerService)
	return memoGet(m, "__all__", func() ([]model.Service, error) {
		calRows, err := l.store.Select(ctx, store.Calendar())
		if err != nil {
			return nil, storeErr(store.QNameCalendar, err)
		}
		byID := make(map[string]*model.Service, len(calRows))
		order := make([]string, 0, len(calRows))
		for _, row := range calRows {
			s := rowToService(row)
			byID[s.ID] = &s
			order = append(order, s.ID)
		}

		excRows, err := l.store.Select(ctx, store.CalendarDatesByService())
		if err != nil {
			return nil, storeErr(store.QNameCalendarByService, err)
		}
		for _, row := range excRows {
			exc := model.ServiceException{
				ServiceID: row.String("service_id"),
				Date:      row.Int("date"),
				Type:      model.ExceptionType(row.Int8("exception_type")),
			}
			s, ok := byID[exc.ServiceID]
			if !ok {
				// calendar_dates-only service: spans only the dates its
				// exceptions name, per §4.D getService(id) fallback.
				s = &model.Service{ID: exc.ServiceID}
				byID[exc.ServiceID] = s
				order = append(order, exc.ServiceID)
			}
			s.Exceptions = append(s.Exceptions, exc)
		}

		out := make([]model.Service, 0, len(order))
		for _, id := range order {
			s := *byID[id]
			if len(s.Exceptions) > 0 && s.StartDate == 0 {
				s.StartDate, s.EndDate = exceptionSpan(s.Exceptions)
			}
			out = append(out, s)
		}
		return out, nil
	})
}

func exceptionSpan(excs []model.ServiceException) (int, int) {
	start, end := excs[0].Date, excs[0].Date
	for _, e := range excs[1:] {
		if e.Date < start {
			start = e.Date
		}
		if e.Date > end {
			end = e.Date
		}
	}
	return start, end
}

func rowToService(row store.Row) model.Service {
	return model.Service{
		ID: row.String("service_id"),
		Weekday: [7]bool{
			row.Bool("sunday"),
			row.Bool("monday"),
			row.Bool("tuesday"),
			row.Bool("wednesday"),
			row.Bool("thursday"),
			row.Bool("friday"),
			row.Bool("saturday"),
		},
		StartDate: row.Int("start_date"),
		EndDate:   row.Int("end_date"),
	}
}

// GetService returns a single Service with its exceptions joined in.
func (l *Layer) GetService(ctx context.Context, id string) (model.Service, error) {
	services, err := l.allServices(ctx)
	if err != nil {
		return model.Service{}, err
	}
	for _, s := range services {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Service{}, missingRow(ctx, "service", id)
}

// GetServicesByID returns the Services matching ids — getService([ids])
// in spec §4.D.
func (l *Layer) GetServicesByID(ctx context.Context, ids []string) ([]model.Service, error) {
	out := make([]model.Service, 0, len(ids))
	for _, id := range ids {
		s, err := l.GetService(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetServicesDefault returns services whose weekday flag matches
// date's DOW and whose span covers date, ignoring exceptions.
func (l *Layer) GetServicesDefault(ctx context.Context, date int) ([]model.Service, error) {
	services, err := l.allServices(ctx)
	if err != nil {
		return nil, err
	}
	m := l.memoFor(readerServicesDefault)
	return memoGet(m, dateKey(date), func() ([]model.Service, error) {
		return calendar.Default(date, services)
	})
}

// GetServiceExceptions returns every ServiceException dated date.
func (l *Layer) GetServiceExceptions(ctx context.Context, date int) ([]model.ServiceException, error) {
	services, err := l.allServices(ctx)
	if err != nil {
		return nil, err
	}
	m := l.memoFor(readerServiceExcepts)
	return memoGet(m, dateKey(date), func() ([]model.ServiceException, error) {
		return calendar.Exceptions(date, services), nil
	})
}

// GetServicesEffective is the authoritative "what runs today" set: the
// default services for date, with added exceptions unioned in and
// removed exceptions subtracted out.
func (l *Layer) GetServicesEffective(ctx context.Context, date int) ([]model.Service, error) {
	services, err := l.allServices(ctx)
	if err != nil {
		return nil, err
	}
	m := l.memoFor(readerServicesEffect)
	return memoGet(m, dateKey(date), func() ([]model.Service, error) {
		return l.resolver.Effective(date, services)
	})
}

func dateKey(date int) string {
	return strconv.Itoa(date)
}
