package query

import (
	"context"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

func (l *Layer) holidays(ctx context.Context) (map[int]model.Holiday, error) {
	m := l.memoFor(readerHolidays)
	return memoGet(m, "__all__", func() (map[int]model.Holiday, error) {
		rows, err := l.store.Select(ctx, store.Holidays())
		if err != nil {
			return nil, storeErr(store.QNameHolidays, err)
		}
		out := make(map[int]model.Holiday, len(rows))
		for _, row := range rows {
			h := model.Holiday{
				Date:        row.Int("date"),
				Name:        row.String("holiday_name"),
				Peak:        row.Bool("peak"),
				ServiceInfo: row.String("service_info"),
			}
			out[h.Date] = h
		}
		return out, nil
	})
}

// GetHoliday returns the Holiday on date, and whether one exists.
func (l *Layer) GetHoliday(ctx context.Context, date int) (model.Holiday, bool, error) {
	all, err := l.holidays(ctx)
	if err != nil {
		return model.Holiday{}, false, err
	}
	h, ok := all[date]
	return h, ok, nil
}

// IsHoliday reports whether date is a holiday.
func (l *Layer) IsHoliday(ctx context.Context, date int) (bool, error) {
	_, ok, err := l.GetHoliday(ctx, date)
	return ok, err
}

// GetHolidays returns every known Holiday.
func (l *Layer) GetHolidays(ctx context.Context) ([]model.Holiday, error) {
	all, err := l.holidays(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Holiday, 0, len(all))
	for _, h := range all {
		out = append(out, h)
	}
	return out, nil
}
