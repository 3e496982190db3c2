// Package calendar implements the effective-service resolution
// algorithm from spec §4.E: which services actually run on a given
// date once calendar_dates additions/removals are folded in.
package calendar

import (
	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/model"
)

// Resolver is stateless; it operates purely over the services handed
// to it, the way the teacher's ActiveServices query operates purely
// over what's in the calendar/calendar_dates tables for a date.
type Resolver struct{}

// NewResolver returns a ready-to-use Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Effective computes the five-step resolution from spec §4.E:
//  1. default = services whose weekday flag matches date's DOW and
//     whose [start, end] span covers date.
//  2. exceptions = every ServiceException across all services dated D.
//  3. additions union into default (unless already present, by id).
//  4. removals drop matching ids from default.
//  5. return the result.
//
// Ordering of the returned slice is unspecified.
func (r *Resolver) Effective(date int, services []model.Service) ([]model.Service, error) {
	dt, err := gtfstime.New(date, 0)
	if err != nil {
		return nil, err
	}
	dow := int(dt.Weekday())

	byID := make(map[string]model.Service, len(services))
	result := make(map[string]model.Service, len(services))

	for _, s := range services {
		byID[s.ID] = s
		if s.Weekday[dow] && s.StartDate <= date && date <= s.EndDate {
			result[s.ID] = s
		}
	}

	for _, s := range services {
		for _, exc := range s.Exceptions {
			if exc.Date != date {
				continue
			}
			switch exc.Type {
			case model.ExceptionAdded:
				if _, ok := result[exc.ServiceID]; ok {
					continue
				}
				if full, ok := byID[exc.ServiceID]; ok {
					result[exc.ServiceID] = full
				} else {
					result[exc.ServiceID] = model.Service{
						ID:        exc.ServiceID,
						StartDate: date,
						EndDate:   date,
					}
				}
			case model.ExceptionRemoved:
				delete(result, exc.ServiceID)
			}
		}
	}

	out := make([]model.Service, 0, len(result))
	for _, s := range result {
		out = append(out, s)
	}
	return out, nil
}

// Exceptions returns every ServiceException across services dated D,
// matching getServiceExceptions(date) in spec §4.D.
func Exceptions(date int, services []model.Service) []model.ServiceException {
	var out []model.ServiceException
	for _, s := range services {
		for _, exc := range s.Exceptions {
			if exc.Date == date {
				out = append(out, exc)
			}
		}
	}
	return out
}

// Default returns the weekday/date-range-matching services for D,
// without folding in exceptions — getServicesDefault(date) in §4.D.
func Default(date int, services []model.Service) ([]model.Service, error) {
	dt, err := gtfstime.New(date, 0)
	if err != nil {
		return nil, err
	}
	dow := int(dt.Weekday())

	var out []model.Service
	for _, s := range services {
		if s.Weekday[dow] && s.StartDate <= date && date <= s.EndDate {
			out = append(out, s)
		}
	}
	return out, nil
}
