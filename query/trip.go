package query

import (
	"context"
	"sort"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// tripTemplates loads every trip joined with its Route, Service (sans
// date-specific resolution) and sequence-sorted StopTimes. StopTimes
// carry ServiceDate=0 here; callers needing a date-bound Trip go
// through withServiceDate.
func (l *Layer) tripTemplates(ctx context.Context) (map[string]model.Trip, error) {
	m := l.memoFor(readerTripTemplates)
	return memoGet(m, "__all__", func() (map[string]model.Trip, error) {
		rows, err := l.store.Select(ctx, store.Trips())
		if err != nil {
			return nil, storeErr(store.QNameTrips, err)
		}

		routes, err := l.GetRoutes(ctx)
		if err != nil {
			return nil, err
		}
		routesByID := make(map[string]model.Route, len(routes))
		for _, r := range routes {
			routesByID[r.ID] = r
		}

		services, err := l.allServices(ctx)
		if err != nil {
			return nil, err
		}
		servicesByID := make(map[string]model.Service, len(services))
		for _, s := range services {
			servicesByID[s.ID] = s
		}

		directions, err := l.GetDirections(ctx)
		if err != nil {
			return nil, err
		}
		directionsByID := make(map[string]string, len(directions))
		for _, d := range directions {
			directionsByID[d.ID] = d.Description
		}

		stopIdx, err := l.stops(ctx)
		if err != nil {
			return nil, err
		}

		stopTimeRows, err := l.store.Select(ctx, store.StopTimesByTrip())
		if err != nil {
			return nil, storeErr(store.QNameStopTimesByTrip, err)
		}
		stopTimesByTrip := make(map[string][]model.StopTime)
		for _, row := range stopTimeRows {
			tripID := row.String("trip_id")
			stopTimesByTrip[tripID] = append(stopTimesByTrip[tripID], rowToStopTime(row, stopIdx.byID))
		}

		trips := make(map[string]model.Trip, len(rows))
		for _, row := range rows {
			t := model.Trip{
				ID:            row.String("trip_id"),
				Route:         routesByID[row.String("route_id")],
				Service:       servicesByID[row.String("service_id")],
				Headsign:      row.String("trip_headsign"),
				ShortName:     row.String("trip_short_name"),
				BlockID:       row.String("block_id"),
				ShapeID:       row.String("shape_id"),
				DirectionID:   row.String("direction_id"),
				DirectionDesc: directionsByID[row.String("direction_id")],
				Wheelchair:    model.WheelchairBoarding(row.Int8("wheelchair_accessible")),
				Bikes:         model.BikesAllowed(row.Int8("bikes_allowed")),
				BasePeak:      model.PeakIndicator(row.Int8("peak")),
			}
			sts := stopTimesByTrip[t.ID]
			sort.Slice(sts, func(i, j int) bool { return sts[i].Sequence < sts[j].Sequence })
			t.StopTimes = sts
			trips[t.ID] = t
		}
		return trips, nil
	})
}

func rowToStopTime(row store.Row, stopsByID map[string]model.Stop) model.StopTime {
	return model.NewStopTime(model.StopTimeFields{
		Stop:              stopsByID[row.String("stop_id")],
		ArrivalClock:      row.String("arrival_time"),
		ArrivalSeconds:    row.Int("arrival_time_seconds"),
		DepartureClock:    row.String("departure_time"),
		DepartureSeconds:  row.Int("departure_time_seconds"),
		Sequence:          uint32(row.Int("stop_sequence")),
		PickupType:        model.PickupDropOffType(row.Int8("pickup_type")),
		DropOffType:       model.PickupDropOffType(row.Int8("drop_off_type")),
		Headsign:          row.String("stop_headsign"),
		ShapeDistTraveled: row.Float64("shape_dist_traveled"),
		HasShapeDist:      row.Bool("has_shape_dist_traveled"),
		Timepoint:         model.Timepoint(row.Int8("timepoint")),
	})
}

// withServiceDate clones t with every StopTime's ServiceDate set to
// date, and resolves Peak per §4.D: PeakOn => true; PeakOff => false;
// PeakWeekdayOnly => true iff DOW is Mon-Fri AND (no holiday on date,
// or holiday.Peak is true).
func (l *Layer) withServiceDate(ctx context.Context, t model.Trip, date int) (model.Trip, error) {
	sts := make([]model.StopTime, len(t.StopTimes))
	for i, st := range t.StopTimes {
		st.ServiceDate = date
		sts[i] = st
	}
	t.StopTimes = sts

	switch t.BasePeak {
	case model.PeakOn:
		t.Peak = true
	case model.PeakOff:
		t.Peak = false
	case model.PeakWeekdayOnly:
		weekday, err := isWeekday(date)
		if err != nil {
			return model.Trip{}, err
		}
		if !weekday {
			t.Peak = false
			break
		}
		holiday, ok, err := l.GetHoliday(ctx, date)
		if err != nil {
			return model.Trip{}, err
		}
		t.Peak = !ok || holiday.Peak
	}
	return t, nil
}

func isWeekday(date int) (bool, error) {
	dt, err := gtfstime.New(date, 0)
	if err != nil {
		return false, err
	}
	w := int(dt.Weekday())
	return w >= 1 && w <= 5, nil
}

func addDaysToDate(date, n int) int {
	return gtfstime.AddDaysToDate(date, n)
}

// GetStopTimesByTrip returns the sequence-sorted StopTimes for tripID
// with date attached as their service date.
func (l *Layer) GetStopTimesByTrip(ctx context.Context, tripID string, date int) ([]model.StopTime, error) {
	templates, err := l.tripTemplates(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := templates[tripID]
	if !ok {
		return nil, missingRow(ctx, "trip", tripID)
	}
	resolved, err := l.withServiceDate(ctx, t, date)
	if err != nil {
		return nil, err
	}
	return resolved.StopTimes, nil
}

// GetStopTimeByTripStop returns the single StopTime for tripID at
// stopID on date, and whether one was found.
func (l *Layer) GetStopTimeByTripStop(ctx context.Context, tripID, stopID string, date int) (model.StopTime, bool, error) {
	sts, err := l.GetStopTimesByTrip(ctx, tripID, date)
	if err != nil {
		return model.StopTime{}, false, err
	}
	for _, st := range sts {
		if st.Stop.ID == stopID {
			return st, true, nil
		}
	}
	return model.StopTime{}, false, nil
}

// GetTrip returns the Trip (with Route, Service, StopTimes) for tripID
// as it runs on date, with peak resolved.
func (l *Layer) GetTrip(ctx context.Context, tripID string, date int) (model.Trip, error) {
	templates, err := l.tripTemplates(ctx)
	if err != nil {
		return model.Trip{}, err
	}
	t, ok := templates[tripID]
	if !ok {
		return model.Trip{}, missingRow(ctx, "trip", tripID)
	}
	return l.withServiceDate(ctx, t, date)
}

// GetTripByShortName returns the Trip whose short name matches and
// whose service is effective on date.
func (l *Layer) GetTripByShortName(ctx context.Context, shortName string, date int) (model.Trip, error) {
	templates, err := l.tripTemplates(ctx)
	if err != nil {
		return model.Trip{}, err
	}
	effective, err := l.GetServicesEffective(ctx, date)
	if err != nil {
		return model.Trip{}, err
	}
	effectiveIDs := make(map[string]bool, len(effective))
	for _, s := range effective {
		effectiveIDs[s.ID] = true
	}

	for _, t := range templates {
		if t.ShortName == shortName && effectiveIDs[t.Service.ID] {
			return l.withServiceDate(ctx, t, date)
		}
	}
	return model.Trip{}, missingRow(ctx, "trip by short name", shortName)
}

// GetTripByDeparture returns the Trip whose departure_time_seconds at
// originID equals departureSeconds on departureDate and which later
// visits destinationID in sequence. If no match, it retries with the
// previous calendar date and departureSeconds+86400, handling GTFS
// trips whose times are expressed as 24h+ and so are keyed to the
// prior service date.
func (l *Layer) GetTripByDeparture(ctx context.Context, originID, destinationID string, departureDate, departureSeconds int) (model.Trip, error) {
	t, err := l.findTripByDeparture(ctx, originID, destinationID, departureDate, departureSeconds)
	if err == nil {
		return t, nil
	}

	prevDate := addDaysToDate(departureDate, -1)
	t, err2 := l.findTripByDeparture(ctx, originID, destinationID, prevDate, departureSeconds+86400)
	if err2 != nil {
		return model.Trip{}, err
	}
	return t, nil
}

func (l *Layer) findTripByDeparture(ctx context.Context, originID, destinationID string, date, seconds int) (model.Trip, error) {
	trips, err := l.GetTripsByDate(ctx, date, TripsByDateOptions{})
	if err != nil {
		return model.Trip{}, err
	}
	for _, t := range trips {
		oi, ok := t.SequenceIndexOf(originID)
		if !ok {
			continue
		}
		if t.StopTimes[oi].DepartureSeconds != seconds {
			continue
		}
		di, ok := t.SequenceIndexOf(destinationID)
		if !ok || di <= oi {
			continue
		}
		return t, nil
	}
	return model.Trip{}, missingRow(ctx, "trip by departure", originID)
}

// TripsByDateOptions filters GetTripsByDate.
type TripsByDateOptions struct {
	RouteID string
	StopID  string
}

// GetTripsByDate returns the Trips running on date, optionally
// filtered by route/stop, sorted by departure at StopID when given,
// else by each trip's first stop-time departure.
func (l *Layer) GetTripsByDate(ctx context.Context, date int, opts TripsByDateOptions) ([]model.Trip, error) {
	m := l.memoFor(readerTripsByDate)
	key := dateKey(date) + "|" + opts.RouteID + "|" + opts.StopID
	return memoGet(m, key, func() ([]model.Trip, error) {
		templates, err := l.tripTemplates(ctx)
		if err != nil {
			return nil, err
		}
		effective, err := l.GetServicesEffective(ctx, date)
		if err != nil {
			return nil, err
		}
		effectiveIDs := make(map[string]bool, len(effective))
		for _, s := range effective {
			effectiveIDs[s.ID] = true
		}

		var out []model.Trip
		for _, t := range templates {
			if !effectiveIDs[t.Service.ID] {
				continue
			}
			if opts.RouteID != "" && t.Route.ID != opts.RouteID {
				continue
			}
			if opts.StopID != "" {
				if _, ok := t.SequenceIndexOf(opts.StopID); !ok {
					continue
				}
			}
			resolved, err := l.withServiceDate(ctx, t, date)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}

		sort.Slice(out, func(i, j int) bool {
			return referenceDeparture(out[i], opts.StopID) < referenceDeparture(out[j], opts.StopID)
		})
		return out, nil
	})
}

func referenceDeparture(t model.Trip, stopID string) int {
	if stopID != "" {
		if i, ok := t.SequenceIndexOf(stopID); ok {
			return t.StopTimes[i].DepartureSeconds
		}
	}
	return t.FirstStopTime().DepartureSeconds
}
