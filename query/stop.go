package query

import (
	"context"
	"sort"
	"strings"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// stopIndex is the fully-joined, cached view of every stop: GTFS
// gtfs_stops rows overlaid with rt_stops_extra (status id, display
// name, transfer weight) and indexed by rt_alt_stop_names for
// GetStopByName.
type stopIndex struct {
	stops    []model.Stop
	byID     map[string]model.Stop
	altNames map[string][]string
}

func (l *Layer) stops(ctx context.Context) (stopIndex, error) {
	m := l.memoFor(readerStopIndex)
	return memoGet(m, "__all__", func() (stopIndex, error) {
		rows, err := l.store.Select(ctx, store.Stops())
		if err != nil {
			return stopIndex{}, storeErr(store.QNameStops, err)
		}
		stops := make([]model.Stop, 0, len(rows))
		byID := make(map[string]model.Stop, len(rows))
		for _, row := range rows {
			s := rowToStop(row)
			stops = append(stops, s)
			byID[s.ID] = s
		}

		extraRows, err := l.store.Select(ctx, store.StopsExtra())
		if err != nil {
			return stopIndex{}, storeErr(store.QNameStopsExtra, err)
		}
		for _, row := range extraRows {
			id := row.String("stop_id")
			s, ok := byID[id]
			if !ok {
				continue
			}
			s.StatusID = row.String("status_id")
			s.DisplayName = row.String("display_name")
			s.TransferWeight = row.Int("transfer_weight")
			if zone := row.String("zone_id"); zone != "" {
				s.Zone = zone
			}
			byID[id] = s
		}

		for i, s := range stops {
			stops[i] = byID[s.ID]
		}

		altRows, err := l.store.Select(ctx, store.AltStopNames())
		if err != nil {
			return stopIndex{}, storeErr(store.QNameAltStopNames, err)
		}
		altNames := make(map[string][]string)
		for _, row := range altRows {
			id := row.String("stop_id")
			altNames[id] = append(altNames[id], row.String("alt_stop_name"))
		}

		return stopIndex{stops: stops, byID: byID, altNames: altNames}, nil
	})
}

func rowToStop(row store.Row) model.Stop {
	return model.Stop{
		ID:              row.String("stop_id"),
		Code:            row.String("stop_code"),
		Name:            row.String("stop_name"),
		Desc:            row.String("stop_desc"),
		Lat:             row.Float64("stop_lat"),
		Lon:             row.Float64("stop_lon"),
		URL:             row.String("stop_url"),
		WheelchairBoard: model.WheelchairBoarding(row.Int8("wheelchair_boarding")),
		Zone:            row.String("zone_id"),
		LocationType:    model.LocationType(row.Int("location_type")),
		ParentStation:   row.String("parent_station"),
		Timezone:        row.String("stop_timezone"),
	}
}

// GetStop returns a single Stop with operator extras applied. Missing
// wheelchair-boarding defaults to unknown (the struct zero value);
// display-name overrides GTFS name when non-empty (DisplayNameOrFallback).
func (l *Layer) GetStop(ctx context.Context, id string) (model.Stop, error) {
	idx, err := l.stops(ctx)
	if err != nil {
		return model.Stop{}, err
	}
	s, ok := idx.byID[id]
	if !ok {
		return model.Stop{}, missingRow(ctx, "stop", id)
	}
	return s, nil
}

// GetStopsByID returns the Stops matching ids — getStop([ids]).
func (l *Layer) GetStopsByID(ctx context.Context, ids []string) ([]model.Stop, error) {
	out := make([]model.Stop, 0, len(ids))
	for _, id := range ids {
		s, err := l.GetStop(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetStopByName returns the first Stop matching name, case-insensitive,
// searching GTFS name, then alt names, then display name, in that
// order, across the stop set.
func (l *Layer) GetStopByName(ctx context.Context, name string) (model.Stop, error) {
	idx, err := l.stops(ctx)
	if err != nil {
		return model.Stop{}, err
	}
	lower := strings.ToLower(name)

	for _, s := range idx.stops {
		if strings.ToLower(s.Name) == lower {
			return s, nil
		}
	}
	for _, s := range idx.stops {
		for _, alt := range idx.altNames[s.ID] {
			if strings.ToLower(alt) == lower {
				return s, nil
			}
		}
	}
	for _, s := range idx.stops {
		if strings.ToLower(s.DisplayName) == lower {
			return s, nil
		}
	}
	return model.Stop{}, missingRow(ctx, "stop by name", name)
}

// GetStopByStatusID returns the Stop carrying statusID as its real-time
// status identifier. Fails with KindNotSupported when statusID is the
// "-1" no-feed sentinel.
func (l *Layer) GetStopByStatusID(ctx context.Context, statusID string) (model.Stop, error) {
	if statusID == model.NoFeedSentinel {
		return model.Stop{}, coreerr.NotSupported("status id -1 has no real-time feed")
	}
	idx, err := l.stops(ctx)
	if err != nil {
		return model.Stop{}, err
	}
	for _, s := range idx.stops {
		if s.StatusID == statusID {
			return s, nil
		}
	}
	return model.Stop{}, missingRow(ctx, "stop by status id", statusID)
}

// GetStops returns every Stop sorted by name. When hasFeed is true,
// only stops with a non-sentinel status id are included.
func (l *Layer) GetStops(ctx context.Context, hasFeed bool) ([]model.Stop, error) {
	idx, err := l.stops(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Stop, 0, len(idx.stops))
	for _, s := range idx.stops {
		if hasFeed && !s.HasFeed() {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetStopsByRoute returns the Stops visited by any trip of routeID.
func (l *Layer) GetStopsByRoute(ctx context.Context, routeID string, hasFeed bool) ([]model.Stop, error) {
	trips, err := l.tripTemplates(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := l.stops(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []model.Stop
	for _, t := range trips {
		if t.Route.ID != routeID {
			continue
		}
		for _, st := range t.StopTimes {
			if seen[st.Stop.ID] {
				continue
			}
			s, ok := idx.byID[st.Stop.ID]
			if !ok {
				continue
			}
			if hasFeed && !s.HasFeed() {
				continue
			}
			seen[st.Stop.ID] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// StopsByLocationOptions filters/truncates GetStopsByLocation.
type StopsByLocationOptions struct {
	Count    int     // 0 means unbounded
	Distance float64 // 0 means unbounded; miles
	HasFeed  bool
	RouteID  string // "" means no route filter
}

// GetStopsByLocation returns Stops sorted ascending by great-circle
// distance (miles) from lat,lon, optionally truncated/filtered per
// opts.
func (l *Layer) GetStopsByLocation(ctx context.Context, lat, lon float64, opts StopsByLocationOptions) ([]model.Stop, error) {
	var candidates []model.Stop
	if opts.RouteID != "" {
		var err error
		candidates, err = l.GetStopsByRoute(ctx, opts.RouteID, opts.HasFeed)
		if err != nil {
			return nil, err
		}
	} else {
		idx, err := l.stops(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range idx.stops {
			if opts.HasFeed && !s.HasFeed() {
				continue
			}
			candidates = append(candidates, s)
		}
	}

	out := make([]model.Stop, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Distance = Distance(lat, lon, out[i].Lat, out[i].Lon)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })

	if opts.Distance > 0 {
		trimmed := out[:0]
		for _, s := range out {
			if s.Distance <= opts.Distance {
				trimmed = append(trimmed, s)
			}
		}
		out = trimmed
	}
	if opts.Count > 0 && len(out) > opts.Count {
		out = out[:opts.Count]
	}
	return out, nil
}
