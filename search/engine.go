package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/model"
	"github.com/right-track/core/query"
)

// Engine is the trip search engine, spec §4.G/§4.H. It reads
// exclusively through a *query.Layer; all suspension happens there.
type Engine struct {
	layer *query.Layer
	log   *slog.Logger
}

// NewEngine builds an Engine over layer. log defaults to
// slog.Default() when nil.
func NewEngine(layer *query.Layer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{layer: layer, log: log.With("component", "search")}
}

// candidate is a trip considered at a reference stop, with the index
// of that stop within the trip's sequence.
type candidate struct {
	trip  model.Trip
	index int
}

// Search finds journeys from req.OriginID to req.DestinationID
// departing around req.Departure, honoring req.Options. Surviving
// journeys are deduplicated and dominance-pruned per spec §4.G, sorted
// ascending by origin departure.
func (e *Engine) Search(ctx context.Context, req Request) ([]*Result, error) {
	req = req.withID()
	opts := req.Options.withDefaults()
	log := e.log.With("search_id", req.ID)

	if req.OriginID == "" || req.DestinationID == "" {
		return nil, coreerr.InvalidRequest("origin and destination stop ids are required")
	}
	if err := ctx.Err(); err != nil {
		return nil, coreerr.Cancelled(err.Error())
	}

	windows := buildWindows(req.Departure, opts.PreDepartureHours, opts.PostDepartureHours)

	originDirect, originIndirect, err := e.collect(ctx, req.OriginID, req.DestinationID, windows, false)
	if err != nil {
		return nil, err
	}
	destDirect, destIndirect, err := e.collect(ctx, req.DestinationID, req.OriginID, windows, true)
	if err != nil {
		return nil, err
	}

	reverse := len(destDirect)+len(destIndirect) < len(originDirect)+len(originIndirect)
	log.Debug("candidate fan-out",
		"origin_candidates", len(originDirect)+len(originIndirect),
		"destination_candidates", len(destDirect)+len(destIndirect),
		"reverse", reverse)

	direct, indirect := originDirect, originIndirect
	if reverse {
		direct, indirect = destDirect, destIndirect
	}

	var results []*Result
	for _, c := range direct {
		r, err := e.directResult(req.OriginID, req.DestinationID, c, reverse)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if opts.AllowTransfers {
		for _, c := range indirect {
			if err := ctx.Err(); err != nil {
				return nil, coreerr.Cancelled(err.Error())
			}
			expanded, err := e.expand(ctx, req.OriginID, req.DestinationID, reverse, c.trip, c.index, nil, map[string]bool{c.trip.ID: true}, opts)
			if err != nil {
				return nil, err
			}
			results = append(results, expanded...)
		}
	}

	return dedup(results), nil
}

// collect retrieves candidate trips visiting stopID within windows —
// by departure seconds when useArrival is false (origin-side), by
// arrival seconds when true (destination-side) — and partitions them
// into direct (the trip also visits otherID, appropriately ordered in
// sequence) and indirect.
func (e *Engine) collect(ctx context.Context, stopID, otherID string, windows []searchWindow, useArrival bool) (direct, indirect []candidate, err error) {
	seenTrips := map[string]bool{}
	for _, w := range windows {
		trips, err := e.layer.GetTripsByDate(ctx, w.Date, query.TripsByDateOptions{StopID: stopID})
		if err != nil {
			return nil, nil, err
		}
		for _, t := range trips {
			if seenTrips[t.ID] {
				continue
			}
			idx, ok := t.SequenceIndexOf(stopID)
			if !ok {
				continue
			}
			st := t.StopTimes[idx]

			var seconds int
			if useArrival {
				seconds = st.ArrivalSeconds
			} else {
				seconds = st.DepartureSeconds
				if st.PickupType == model.PickupDropOffNone {
					continue
				}
			}
			if seconds < w.Start || seconds > w.End {
				continue
			}
			seenTrips[t.ID] = true

			c := candidate{trip: t, index: idx}
			otherIdx, hasOther := t.SequenceIndexOf(otherID)
			isDirect := hasOther
			if useArrival {
				isDirect = isDirect && otherIdx < idx
			} else {
				isDirect = isDirect && otherIdx > idx
			}
			if isDirect {
				direct = append(direct, c)
			} else {
				indirect = append(indirect, c)
			}
		}
	}
	return direct, indirect, nil
}

// directResult builds the one-segment Result for a trip that visits
// both origin and destination.
func (e *Engine) directResult(originID, destinationID string, c candidate, reverse bool) (*Result, error) {
	oIdx, _ := c.trip.SequenceIndexOf(originID)
	dIdx, _ := c.trip.SequenceIndexOf(destinationID)
	_ = reverse // direct candidates need no reordering: Enter/Exit are derived from sequence position, not discovery side.

	enter := pointFromStopTime(c.trip.StopTimes[oIdx])
	exit := pointFromStopTime(c.trip.StopTimes[dIdx])
	return NewResult([]Segment{{Trip: c.trip, Enter: enter, Exit: exit}})
}

func pointFromStopTime(st model.StopTime) Point {
	return Point{
		StopID:    st.Stop.ID,
		Arrival:   st.ArrivalInstant(),
		Departure: st.DepartureInstant(),
	}
}

// sortResults orders results ascending by origin departure, the final
// step of both dedup passes.
func sortResults(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Origin.Departure.Before(results[j].Origin.Departure)
	})
}
