package search

import (
	"context"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/model"
)

// maxTransferCandidates caps the transfer stops considered at each
// expansion step to the highest-transfer-weight ones, per spec §4.G.
const maxTransferCandidates = 3

// expand grows a journey from a candidate trip that did not directly
// serve both origin and destination. When reverse is false it walks
// forward from an origin-side boarding: segments are appended, and
// stops after refIndex on trip are considered for a transfer heading
// toward destinationID. When reverse is true it walks backward from a
// destination-side arrival: segments are prepended, and stops before
// refIndex are considered for a transfer heading toward originID. The
// line graph is undirected, so swapping the (origin, destination)
// arguments to GetNextStops yields exactly the "stops closer to the
// other end" set needed for the reverse direction.
func (e *Engine) expand(
	ctx context.Context,
	originID, destinationID string,
	reverse bool,
	trip model.Trip,
	refIndex int,
	chain []Segment,
	usedTrips map[string]bool,
	opts Options,
) ([]*Result, error) {
	lgFrom, lgTo := originID, destinationID
	if reverse && opts.AllowChangeInDirection {
		lgFrom, lgTo = destinationID, originID
	}

	nextStops, err := e.layer.GetNextStops(ctx, lgFrom, lgTo, trip.StopTimes[refIndex].Stop.ID)
	if err != nil {
		return nil, err
	}

	candidates := transferCandidates(trip, refIndex, reverse, nextStops)

	var results []*Result
	for _, tc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		segment := buildSegment(trip, refIndex, tc.index, reverse)
		newChain := extendChain(chain, segment, reverse)

		otherID := destinationID
		useArrival := false
		if reverse {
			otherID = originID
			useArrival = true
		}

		from, to := layoverRange(trip.StopTimes[tc.index], reverse, opts)
		windows := windowsFromRange(from, to)

		direct, indirect, err := e.collect(ctx, tc.stopID, otherID, windows, useArrival)
		if err != nil {
			return nil, err
		}
		direct = excludeUsed(direct, usedTrips)
		indirect = excludeUsed(indirect, usedTrips)

		for _, oc := range direct {
			r, err := e.joinDirect(originID, destinationID, oc, newChain, reverse)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}

		if len(direct) == 0 && len(newChain) < opts.MaxTransfers {
			for _, oc := range indirect {
				nextUsed := cloneUsed(usedTrips)
				nextUsed[oc.trip.ID] = true
				expanded, err := e.expand(ctx, originID, destinationID, reverse, oc.trip, oc.index, newChain, nextUsed, opts)
				if err != nil {
					return nil, err
				}
				results = append(results, expanded...)
			}
		}
	}

	return results, nil
}

// joinDirect completes newChain with a final segment from a candidate
// trip that reaches the remaining endpoint directly.
func (e *Engine) joinDirect(originID, destinationID string, oc candidate, chain []Segment, reverse bool) (*Result, error) {
	endID := destinationID
	if reverse {
		endID = originID
	}
	endIdx, _ := oc.trip.SequenceIndexOf(endID)

	segment := buildSegment(oc.trip, oc.index, endIdx, reverse)
	full := extendChain(chain, segment, reverse)
	return NewResult(full)
}

type transferStop struct {
	stopID string
	index  int
}

// transferCandidates intersects the stops remaining on trip in the
// walk direction with nextStops (already sorted by transfer weight
// descending), capped to maxTransferCandidates.
func transferCandidates(trip model.Trip, refIndex int, reverse bool, nextStops []string) []transferStop {
	remaining := map[string]int{}
	if reverse {
		for i := 0; i < refIndex; i++ {
			remaining[trip.StopTimes[i].Stop.ID] = i
		}
	} else {
		for i := refIndex + 1; i < len(trip.StopTimes); i++ {
			remaining[trip.StopTimes[i].Stop.ID] = i
		}
	}

	var out []transferStop
	for _, id := range nextStops {
		idx, ok := remaining[id]
		if !ok {
			continue
		}
		out = append(out, transferStop{stopID: id, index: idx})
		if len(out) >= maxTransferCandidates {
			break
		}
	}
	return out
}

// buildSegment orders Enter/Exit by sequence position, not by
// discovery order: a trip's physical stop order never reverses.
func buildSegment(trip model.Trip, refIndex, otherIndex int, reverse bool) Segment {
	enterIdx, exitIdx := refIndex, otherIndex
	if reverse {
		enterIdx, exitIdx = otherIndex, refIndex
	}
	return Segment{
		Trip:  trip,
		Enter: pointFromStopTime(trip.StopTimes[enterIdx]),
		Exit:  pointFromStopTime(trip.StopTimes[exitIdx]),
	}
}

// extendChain appends for a forward walk or prepends for a backward
// one, keeping the chain in chronological (boarding-order) sequence
// either way.
func extendChain(chain []Segment, segment Segment, reverse bool) []Segment {
	out := make([]Segment, 0, len(chain)+1)
	if reverse {
		out = append(out, segment)
		out = append(out, chain...)
	} else {
		out = append(out, chain...)
		out = append(out, segment)
	}
	return out
}

// layoverRange returns the instant range a connecting trip must depart
// within (forward, relative to the transfer stop's arrival) or arrive
// within (reverse, relative to the transfer stop's departure).
func layoverRange(st model.StopTime, reverse bool, opts Options) (from, to gtfstime.DateTime) {
	if reverse {
		anchor := st.DepartureInstant()
		return anchor.AddMinutes(-opts.MaxLayoverMins), anchor.AddMinutes(-opts.MinLayoverMins)
	}
	anchor := st.ArrivalInstant()
	return anchor.AddMinutes(opts.MinLayoverMins), anchor.AddMinutes(opts.MaxLayoverMins)
}

// windowsFromRange expands an absolute [from, to] instant range into
// one or two searchWindows, using the same >=86400-seconds convention
// as buildWindows for a range that straddles local midnight.
func windowsFromRange(from, to gtfstime.DateTime) []searchWindow {
	if from.Date() == to.Date() {
		return []searchWindow{{Date: from.Date(), Start: from.Seconds(), End: to.Seconds()}}
	}
	return []searchWindow{
		{Date: from.Date(), Start: from.Seconds(), End: to.Seconds() + 86400},
		{Date: to.Date(), Start: 0, End: to.Seconds()},
	}
}

func excludeUsed(candidates []candidate, used map[string]bool) []candidate {
	out := candidates[:0:0]
	for _, c := range candidates {
		if !used[c.trip.ID] {
			out = append(out, c)
		}
	}
	return out
}

func cloneUsed(used map[string]bool) map[string]bool {
	out := make(map[string]bool, len(used)+1)
	for k := range used {
		out[k] = true
	}
	return out
}
