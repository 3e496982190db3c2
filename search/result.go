// Package search implements the bidirectional, breadth-bounded trip
// search engine (spec §4.G) and its result model (spec §4.H).
package search

import (
	"fmt"
	"time"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/model"
)

// Point is a stop visited at a specific instant, either as an arrival
// or a departure, depending on context.
type Point struct {
	StopID    string
	Arrival   gtfstime.DateTime
	Departure gtfstime.DateTime
}

// Segment is one uninterrupted ride on a single Trip, from Enter to
// Exit.
type Segment struct {
	Trip  model.Trip
	Enter Point
	Exit  Point
}

// Transfer is the stop where a rider gets off one Segment and onto
// the next. Its StopID equals both the preceding segment's Exit.StopID
// and the following segment's Enter.StopID.
type Transfer struct {
	StopID    string
	Arrival   gtfstime.DateTime // = preceding segment's Exit.Arrival
	Departure gtfstime.DateTime // = following segment's Enter.Departure
}

// Result is one complete journey. Origin, Destination, TravelTime and
// Transfers are derived from Segments at construction, per spec §4.H.
type Result struct {
	Segments    []Segment
	Transfers   []Transfer
	Origin      Point
	Destination Point
	TravelTime  time.Duration
	NumTransfers int
}

// NewResult builds a Result from a complete segment chain, validating
// the §4.H invariants: segments non-empty, and for each consecutive
// pair, segment[i].Exit.StopID == transfer[i].StopID ==
// segment[i+1].Enter.StopID, with segment[i].Exit.Arrival no later
// than segment[i+1].Enter.Departure.
func NewResult(segments []Segment) (*Result, error) {
	if len(segments) == 0 {
		return nil, coreerr.InvalidRequest("result requires at least one segment")
	}

	transfers := make([]Transfer, 0, len(segments)-1)
	for i := 0; i+1 < len(segments); i++ {
		exit := segments[i].Exit
		enter := segments[i+1].Enter
		if exit.StopID != enter.StopID {
			return nil, coreerr.InvalidRequest(fmt.Sprintf(
				"segment %d exit stop %q does not match segment %d enter stop %q",
				i, exit.StopID, i+1, enter.StopID))
		}
		if exit.Arrival.After(enter.Departure) {
			return nil, coreerr.InvalidRequest(fmt.Sprintf(
				"segment %d arrival %s is after segment %d departure %s",
				i, exit.Arrival.GTFSClock(), i+1, enter.Departure.GTFSClock()))
		}
		transfers = append(transfers, Transfer{
			StopID:    exit.StopID,
			Arrival:   exit.Arrival,
			Departure: enter.Departure,
		})
	}

	origin := segments[0].Enter
	destination := segments[len(segments)-1].Exit

	return &Result{
		Segments:     segments,
		Transfers:    transfers,
		Origin:       origin,
		Destination:  destination,
		TravelTime:   destination.Arrival.Sub(origin.Departure),
		NumTransfers: len(transfers),
	}, nil
}
