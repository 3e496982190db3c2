package search

import (
	"github.com/google/uuid"
	"github.com/right-track/core/gtfstime"
)

// Request is a single search(origin, destination, departure, options)
// call, per spec §4.G.
type Request struct {
	// ID correlates this call's cache fills and store reads across log
	// lines; generated in Search if left blank.
	ID string

	OriginID      string
	DestinationID string
	Departure     gtfstime.DateTime
	Options       Options
}

func (r Request) withID() Request {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r
}
