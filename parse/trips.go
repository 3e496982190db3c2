package parse

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/right-track/core/gtfstime"
	"github.com/right-track/core/store"
)

// TripCSV mirrors gtfs_trips, extended with the rt peak column. Grounded
// on parse/trips.go.
type TripCSV struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	Headsign    string `csv:"trip_headsign"`
	ShortName   string `csv:"trip_short_name"`
	DirectionID string `csv:"direction_id"`
	BlockID     string `csv:"block_id"`
	ShapeID     string `csv:"shape_id"`
	Wheelchair  int8   `csv:"wheelchair_accessible"`
	Bikes       int8   `csv:"bikes_allowed"`
	Peak        int8   `csv:"peak"`
}

// Trips parses trips.txt, validating route_id/service_id/direction_id
// references, and returns the set of known trip IDs.
func (w *Writer) Trips(data io.Reader, routes, services, directions map[string]bool) (map[string]bool, error) {
	rows := []*TripCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling trips csv: %w", err)
	}

	trips := map[string]bool{}
	for _, t := range rows {
		if trips[t.ID] {
			return nil, fmt.Errorf("repeated trip_id %q", t.ID)
		}
		trips[t.ID] = true

		if t.ID == "" {
			return nil, fmt.Errorf("empty trip_id")
		}
		if !routes[t.RouteID] {
			return nil, fmt.Errorf("trip %q references unknown route_id %q", t.ID, t.RouteID)
		}
		if !services[t.ServiceID] {
			return nil, fmt.Errorf("trip %q references unknown service_id %q", t.ID, t.ServiceID)
		}
		if t.DirectionID != "" && !directions[t.DirectionID] {
			return nil, fmt.Errorf("trip %q references unknown direction_id %q", t.ID, t.DirectionID)
		}

		if err := w.insert("gtfs_trips", store.Row{
			"trip_id":               t.ID,
			"route_id":              t.RouteID,
			"service_id":            t.ServiceID,
			"trip_headsign":         t.Headsign,
			"trip_short_name":       t.ShortName,
			"direction_id":          t.DirectionID,
			"block_id":              t.BlockID,
			"shape_id":              t.ShapeID,
			"wheelchair_accessible": t.Wheelchair,
			"bikes_allowed":         t.Bikes,
			"peak":                  t.Peak,
		}); err != nil {
			return nil, fmt.Errorf("writing trip %q: %w", t.ID, err)
		}
	}

	return trips, nil
}

// StopTimeCSV mirrors gtfs_stop_times. Grounded on parse/stop_times.go,
// generalized to keep shape_dist_traveled and timepoint, which the
// teacher drops.
type StopTimeCSV struct {
	TripID            string  `csv:"trip_id"`
	ArrivalTime       string  `csv:"arrival_time"`
	DepartureTime     string  `csv:"departure_time"`
	StopID            string  `csv:"stop_id"`
	StopSequence      uint32  `csv:"stop_sequence"`
	Headsign          string  `csv:"stop_headsign"`
	PickupType        int8    `csv:"pickup_type"`
	DropOffType       int8    `csv:"drop_off_type"`
	ShapeDistTraveled string  `csv:"shape_dist_traveled"`
	Timepoint         int8    `csv:"timepoint"`
}

// StopTimes parses stop_times.txt, validating trip_id/stop_id
// references and per-trip stop_sequence uniqueness.
func (w *Writer) StopTimes(data io.Reader, trips, stops map[string]bool) error {
	rows := []*StopTimeCSV{}
	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *StopTimeCSV) error {
		i++
		if !trips[st.TripID] {
			return fmt.Errorf("unknown trip_id %q (row %d)", st.TripID, i+1)
		}
		if st.StopID == "" || !stops[st.StopID] {
			return fmt.Errorf("unknown stop_id %q (row %d)", st.StopID, i+1)
		}
		rows = append(rows, st)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling stop_times csv")
	}

	seqSeen := map[string]map[uint32]bool{}
	for _, st := range rows {
		if seqSeen[st.TripID] == nil {
			seqSeen[st.TripID] = map[uint32]bool{}
		}
		if seqSeen[st.TripID][st.StopSequence] {
			return fmt.Errorf("duplicate stop_sequence %d for trip_id %q", st.StopSequence, st.TripID)
		}
		seqSeen[st.TripID][st.StopSequence] = true
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TripID != rows[j].TripID {
			return rows[i].TripID < rows[j].TripID
		}
		return rows[i].StopSequence < rows[j].StopSequence
	})

	for _, st := range rows {
		arrivalSeconds, err := gtfstime.ParseClock(st.ArrivalTime)
		if err != nil {
			return errors.Wrapf(err, "parsing arrival_time for trip %q stop %q", st.TripID, st.StopID)
		}
		departureSeconds, err := gtfstime.ParseClock(st.DepartureTime)
		if err != nil {
			return errors.Wrapf(err, "parsing departure_time for trip %q stop %q", st.TripID, st.StopID)
		}

		hasDist := st.ShapeDistTraveled != ""
		var dist float64
		if hasDist {
			if _, err := fmt.Sscanf(st.ShapeDistTraveled, "%g", &dist); err != nil {
				return errors.Wrapf(err, "parsing shape_dist_traveled for trip %q stop %q", st.TripID, st.StopID)
			}
		}

		if err := w.insert("gtfs_stop_times", store.Row{
			"trip_id":                 st.TripID,
			"arrival_time":            st.ArrivalTime,
			"arrival_time_seconds":    arrivalSeconds,
			"departure_time":          st.DepartureTime,
			"departure_time_seconds":  departureSeconds,
			"stop_id":                 st.StopID,
			"stop_sequence":           st.StopSequence,
			"stop_headsign":           st.Headsign,
			"pickup_type":             st.PickupType,
			"drop_off_type":           st.DropOffType,
			"shape_dist_traveled":     dist,
			"has_shape_dist_traveled": hasDist,
			"timepoint":               st.Timepoint,
		}); err != nil {
			return fmt.Errorf("writing stop_time for trip %q stop %q: %w", st.TripID, st.StopID, err)
		}
	}

	return nil
}
