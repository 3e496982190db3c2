package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/right-track/core/store"
)

// ShapeCSV mirrors gtfs_shapes. Not present in the teacher (tidbyt-gtfs
// never parses shapes.txt); grounded directly on spec §3/§6.
type ShapeCSV struct {
	ID           string  `csv:"shape_id"`
	Lat          float64 `csv:"shape_pt_lat"`
	Lon          float64 `csv:"shape_pt_lon"`
	Sequence     uint32  `csv:"shape_pt_sequence"`
	DistTraveled float64 `csv:"shape_dist_traveled"`
}

// Shapes parses shapes.txt, an optional file.
func (w *Writer) Shapes(data io.Reader) error {
	rows := []*ShapeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling shapes csv: %w", err)
	}

	for _, s := range rows {
		if s.ID == "" {
			return fmt.Errorf("empty shape_id")
		}
		if err := w.insert("gtfs_shapes", store.Row{
			"shape_id":            s.ID,
			"shape_pt_lat":        s.Lat,
			"shape_pt_lon":        s.Lon,
			"shape_pt_sequence":   s.Sequence,
			"shape_dist_traveled": s.DistTraveled,
		}); err != nil {
			return fmt.Errorf("writing shape point for %q: %w", s.ID, err)
		}
	}

	return nil
}
