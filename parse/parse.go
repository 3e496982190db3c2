package parse

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/right-track/core/store"
)

// requiredFiles are the stock GTFS files a feed cannot be ingested
// without. Grounded on parse.go's equivalent list.
var requiredFiles = []string{
	"agency.txt", "routes.txt", "stops.txt", "trips.txt", "stop_times.txt",
}

// optionalFiles are read when present; their absence is not an error.
var optionalFiles = []string{
	"calendar.txt", "calendar_dates.txt", "shapes.txt", "gtfs_directions.txt",
	"rt_stops_extra.txt", "rt_alt_stop_names.txt", "rt_holidays.txt",
	"rt_links.txt", "rt_line_graph.txt", "rt_route_graph.txt", "rt_about.txt",
}

// Static ingests a zipped GTFS static feed (stock files plus whichever
// rt_* extension files are present) into loader, via ctx. Grounded on
// the teacher's ParseStatic: unzip into a name-keyed file table, then
// parse in dependency order so each stage can validate its foreign
// keys against the ID sets the previous stages return.
func Static(ctx context.Context, loader store.Loader, data []byte) error {
	files := map[string]io.ReadCloser{}
	for _, name := range requiredFiles {
		files[name] = nil
	}
	for _, name := range optionalFiles {
		files[name] = nil
	}
	defer func() {
		for _, rc := range files {
			if rc != nil {
				rc.Close()
			}
		}
	}()

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unzipping feed: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		parts := strings.Split(f.Name, "/")
		name := parts[len(parts)-1]
		if _, wanted := files[name]; !wanted {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", f.Name, err)
		}
		files[name] = rc
	}

	for _, name := range requiredFiles {
		if files[name] == nil {
			return fmt.Errorf("missing required file %s", name)
		}
	}
	if files["calendar.txt"] == nil && files["calendar_dates.txt"] == nil {
		return fmt.Errorf("missing calendar.txt and calendar_dates.txt")
	}

	// LazyCSVReader survives sloppy quoting; the BOM reader strips a
	// unicode BOM if the agency exported one.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	w := NewWriter(ctx, loader)

	agencies, _, err := w.Agencies(files["agency.txt"])
	if err != nil {
		return fmt.Errorf("parsing agency.txt: %w", err)
	}

	routes, err := w.Routes(files["routes.txt"], agencies)
	if err != nil {
		return fmt.Errorf("parsing routes.txt: %w", err)
	}

	directions := map[string]bool{}
	if files["gtfs_directions.txt"] != nil {
		directions, err = w.Directions(files["gtfs_directions.txt"])
		if err != nil {
			return fmt.Errorf("parsing gtfs_directions.txt: %w", err)
		}
	}

	services := map[string]bool{}
	if files["calendar.txt"] != nil {
		services, err = w.Calendar(files["calendar.txt"])
		if err != nil {
			return fmt.Errorf("parsing calendar.txt: %w", err)
		}
	}
	if files["calendar_dates.txt"] != nil {
		services, err = w.CalendarDates(files["calendar_dates.txt"], services)
		if err != nil {
			return fmt.Errorf("parsing calendar_dates.txt: %w", err)
		}
	}

	trips, err := w.Trips(files["trips.txt"], routes, services, directions)
	if err != nil {
		return fmt.Errorf("parsing trips.txt: %w", err)
	}

	stops, err := w.Stops(files["stops.txt"])
	if err != nil {
		return fmt.Errorf("parsing stops.txt: %w", err)
	}

	if err := w.StopTimes(files["stop_times.txt"], trips, stops); err != nil {
		return fmt.Errorf("parsing stop_times.txt: %w", err)
	}

	if files["shapes.txt"] != nil {
		if err := w.Shapes(files["shapes.txt"]); err != nil {
			return fmt.Errorf("parsing shapes.txt: %w", err)
		}
	}
	if files["rt_stops_extra.txt"] != nil {
		if err := w.StopsExtra(files["rt_stops_extra.txt"], stops); err != nil {
			return fmt.Errorf("parsing rt_stops_extra.txt: %w", err)
		}
	}
	if files["rt_alt_stop_names.txt"] != nil {
		if err := w.AltStopNames(files["rt_alt_stop_names.txt"], stops); err != nil {
			return fmt.Errorf("parsing rt_alt_stop_names.txt: %w", err)
		}
	}
	if files["rt_holidays.txt"] != nil {
		if err := w.Holidays(files["rt_holidays.txt"]); err != nil {
			return fmt.Errorf("parsing rt_holidays.txt: %w", err)
		}
	}
	if files["rt_links.txt"] != nil {
		if err := w.Links(files["rt_links.txt"]); err != nil {
			return fmt.Errorf("parsing rt_links.txt: %w", err)
		}
	}
	if files["rt_line_graph.txt"] != nil {
		if err := w.LineGraph(files["rt_line_graph.txt"], stops); err != nil {
			return fmt.Errorf("parsing rt_line_graph.txt: %w", err)
		}
	}
	if files["rt_route_graph.txt"] != nil {
		if err := w.RouteGraph(files["rt_route_graph.txt"]); err != nil {
			return fmt.Errorf("parsing rt_route_graph.txt: %w", err)
		}
	}
	if files["rt_about.txt"] != nil {
		if err := w.About(files["rt_about.txt"]); err != nil {
			return fmt.Errorf("parsing rt_about.txt: %w", err)
		}
	}

	return nil
}
