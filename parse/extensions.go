package parse

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/right-track/core/store"
)

// The rt_* files are the operator extensions spec §3/§6 layers on top
// of stock GTFS. None of these have a teacher equivalent (tidbyt-gtfs
// only ever parses stock GTFS); each is grounded directly on the spec
// §6 table definitions, following the stock parsers' own conventions
// (gocsv.Unmarshal + per-row validation + Writer.insert) for texture.

// StopExtraCSV mirrors rt_stops_extra.
type StopExtraCSV struct {
	StopID         string `csv:"stop_id"`
	StatusID       string `csv:"status_id"`
	DisplayName    string `csv:"display_name"`
	TransferWeight int    `csv:"transfer_weight"`
	ZoneID         string `csv:"zone_id"`
}

// StopsExtra parses rt_stops_extra.txt, validating stop_id references.
func (w *Writer) StopsExtra(data io.Reader, stops map[string]bool) error {
	rows := []*StopExtraCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling stops_extra csv: %w", err)
	}
	for _, s := range rows {
		if !stops[s.StopID] {
			return fmt.Errorf("stops_extra references unknown stop_id %q", s.StopID)
		}
		if err := w.insert("rt_stops_extra", store.Row{
			"stop_id":         s.StopID,
			"status_id":       s.StatusID,
			"display_name":    s.DisplayName,
			"transfer_weight": s.TransferWeight,
			"zone_id":         s.ZoneID,
		}); err != nil {
			return fmt.Errorf("writing stops_extra for %q: %w", s.StopID, err)
		}
	}
	return nil
}

// AltStopNameCSV mirrors rt_alt_stop_names.
type AltStopNameCSV struct {
	StopID      string `csv:"stop_id"`
	AltStopName string `csv:"alt_stop_name"`
}

// AltStopNames parses rt_alt_stop_names.txt.
func (w *Writer) AltStopNames(data io.Reader, stops map[string]bool) error {
	rows := []*AltStopNameCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling alt_stop_names csv: %w", err)
	}
	for _, a := range rows {
		if !stops[a.StopID] {
			return fmt.Errorf("alt_stop_names references unknown stop_id %q", a.StopID)
		}
		if err := w.insert("rt_alt_stop_names", store.Row{
			"stop_id":       a.StopID,
			"alt_stop_name": a.AltStopName,
		}); err != nil {
			return fmt.Errorf("writing alt_stop_name for %q: %w", a.StopID, err)
		}
	}
	return nil
}

// HolidayCSV mirrors rt_holidays.
type HolidayCSV struct {
	Date        string `csv:"date"`
	HolidayName string `csv:"holiday_name"`
	Peak        int8   `csv:"peak"`
	ServiceInfo string `csv:"service_info"`
}

// Holidays parses rt_holidays.txt.
func (w *Writer) Holidays(data io.Reader) error {
	rows := []*HolidayCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling holidays csv: %w", err)
	}
	for _, h := range rows {
		date, err := strconv.Atoi(h.Date)
		if err != nil {
			return fmt.Errorf("invalid date for holiday %q: %w", h.HolidayName, err)
		}
		if err := w.insert("rt_holidays", store.Row{
			"date":         date,
			"holiday_name": h.HolidayName,
			"peak":         h.Peak,
			"service_info": h.ServiceInfo,
		}); err != nil {
			return fmt.Errorf("writing holiday %q: %w", h.HolidayName, err)
		}
	}
	return nil
}

// LinkCSV mirrors rt_links.
type LinkCSV struct {
	CategoryTitle string `csv:"link_category_title"`
	Title         string `csv:"link_title"`
	Description   string `csv:"link_description"`
	URL           string `csv:"link_url"`
}

// Links parses rt_links.txt.
func (w *Writer) Links(data io.Reader) error {
	rows := []*LinkCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling links csv: %w", err)
	}
	for _, l := range rows {
		if l.Title == "" {
			return fmt.Errorf("empty link_title")
		}
		if err := w.insert("rt_links", store.Row{
			"link_category_title": l.CategoryTitle,
			"link_title":          l.Title,
			"link_description":    l.Description,
			"link_url":            l.URL,
		}); err != nil {
			return fmt.Errorf("writing link %q: %w", l.Title, err)
		}
	}
	return nil
}

// LineGraphEdgeCSV mirrors rt_line_graph, the undirected transfer
// adjacency spec §4.F builds the line graph from.
type LineGraphEdgeCSV struct {
	Stop1ID string `csv:"stop1_id"`
	Stop2ID string `csv:"stop2_id"`
}

// LineGraph parses rt_line_graph.txt, validating both endpoints.
func (w *Writer) LineGraph(data io.Reader, stops map[string]bool) error {
	rows := []*LineGraphEdgeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling line_graph csv: %w", err)
	}
	for _, e := range rows {
		if !stops[e.Stop1ID] || !stops[e.Stop2ID] {
			return fmt.Errorf("line_graph edge references unknown stop (%q, %q)", e.Stop1ID, e.Stop2ID)
		}
		if err := w.insert("rt_line_graph", store.Row{
			"stop1_id": e.Stop1ID,
			"stop2_id": e.Stop2ID,
		}); err != nil {
			return fmt.Errorf("writing line_graph edge (%q, %q): %w", e.Stop1ID, e.Stop2ID, err)
		}
	}
	return nil
}

// RouteGraphEdgeCSV mirrors rt_route_graph, deprecated per spec §3/§6
// in favor of rt_line_graph but still accepted on ingestion so older
// feeds keep loading.
type RouteGraphEdgeCSV struct {
	Stop1ID     string `csv:"stop1_id"`
	Stop2ID     string `csv:"stop2_id"`
	DirectionID string `csv:"direction_id"`
}

// RouteGraph parses the deprecated rt_route_graph.txt, when present.
func (w *Writer) RouteGraph(data io.Reader) error {
	rows := []*RouteGraphEdgeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling route_graph csv: %w", err)
	}
	for _, e := range rows {
		if err := w.insert("rt_route_graph", store.Row{
			"stop1_id":     e.Stop1ID,
			"stop2_id":     e.Stop2ID,
			"direction_id": e.DirectionID,
		}); err != nil {
			return fmt.Errorf("writing route_graph edge (%q, %q): %w", e.Stop1ID, e.Stop2ID, err)
		}
	}
	return nil
}

// AboutCSV mirrors rt_about, a single-row feed metadata table.
type AboutCSV struct {
	CompileDate     string `csv:"compile_date"`
	GTFSPublishDate string `csv:"gtfs_publish_date"`
	StartDate       string `csv:"start_date"`
	EndDate         string `csv:"end_date"`
	Version         string `csv:"version"`
	Notes           string `csv:"notes"`
}

// About parses rt_about.txt, requiring exactly one row.
func (w *Writer) About(data io.Reader) error {
	rows := []*AboutCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling about csv: %w", err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("rt_about.txt must contain exactly one row, found %d", len(rows))
	}
	a := rows[0]
	return w.insert("rt_about", store.Row{
		"compile_date":      a.CompileDate,
		"gtfs_publish_date": a.GTFSPublishDate,
		"start_date":        a.StartDate,
		"end_date":          a.EndDate,
		"version":           a.Version,
		"notes":             a.Notes,
	})
}
