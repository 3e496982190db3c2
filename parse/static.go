package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/right-track/core/store"
)

// AgencyCSV mirrors gtfs_agency's source columns. Grounded on the
// teacher's parse/agency.go, generalized to carry every column the
// store schema keeps rather than the teacher's reduced subset.
type AgencyCSV struct {
	ID       string `csv:"agency_id"`
	Name     string `csv:"agency_name"`
	URL      string `csv:"agency_url"`
	Timezone string `csv:"agency_timezone"`
	Lang     string `csv:"agency_lang"`
	Phone    string `csv:"agency_phone"`
	FareURL  string `csv:"agency_fare_url"`
	Email    string `csv:"agency_email"`
}

// Agencies parses agency.txt, writing one row per agency and returning
// the set of known agency IDs (for routes.txt's foreign-key check) and
// the feed's single shared timezone.
func (w *Writer) Agencies(data io.Reader) (map[string]bool, string, error) {
	rows := []*AgencyCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, "", fmt.Errorf("unmarshaling agency csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("no agency record found")
	}

	tz := rows[0].Timezone
	for _, a := range rows {
		if a.Timezone != tz {
			return nil, "", fmt.Errorf("multiple agency_timezone values found")
		}
	}
	if tz == "" {
		return nil, "", fmt.Errorf("missing agency_timezone")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, "", fmt.Errorf("agency_timezone %q is invalid: %w", tz, err)
	}

	agencies := map[string]bool{}
	for _, a := range rows {
		if agencies[a.ID] {
			return nil, "", fmt.Errorf("duplicated agency_id %q", a.ID)
		}
		agencies[a.ID] = true

		if a.Name == "" {
			return nil, "", fmt.Errorf("missing agency_name for %q", a.ID)
		}
		if a.URL == "" {
			return nil, "", fmt.Errorf("missing agency_url for %q", a.ID)
		}

		if err := w.insert("gtfs_agency", store.Row{
			"agency_id":       a.ID,
			"agency_name":     a.Name,
			"agency_url":      a.URL,
			"agency_timezone": a.Timezone,
			"agency_lang":     a.Lang,
			"agency_phone":    a.Phone,
			"agency_fare_url": a.FareURL,
			"agency_email":    a.Email,
		}); err != nil {
			return nil, "", fmt.Errorf("writing agency %q: %w", a.ID, err)
		}
	}

	return agencies, tz, nil
}

// RouteCSV mirrors gtfs_routes. Grounded on parse/routes.go.
type RouteCSV struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Desc      string `csv:"route_desc"`
	Type      int    `csv:"route_type"`
	URL       string `csv:"route_url"`
	Color     string `csv:"route_color"`
	TextColor string `csv:"route_text_color"`
	SortOrder int    `csv:"route_sort_order"`
}

// Routes parses routes.txt, validating agency_id references against
// agencies, and returns the set of known route IDs.
func (w *Writer) Routes(data io.Reader, agencies map[string]bool) (map[string]bool, error) {
	rows := []*RouteCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling routes csv: %w", err)
	}

	routes := map[string]bool{}
	for _, r := range rows {
		if routes[r.ID] {
			return nil, fmt.Errorf("repeated route_id %q", r.ID)
		}
		routes[r.ID] = true

		if r.ID == "" {
			return nil, fmt.Errorf("empty route_id")
		}
		if r.ShortName == "" && r.LongName == "" {
			return nil, fmt.Errorf("route %q has neither route_short_name nor route_long_name", r.ID)
		}
		if r.AgencyID != "" && !agencies[r.AgencyID] {
			return nil, fmt.Errorf("route %q references unknown agency_id %q", r.ID, r.AgencyID)
		}

		if err := w.insert("gtfs_routes", store.Row{
			"route_id":         r.ID,
			"agency_id":        r.AgencyID,
			"route_short_name": r.ShortName,
			"route_long_name":  r.LongName,
			"route_desc":       r.Desc,
			"route_type":       r.Type,
			"route_url":        r.URL,
			"route_color":      r.Color,
			"route_text_color": r.TextColor,
			"route_sort_order": r.SortOrder,
		}); err != nil {
			return nil, fmt.Errorf("writing route %q: %w", r.ID, err)
		}
	}

	return routes, nil
}

// StopCSV mirrors gtfs_stops. Grounded on parse/stops.go.
type StopCSV struct {
	ID                 string  `csv:"stop_id"`
	Code               string  `csv:"stop_code"`
	Name               string  `csv:"stop_name"`
	Desc               string  `csv:"stop_desc"`
	Lat                float64 `csv:"stop_lat"`
	Lon                float64 `csv:"stop_lon"`
	ZoneID             string  `csv:"zone_id"`
	URL                string  `csv:"stop_url"`
	LocationType       int     `csv:"location_type"`
	ParentStation      string  `csv:"parent_station"`
	Timezone           string  `csv:"stop_timezone"`
	WheelchairBoarding int8    `csv:"wheelchair_boarding"`
}

// Stops parses stops.txt, validating parent_station self-references,
// and returns the set of known stop IDs.
func (w *Writer) Stops(data io.Reader) (map[string]bool, error) {
	rows := []*StopCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling stops csv: %w", err)
	}

	stops := map[string]bool{}
	parentOf := map[string]string{}
	for _, s := range rows {
		if stops[s.ID] {
			return nil, fmt.Errorf("repeated stop_id %q", s.ID)
		}
		stops[s.ID] = true

		if s.ID == "" {
			return nil, fmt.Errorf("empty stop_id")
		}
		generic := s.LocationType == 3 || s.LocationType == 4
		if !generic && s.Name == "" {
			return nil, fmt.Errorf("empty stop_name for stop_id %q", s.ID)
		}
		if !generic && s.Lat == 0 && s.Lon == 0 {
			return nil, fmt.Errorf("empty stop_lat/stop_lon for stop_id %q", s.ID)
		}
		if s.ParentStation != "" {
			parentOf[s.ID] = s.ParentStation
		}

		if err := w.insert("gtfs_stops", store.Row{
			"stop_id":             s.ID,
			"stop_code":           s.Code,
			"stop_name":           s.Name,
			"stop_desc":           s.Desc,
			"stop_lat":            s.Lat,
			"stop_lon":            s.Lon,
			"zone_id":             s.ZoneID,
			"stop_url":            s.URL,
			"location_type":       s.LocationType,
			"parent_station":      s.ParentStation,
			"stop_timezone":       s.Timezone,
			"wheelchair_boarding": s.WheelchairBoarding,
		}); err != nil {
			return nil, fmt.Errorf("writing stop %q: %w", s.ID, err)
		}
	}

	for stopID, parentID := range parentOf {
		if !stops[parentID] {
			return nil, fmt.Errorf("stop %q references unknown parent_station %q", stopID, parentID)
		}
	}

	return stops, nil
}

// DirectionCSV mirrors gtfs_directions — spec §3's named-direction
// entity, distinct from stock GTFS's binary trips.direction_id. Not
// part of the teacher's schema; grounded on spec §3/§6 directly.
type DirectionCSV struct {
	ID          string `csv:"direction_id"`
	Description string `csv:"description"`
}

// Directions parses gtfs_directions.txt and returns the set of known
// direction IDs.
func (w *Writer) Directions(data io.Reader) (map[string]bool, error) {
	rows := []*DirectionCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling directions csv: %w", err)
	}

	directions := map[string]bool{}
	for _, d := range rows {
		if d.ID == "" {
			return nil, fmt.Errorf("empty direction_id")
		}
		directions[d.ID] = true

		if err := w.insert("gtfs_directions", store.Row{
			"direction_id": d.ID,
			"description":  d.Description,
		}); err != nil {
			return nil, fmt.Errorf("writing direction %q: %w", d.ID, err)
		}
	}

	return directions, nil
}
