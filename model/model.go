// Package model holds the plain, immutable-after-construction GTFS
// entities used throughout the module, plus the operator extensions
// layered on top of stock GTFS (real-time stop identifiers, transfer
// weights, holidays, line-graph adjacency).
package model

import "github.com/right-track/core/gtfstime"

// LocationType mirrors GTFS stops.location_type.
type LocationType int

const (
	LocationTypeStop LocationType = iota
	LocationTypeStation
	LocationTypeEntranceExit
	LocationTypeGenericNode
	LocationTypeBoardingArea
)

// WheelchairBoarding mirrors the wheelchair_boarding / wheelchair_accessible
// enumerations shared by Stop and Trip.
type WheelchairBoarding int8

const (
	WheelchairUnknown WheelchairBoarding = 0
	WheelchairYes     WheelchairBoarding = 1
	WheelchairNo      WheelchairBoarding = 2
)

// BikesAllowed mirrors trips.bikes_allowed.
type BikesAllowed int8

const (
	BikesUnknown BikesAllowed = 0
	BikesYes     BikesAllowed = 1
	BikesNo      BikesAllowed = 2
)

// PickupDropOffType mirrors stop_times.pickup_type / drop_off_type.
type PickupDropOffType int8

const (
	PickupDropOffRegular        PickupDropOffType = 0
	PickupDropOffNone           PickupDropOffType = 1
	PickupDropOffPhoneAgency    PickupDropOffType = 2
	PickupDropOffCoordinateWith PickupDropOffType = 3
)

// Timepoint mirrors stop_times.timepoint.
type Timepoint int8

const (
	TimepointApproximate Timepoint = 0
	TimepointExact       Timepoint = 1
)

// ExceptionType mirrors calendar_dates.exception_type.
type ExceptionType int8

const (
	ExceptionAdded   ExceptionType = 1
	ExceptionRemoved ExceptionType = 2
)

// PeakIndicator is the base, pre-holiday-override peak state carried
// by a trip row (rt extension: trips.peak).
type PeakIndicator int8

const (
	PeakOff         PeakIndicator = 0
	PeakOn          PeakIndicator = 1
	PeakWeekdayOnly PeakIndicator = 2
)

// RouteType mirrors GTFS routes.route_type (extended GTFS values
// included since agencies in the wild use them).
type RouteType int

const (
	RouteTypeLightRail  RouteType = 0
	RouteTypeSubway     RouteType = 1
	RouteTypeRail       RouteType = 2
	RouteTypeBus        RouteType = 3
	RouteTypeFerry      RouteType = 4
	RouteTypeCableCar   RouteType = 5
	RouteTypeGondola    RouteType = 6
	RouteTypeFunicular  RouteType = 7
	RouteTypeTrolleybus RouteType = 11
	RouteTypeMonorail   RouteType = 12
)

// NoFeedSentinel is the operator status_id value meaning "no real-time
// support for this stop". getStopByStatusId rejects it with
// coreerr.KindNotSupported.
const NoFeedSentinel = "-1"

type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Lang     string
	Phone    string
	FareURL  string
	Email    string
}

type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      RouteType
	URL       string
	Color     string
	TextColor string
	SortOrder int
}

// Stop is immutable after construction, except for Distance, which is
// a transient, query-scoped annotation (miles from some reference
// point) set by stop-proximity readers.
type Stop struct {
	ID              string
	Code            string
	Name            string
	DisplayName     string // operator override; falls back to Name when blank
	Desc            string
	Lat             float64
	Lon             float64
	URL             string
	WheelchairBoard WheelchairBoarding
	StatusID        string // "-1" sentinel == no real-time support
	TransferWeight  int
	Zone            string
	LocationType    LocationType
	ParentStation   string
	Timezone        string

	// Distance is a transient annotation in miles from a query's
	// reference point. Zero unless explicitly populated by a
	// proximity reader.
	Distance float64
}

// DisplayNameOrFallback returns DisplayName when set, else Name, per
// the §3 fallback order.
func (s Stop) DisplayNameOrFallback() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// HasFeed reports whether the stop carries a usable real-time status
// identifier (i.e. is not the "-1" sentinel and is not blank).
func (s Stop) HasFeed() bool {
	return s.StatusID != "" && s.StatusID != NoFeedSentinel
}

type Direction struct {
	ID          string
	Description string
}

type Service struct {
	ID         string
	Weekday    [7]bool // index 0 == Sunday, matching time.Weekday
	StartDate  int     // YYYYMMDD
	EndDate    int     // YYYYMMDD
	Exceptions []ServiceException
}

type ServiceException struct {
	ServiceID string
	Date      int // YYYYMMDD
	Type      ExceptionType
}

type Holiday struct {
	Date        int // YYYYMMDD
	Name        string
	Peak        bool
	ServiceInfo string
}

type Shape struct {
	ID       string
	Lat      float64
	Lon      float64
	Sequence uint32
	DistTraveled float64
}

type Link struct {
	CategoryTitle string
	Title         string
	Description   string
	URL           string
}

type About struct {
	CompileDate      string
	GTFSPublishDate  string
	StartDate        string
	EndDate          string
	Version          string
	Notes            string
}

// StopTime holds both the raw GTFS clock string and the
// seconds-since-local-midnight form, plus the absolute instant derived
// from combining those seconds with the owning trip's service date.
type StopTime struct {
	Stop         Stop
	ArrivalClock    string
	ArrivalSeconds  int
	DepartureClock  string
	DepartureSeconds int
	Sequence     uint32
	PickupType   PickupDropOffType
	DropOffType  PickupDropOffType
	Headsign     string
	ShapeDistTraveled float64
	HasShapeDist bool
	Timepoint    Timepoint
	ServiceDate  int // YYYYMMDD the row's service actually runs on
}

// ArrivalServiceDate returns the calendar date (YYYYMMDD) that
// ArrivalSeconds falls on, rolling ServiceDate forward a day for every
// full 86400s of overflow.
func (st StopTime) ArrivalServiceDate() int {
	return gtfstime.RollDate(st.ServiceDate, st.ArrivalSeconds)
}

// DepartureServiceDate returns the calendar date (YYYYMMDD) that
// DepartureSeconds falls on.
func (st StopTime) DepartureServiceDate() int {
	return gtfstime.RollDate(st.ServiceDate, st.DepartureSeconds)
}

// ArrivalInstant and DepartureInstant return the absolute instant
// derived from combining ServiceDate with the respective seconds
// value, per the StopTime invariant in spec §3. The result is
// normalized: seconds at or past 86400 roll onto the following
// calendar date, leaving Seconds() in [0, 86400).
func (st StopTime) ArrivalInstant() gtfstime.DateTime {
	dt, err := gtfstime.New(st.ServiceDate, st.ArrivalSeconds)
	if err != nil {
		return dt
	}
	return dt.AddMinutes(0)
}

func (st StopTime) DepartureInstant() gtfstime.DateTime {
	dt, err := gtfstime.New(st.ServiceDate, st.DepartureSeconds)
	if err != nil {
		return dt
	}
	return dt.AddMinutes(0)
}

// StopTimeFields is the constructor payload for NewStopTime, grouping
// the raw columns a reader assembles a StopTime from.
type StopTimeFields struct {
	Stop              Stop
	ArrivalClock      string
	ArrivalSeconds    int
	DepartureClock    string
	DepartureSeconds  int
	Sequence          uint32
	PickupType        PickupDropOffType
	DropOffType       PickupDropOffType
	Headsign          string
	ShapeDistTraveled float64
	HasShapeDist      bool
	Timepoint         Timepoint
	ServiceDate       int
}

// NewStopTime builds a StopTime from its raw fields. Readers in
// package query use this instead of a bare struct literal so the
// ServiceDate/seconds invariant has one place of construction.
func NewStopTime(f StopTimeFields) StopTime {
	return StopTime{
		Stop:              f.Stop,
		ArrivalClock:      f.ArrivalClock,
		ArrivalSeconds:    f.ArrivalSeconds,
		DepartureClock:    f.DepartureClock,
		DepartureSeconds:  f.DepartureSeconds,
		Sequence:          f.Sequence,
		PickupType:        f.PickupType,
		DropOffType:       f.DropOffType,
		Headsign:          f.Headsign,
		ShapeDistTraveled: f.ShapeDistTraveled,
		HasShapeDist:      f.HasShapeDist,
		Timepoint:         f.Timepoint,
		ServiceDate:       f.ServiceDate,
	}
}

type RouteDirection struct {
	StopID      string
	RouteID     string
	DirectionID string
	Headsigns   []string
}

// Trip is constructed with its StopTimes already sorted by Sequence.
type Trip struct {
	ID          string
	Route       Route
	Service     Service
	StopTimes   []StopTime
	Headsign    string
	ShortName   string
	BlockID     string
	ShapeID     string
	DirectionID string
	DirectionDesc string
	Wheelchair  WheelchairBoarding
	Bikes       BikesAllowed
	BasePeak    PeakIndicator

	// Peak is resolved at query time (see query.Layer.GetTrip):
	// PeakOn => true; PeakOff => false; PeakWeekdayOnly => true iff
	// weekday Mon-Fri AND (no holiday that day OR holiday.Peak).
	Peak bool
}

// FirstStopTime and LastStopTime are convenience accessors; StopTimes
// is sequence-sorted by construction. A trip with no stop_times rows
// has empty StopTimes, and both accessors panic on it.
func (t Trip) FirstStopTime() StopTime { return t.StopTimes[0] }
func (t Trip) LastStopTime() StopTime  { return t.StopTimes[len(t.StopTimes)-1] }

// SequenceIndexOf returns the index of the StopTime whose Stop.ID
// equals stopID, and whether it was found. Only the stop's own id is
// compared; a parent station's id does not match its child stops. When a stop appears more than once on a
// trip (rare, but not forbidden by GTFS), the first occurrence wins.
func (t Trip) SequenceIndexOf(stopID string) (int, bool) {
	for i, st := range t.StopTimes {
		if st.Stop.ID == stopID {
			return i, true
		}
	}
	return -1, false
}
