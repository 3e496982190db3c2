package search

// Options configures a single Search call. Search fills any zero-valued
// PreDepartureHours, PostDepartureHours, MaxLayoverMins and
// MaxTransfers from DefaultOptions; the boolean fields are used as
// given.
type Options struct {
	// AllowTransfers permits indirect (multi-segment) journeys at all.
	// When false, only direct (single-segment) candidates are returned.
	AllowTransfers bool

	// AllowChangeInDirection is reserved per spec §4.G. When false, a
	// transfer is only accepted if it keeps walking the line graph in
	// the same direction as the search is already proceeding: the
	// transfer-candidate lookup always queries getNextStops with the
	// original (origin, destination) ordering instead of swapping it
	// per the current search side, which is the line-graph-native way
	// to express "don't reverse direction" without inspecting a trip's
	// direction_id (see DESIGN.md).
	AllowChangeInDirection bool

	// PreDepartureHours/PostDepartureHours bound the initial candidate
	// window around Departure.
	PreDepartureHours  int
	PostDepartureHours int

	// MinLayoverMins/MaxLayoverMins bound the wait at every transfer.
	MinLayoverMins int
	MaxLayoverMins int

	// MaxTransfers caps the number of segments minus one.
	MaxTransfers int
}

// DefaultOptions returns the spec §4.G defaults.
func DefaultOptions() Options {
	return Options{
		AllowTransfers:         true,
		AllowChangeInDirection: true,
		PreDepartureHours:      3,
		PostDepartureHours:     6,
		MinLayoverMins:         0,
		MaxLayoverMins:         30,
		MaxTransfers:           2,
	}
}

// withDefaults fills any unset numeric field with its documented
// default, so callers can pass a partially-populated Options.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PreDepartureHours == 0 {
		o.PreDepartureHours = d.PreDepartureHours
	}
	if o.PostDepartureHours == 0 {
		o.PostDepartureHours = d.PostDepartureHours
	}
	if o.MaxLayoverMins == 0 {
		o.MaxLayoverMins = d.MaxLayoverMins
	}
	if o.MaxTransfers == 0 {
		o.MaxTransfers = d.MaxTransfers
	}
	return o
}
