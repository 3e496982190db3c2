// Package gtfstime implements GTFS clock-time and calendar-date
// handling: parsing, normalization, and arithmetic over times that may
// exceed 24:00:00 (GTFS's way of expressing a trip that departs late
// one service-day and arrives into the next).
package gtfstime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSeconds is the ceiling on seconds-since-local-midnight this
// package will accept: 48:00:00. GTFS trips starting late-evening may
// list stop-times as "25:30:00" on their start date; comparing those
// consistently against next-day trips starting at "01:30:00" requires
// a representation that tolerates times past 24h.
const MaxSeconds = 48 * 3600

// MinDate and MaxDate bound valid YYYYMMDD dates (spec §7 InvalidDate).
const (
	MinDate = 19700101
	MaxDate = 21001231
)

// InvalidTimeFormatError is returned by constructors given unparseable
// or out-of-range clock-time input.
type InvalidTimeFormatError struct {
	Input string
	Cause string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: %s", e.Input, e.Cause)
}

// InvalidDateError is returned when a YYYYMMDD value falls outside
// [MinDate, MaxDate].
type InvalidDateError struct {
	Date int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %d: outside [%d, %d]", e.Date, MinDate, MaxDate)
}

// ValidateDate returns an *InvalidDateError if date is out of range.
func ValidateDate(date int) error {
	if date < MinDate || date > MaxDate {
		return &InvalidDateError{Date: date}
	}
	return nil
}

// DateTime is a clock-time within a service day plus a calendar date.
// Its normal form is (seconds since local midnight in [0, MaxSeconds],
// date as YYYYMMDD). DateTime values are immutable; every mutating
// operation returns a new value.
type DateTime struct {
	seconds int
	date    int
}

// New constructs a DateTime from a YYYYMMDD date and seconds-since-
// midnight, which must be in [0, MaxSeconds].
func New(date int, seconds int) (DateTime, error) {
	if err := ValidateDate(date); err != nil {
		return DateTime{}, err
	}
	if seconds < 0 || seconds > MaxSeconds {
		return DateTime{}, &InvalidTimeFormatError{
			Input: strconv.Itoa(seconds),
			Cause: fmt.Sprintf("seconds out of range [0, %d]", MaxSeconds),
		}
	}
	return DateTime{seconds: seconds, date: date}, nil
}

// ParseClock accepts "HH:mm:ss", "HH:mm", "HHmm", and "h:mm AM/PM"
// (12-hour, optional space before AM/PM, case-insensitive), and
// returns the seconds-since-midnight it denotes.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &InvalidTimeFormatError{Input: s, Cause: "empty"}
	}

	if secs, ok := parseAMPM(s); ok {
		return secs, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			return hms(parts[0], parts[1], "0", s)
		case 3:
			return hms(parts[0], parts[1], parts[2], s)
		default:
			return 0, &InvalidTimeFormatError{Input: s, Cause: "expected HH:mm or HH:mm:ss"}
		}
	}

	// HHmm, digits only.
	if len(s) == 4 && isDigits(s) {
		return hms(s[0:2], s[2:4], "0", s)
	}

	return 0, &InvalidTimeFormatError{Input: s, Cause: "unrecognized format"}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hms(hStr, mStr, sStr, orig string) (int, error) {
	h, errH := strconv.Atoi(hStr)
	m, errM := strconv.Atoi(mStr)
	sec, errS := strconv.Atoi(sStr)
	if errH != nil || errM != nil || errS != nil {
		return 0, &InvalidTimeFormatError{Input: orig, Cause: "non-integer component"}
	}
	if h < 0 || h > MaxSeconds/3600 {
		return 0, &InvalidTimeFormatError{Input: orig, Cause: "hour out of range"}
	}
	if m < 0 || m > 59 {
		return 0, &InvalidTimeFormatError{Input: orig, Cause: "minute out of range"}
	}
	if sec < 0 || sec > 59 {
		return 0, &InvalidTimeFormatError{Input: orig, Cause: "second out of range"}
	}
	total := h*3600 + m*60 + sec
	if total > MaxSeconds {
		return 0, &InvalidTimeFormatError{Input: orig, Cause: "exceeds 48:00:00"}
	}
	return total, nil
}

func parseAMPM(s string) (int, bool) {
	upper := strings.ToUpper(s)
	suffix := ""
	if strings.HasSuffix(upper, "AM") {
		suffix = "AM"
	} else if strings.HasSuffix(upper, "PM") {
		suffix = "PM"
	} else {
		return 0, false
	}

	body := strings.TrimSpace(upper[:len(upper)-2])
	parts := strings.Split(body, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, false
	}

	h = h % 12
	if suffix == "PM" {
		h += 12
	}
	return h*3600 + m*60, true
}

// ParseDateTime constructs a DateTime from a YYYYMMDD date and any of
// ParseClock's accepted clock formats.
func ParseDateTime(date int, clock string) (DateTime, error) {
	seconds, err := ParseClock(clock)
	if err != nil {
		return DateTime{}, err
	}
	return New(date, seconds)
}

// Seconds returns the seconds-since-local-midnight component.
func (dt DateTime) Seconds() int { return dt.seconds }

// Date returns the YYYYMMDD date component.
func (dt DateTime) Date() int { return dt.date }

// Clone returns an independent copy. DateTime is a value type, so this
// is just `dt`, but is provided for readability at call sites that want
// to make the copy-semantics explicit.
func (dt DateTime) Clone() DateTime { return dt }

// AddDays rolls the date forward/backward by n calendar days, keeping
// seconds unchanged.
func (dt DateTime) AddDays(n int) DateTime {
	return DateTime{seconds: dt.seconds, date: AddDaysToDate(dt.date, n)}
}

// AddMinutes promotes dt to an absolute instant, adds n minutes, and
// renormalizes back to (date, seconds-in-[0,86400)) form. Unlike
// AddDays, this rolls any seconds at or past 86400 into the date, since
// the result represents a fresh instant rather than an
// already-scheduled GTFS overflow time.
func (dt DateTime) AddMinutes(n int) DateTime {
	totalSeconds := dt.seconds + n*60
	days := 0
	for totalSeconds < 0 {
		totalSeconds += 86400
		days--
	}
	for totalSeconds >= 86400 {
		totalSeconds -= 86400
		days++
	}
	return DateTime{seconds: totalSeconds, date: AddDaysToDate(dt.date, days)}
}

// Instant returns the absolute instant: dt.date interpreted at local
// midnight (UTC, since GTFS clock math is timezone-relative and the
// caller is responsible for any real timezone conversion) plus
// dt.seconds.
func (dt DateTime) Instant() time.Time {
	return dateToTime(dt.date).Add(time.Duration(dt.seconds) * time.Second)
}

// Before, After and Equal compare by absolute instant.
func (dt DateTime) Before(other DateTime) bool { return dt.Instant().Before(other.Instant()) }
func (dt DateTime) After(other DateTime) bool  { return dt.Instant().After(other.Instant()) }
func (dt DateTime) Equal(other DateTime) bool  { return dt.Instant().Equal(other.Instant()) }

// Sub returns dt - other as a duration.
func (dt DateTime) Sub(other DateTime) time.Duration {
	return dt.Instant().Sub(other.Instant())
}

// GTFSClock renders "HH:mm:ss", tolerating seconds up to MaxSeconds.
func (dt DateTime) GTFSClock() string {
	h := dt.seconds / 3600
	m := (dt.seconds % 3600) / 60
	s := dt.seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HHMM renders "HHmm".
func (dt DateTime) HHMM() string {
	h := dt.seconds / 3600
	m := (dt.seconds % 3600) / 60
	return fmt.Sprintf("%02d%02d", h, m)
}

// Human renders 12-hour "h:mm AM/PM", with rollover hours (>= 24)
// mapped onto the next day's AM/PM, e.g. seconds for "25:05:00" render
// as "1:05 AM" (the date itself is not adjusted by this method; callers
// wanting a rolled date should combine with AddDays(seconds/86400)).
func (dt DateTime) Human() string {
	h := dt.seconds / 3600 % 24
	m := (dt.seconds % 3600) / 60
	suffix := "AM"
	display := h
	if h == 0 {
		display = 12
	} else if h == 12 {
		suffix = "PM"
	} else if h > 12 {
		display = h - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}

// YYYYMMDD renders the date component.
func (dt DateTime) YYYYMMDD() string {
	return strconv.Itoa(dt.date)
}

// Weekday returns the day-of-week name for the date component.
func (dt DateTime) Weekday() time.Weekday {
	return dateToTime(dt.date).Weekday()
}

// dateToTime converts a YYYYMMDD int into a UTC time.Time at midnight.
func dateToTime(date int) time.Time {
	y := date / 10000
	m := (date / 100) % 100
	d := date % 100
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// timeToDate converts a UTC time.Time back into a YYYYMMDD int.
func timeToDate(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// AddDaysToDate rolls a YYYYMMDD date forward/backward by n calendar
// days.
func AddDaysToDate(date int, n int) int {
	return timeToDate(dateToTime(date).AddDate(0, 0, n))
}

// RollDate returns the calendar date that `seconds` (possibly >=
// 86400, as GTFS overflow times are) falls on, starting from base.
func RollDate(base int, seconds int) int {
	return AddDaysToDate(base, seconds/86400)
}
