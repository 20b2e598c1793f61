package clinic

import (
	"sort"
	"strings"
	"time"
)

// DisplayDateLayout is the one display format stored in Booking.Date and
// used for every day match, e.g. "September 06, 2025".
const DisplayDateLayout = "January 02, 2006"

// isoMillis matches the timestamps external writers put in Booking.Start.
const isoMillis = "2006-01-02T15:04:05.000Z"

var dateOnlyLayouts = []string{
	"2006-01-02",
	"January 02, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Day is a calendar day in the clinic's time zone.
type Day struct {
	year  int
	month time.Month
	day   int
	loc   *time.Location
}

func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{year: y, month: m, day: d, loc: loc}
}

// ParseDay reads a date-like string. Date-only forms are taken as that day
// in loc; timestamps with a zone are converted to loc first.
func ParseDay(raw string, loc *time.Location) (Day, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return Day{}, ErrInvalidDate
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DayOf(t, loc), nil
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DayOf(t, loc), nil
		}
	}
	return Day{}, ErrInvalidDate
}

// Start is 00:00:00.000 of the day.
func (d Day) Start() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, d.loc)
}

// End is 23:59:59.999 of the day.
func (d Day) End() time.Time {
	return time.Date(d.year, d.month, d.day, 23, 59, 59, int(999*time.Millisecond), d.loc)
}

func (d Day) Display() string {
	return d.Start().Format(DisplayDateLayout)
}

// ISO renders the day as YYYY-MM-DD.
func (d Day) ISO() string {
	return d.Start().Format("2006-01-02")
}

// Weekday is the lowercase English weekday name, e.g. "monday".
func (d Day) Weekday() string {
	return strings.ToLower(d.Start().Weekday().String())
}

// Range returns the inclusive bounds of the day as UTC ISO-8601 strings with
// millisecond precision, comparable with Booking.Start.
func (d Day) Range() (from, to string) {
	return d.Start().UTC().Format(isoMillis), d.End().UTC().Format(isoMillis)
}

// DaysSince counts whole calendar days from earlier to d.
func (d Day) DaysSince(earlier Day) int {
	a := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
	b := time.Date(earlier.year, earlier.month, earlier.day, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// Calendar resolves "today" and parses requested days in the clinic's zone.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Location: loc, Now: time.Now}
}

func (c Calendar) Today() Day {
	return DayOf(c.Current(), c.Location)
}

// Current is the calendar's clock reading.
func (c Calendar) Current() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Calendar) Parse(raw string) (Day, error) {
	return ParseDay(raw, c.Location)
}

// MergeDay combines the display-date matches with the start-range matches.
// Display-date matches keep their position; range matches are appended only
// when their ID was not already seen. The result is ordered by BookingLess.
func MergeDay(byDate, byStart []Booking) []Booking {
	merged := make([]Booking, 0, len(byDate)+len(byStart))
	seen := make(map[string]struct{}, len(byDate)+len(byStart))

	for _, b := range byDate {
		seen[b.ID.String()] = struct{}{}
		merged = append(merged, b)
	}
	for _, b := range byStart {
		key := b.ID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, b)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return BookingLess(merged[i], merged[j])
	})
	return merged
}

// BookingLess orders by start timestamp when both bookings have one, then by
// the display time string when both have one. Anything else compares equal.
func BookingLess(a, b Booking) bool {
	at, aok := a.StartTime()
	bt, bok := b.StartTime()
	if aok && bok {
		return at.Before(bt)
	}
	if a.Time != "" && b.Time != "" {
		return a.Time < b.Time
	}
	return false
}
