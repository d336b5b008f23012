// Package datewindow implements inclusive day counting over date-only values.
//
// Every value handled here is a calendar date: a time.Time normalised to
// midnight UTC. Callers pass arbitrary instants through Truncate first; the
// functions in this package truncate defensively as well so time-of-day and
// location never leak into a day count.
//
// Touching ranges: two inclusive ranges that share exactly one boundary day
// overlap by one day. A travel day spent partly in two jurisdictions therefore
// counts toward both.
package datewindow

import "time"

const day = 24 * time.Hour

// Date builds a calendar date.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Truncate drops time-of-day, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := Truncate(t).Date()
	return Date(y, m, d+n)
}

// DaysBetweenInclusive counts the days in [start, end], so a same-day stay is 1.
// Returns 0 when end is before start; a day count is never negative.
func DaysBetweenInclusive(start, end time.Time) int {
	s, e := Truncate(start), Truncate(end)
	if e.Before(s) {
		return 0
	}
	// Both values are UTC midnights, so the difference is an exact multiple of a day.
	return int(e.Sub(s)/day) + 1
}

// Range is an inclusive span of calendar dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange truncates both bounds.
func NewRange(start, end time.Time) Range {
	return Range{Start: Truncate(start), End: Truncate(end)}
}

// Days is the inclusive length of the range; 0 for an inverted range.
func (r Range) Days() int {
	return DaysBetweenInclusive(r.Start, r.End)
}

// Valid reports whether Start <= End.
func (r Range) Valid() bool {
	return !Truncate(r.End).Before(Truncate(r.Start))
}

// Contains reports whether d falls inside the range, bounds included.
func (r Range) Contains(d time.Time) bool {
	d = Truncate(d)
	return !d.Before(Truncate(r.Start)) && !d.After(Truncate(r.End))
}

// Intersect returns the overlapping sub-range of a and b. The boolean is false
// when the ranges are disjoint or either one is inverted. Ranges touching at a
// single day yield a one-day overlap.
func Intersect(a, b Range) (Range, bool) {
	if !a.Valid() || !b.Valid() {
		return Range{}, false
	}
	start := latest(Truncate(a.Start), Truncate(b.Start))
	end := earliest(Truncate(a.End), Truncate(b.End))
	if end.Before(start) {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Overlaps is Intersect without the result.
func Overlaps(a, b Range) bool {
	_, ok := Intersect(a, b)
	return ok
}

// YearOf returns [Jan 1, Dec 31] of d's year.
func YearOf(d time.Time) Range {
	y := Truncate(d).Year()
	return Range{Start: Date(y, time.January, 1), End: Date(y, time.December, 31)}
}

// Trailing returns the window of length days that ends on (and includes) end.
func Trailing(end time.Time, length int) Range {
	end = Truncate(end)
	return Range{Start: AddDays(end, -(length - 1)), End: end}
}

// Leading returns the window of length days that starts on (and includes) start.
func Leading(start time.Time, length int) Range {
	start = Truncate(start)
	return Range{Start: start, End: AddDays(start, length-1)}
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Earliest returns the earlier of two dates.
func Earliest(a, b time.Time) time.Time { return earliest(Truncate(a), Truncate(b)) }

// Latest returns the later of two dates.
func Latest(a, b time.Time) time.Time { return latest(Truncate(a), Truncate(b)) }
