package compliance

import (
	"time"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
)

// usage is the outcome of one strategy run as of a given date.
type usage struct {
	daysUsed int
	period   *datewindow.Range
}

// strategy is one legal clock. Implementations are small and share the
// clipping primitive; records are always ascending by entry date.
type strategy interface {
	usage(records []models.StayRecord, asOf time.Time) usage
	// nextAvailable is consulted only when u.daysUsed has reached the cap.
	// Nil means the date cannot be determined.
	nextAvailable(records []models.StayRecord, asOf time.Time, u usage) *time.Time
}

// strategyFor dispatches on the calculation method.
func strategyFor(p models.StayPolicy, o evalOptions) strategy {
	switch p.CalculationMethod {
	case models.MethodRollingWindow:
		return rollingWindow{length: p.PeriodLength(), cap: p.Cap()}
	case models.MethodCalendarYear:
		return calendarYear{}
	case models.MethodPerEntry:
		return perEntry{}
	case models.MethodVisaValidity:
		if o.authorizationIssued != nil {
			return visaValidity{validity: datewindow.Leading(*o.authorizationIssued, p.PeriodLength())}
		}
		return entryAnchored{length: p.PeriodLength()}
	default:
		return entryAnchored{length: p.PeriodLength()}
	}
}

// clippedDays sums the days of records that fall inside window and on or
// before asOf. Open stays run to asOf. Malformed records contribute nothing.
func clippedDays(records []models.StayRecord, window datewindow.Range, asOf time.Time) int {
	total := 0
	for _, r := range records {
		total += clippedRecordDays(r, window, asOf)
	}
	return total
}

func clippedRecordDays(r models.StayRecord, window datewindow.Range, asOf time.Time) int {
	span := r.Span(asOf)
	if span.End.After(asOf) {
		span.End = datewindow.Truncate(asOf)
	}
	overlap, ok := datewindow.Intersect(span, window)
	if !ok {
		return 0
	}
	return overlap.Days()
}

// -----------------------------------------------------------------------------
// Rolling window
// -----------------------------------------------------------------------------

type rollingWindow struct {
	length int
	cap    int
}

func (s rollingWindow) usage(records []models.StayRecord, asOf time.Time) usage {
	window := datewindow.Trailing(asOf, s.length)
	return usage{daysUsed: clippedDays(records, window, asOf), period: &window}
}

// nextAvailable walks contributing stays from the earliest, removing each
// one's in-window days until usage drops below the cap. The window must slide
// past that stay's entry day, so the answer is entry + length + 1. A single
// stay spanning the whole period cannot age out this way.
func (s rollingWindow) nextAvailable(records []models.StayRecord, asOf time.Time, u usage) *time.Time {
	if u.period == nil {
		return nil
	}
	removed := 0
	for _, r := range records {
		days := clippedRecordDays(r, *u.period, asOf)
		if days == 0 {
			continue
		}
		removed += days
		if u.daysUsed-removed >= s.cap {
			continue
		}
		if r.Duration(asOf) >= s.length {
			return nil
		}
		next := datewindow.AddDays(r.EntryDate, s.length+1)
		return &next
	}
	return nil
}

// -----------------------------------------------------------------------------
// Calendar year
// -----------------------------------------------------------------------------

type calendarYear struct{}

func (calendarYear) usage(records []models.StayRecord, asOf time.Time) usage {
	year := datewindow.YearOf(asOf)
	return usage{daysUsed: clippedDays(records, year, asOf), period: &year}
}

// The annual balance resets on Jan 1.
func (calendarYear) nextAvailable(_ []models.StayRecord, asOf time.Time, _ usage) *time.Time {
	next := datewindow.Date(datewindow.Truncate(asOf).Year()+1, time.January, 1)
	return &next
}

// -----------------------------------------------------------------------------
// Per entry
// -----------------------------------------------------------------------------

type perEntry struct{}

// usage counts only the stay in progress on asOf; leaving resets it to zero.
func (perEntry) usage(records []models.StayRecord, asOf time.Time) usage {
	asOf = datewindow.Truncate(asOf)
	used := 0
	for _, r := range records {
		if r.EntryDate.After(asOf) {
			break
		}
		if r.Span(asOf).Contains(asOf) {
			used = datewindow.DaysBetweenInclusive(r.EntryDate, asOf)
		}
	}
	return usage{daysUsed: used}
}

func (perEntry) nextAvailable([]models.StayRecord, time.Time, usage) *time.Time {
	return nil
}

// -----------------------------------------------------------------------------
// Entry anchored (annual and custom)
// -----------------------------------------------------------------------------

type entryAnchored struct {
	length int
}

// cycle finds the period containing asOf. The first stay opens a period of
// length days; the first entry after it closes opens the next one. Presence
// that carries on past the end of a period opens the next period the day
// after, so an unbroken stay never falls between cycles.
func (s entryAnchored) cycle(records []models.StayRecord, asOf time.Time) (datewindow.Range, bool) {
	asOf = datewindow.Truncate(asOf)
	var current *datewindow.Range
	carry := func(until time.Time) {
		for current != nil && current.End.Before(until) {
			next := datewindow.AddDays(current.End, 1)
			if !presentOn(records, next, asOf) {
				return
			}
			w := datewindow.Leading(next, s.length)
			current = &w
		}
	}
	for _, r := range records {
		if r.EntryDate.After(asOf) {
			break
		}
		if !r.Span(asOf).Valid() {
			continue
		}
		carry(r.EntryDate)
		if current == nil || r.EntryDate.After(current.End) {
			w := datewindow.Leading(r.EntryDate, s.length)
			current = &w
		}
	}
	carry(asOf)
	if current == nil || asOf.After(current.End) {
		return datewindow.Range{}, false
	}
	return *current, true
}

// presentOn reports whether any well-formed stay covers day, counting open
// stays up to asOf.
func presentOn(records []models.StayRecord, day, asOf time.Time) bool {
	if day.After(asOf) {
		return false
	}
	for _, r := range records {
		if r.EntryDate.After(day) {
			break
		}
		span := r.Span(asOf)
		if span.Valid() && span.Contains(day) {
			return true
		}
	}
	return false
}

func (s entryAnchored) usage(records []models.StayRecord, asOf time.Time) usage {
	window, ok := s.cycle(records, asOf)
	if !ok {
		return usage{}
	}
	return usage{daysUsed: clippedDays(records, window, asOf), period: &window}
}

// The allowance renews with the first entry after the cycle closes.
func (s entryAnchored) nextAvailable(_ []models.StayRecord, _ time.Time, u usage) *time.Time {
	if u.period == nil {
		return nil
	}
	next := datewindow.AddDays(u.period.End, 1)
	return &next
}

// -----------------------------------------------------------------------------
// Visa validity
// -----------------------------------------------------------------------------

// visaValidity anchors the period at an authorization issuance date supplied
// by the caller.
type visaValidity struct {
	validity datewindow.Range
}

func (s visaValidity) usage(records []models.StayRecord, asOf time.Time) usage {
	window := s.validity
	return usage{daysUsed: clippedDays(records, window, asOf), period: &window}
}

// A fresh authorization is needed; its date is outside the ledger.
func (visaValidity) nextAvailable([]models.StayRecord, time.Time, usage) *time.Time {
	return nil
}
