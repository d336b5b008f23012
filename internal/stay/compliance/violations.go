package compliance

import (
	"sort"
	"time"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
)

// detectViolations scans history up to ref. Records entering after ref are
// planned travel, not history, and are ignored.
func detectViolations(p models.StayPolicy, strat strategy, o evalOptions, records []models.StayRecord, ref time.Time) []models.StayViolation {
	history := make([]models.StayRecord, 0, len(records))
	for _, r := range records {
		if r.EntryDate.After(ref) || !r.Span(ref).Valid() {
			continue
		}
		history = append(history, r)
	}

	var out []models.StayViolation
	if p.CalculationMethod.IsWindowed() {
		out = append(out, periodBreaches(p, strat, history, ref)...)
	}
	if stayCap, ok := p.StayCap(); ok {
		out = append(out, stayBreaches(stayCap, history, ref)...)
	}
	if gap, ok := p.MinGap(); ok {
		out = append(out, gapBreaches(gap, history)...)
	}
	if p.CalculationMethod == models.MethodVisaValidity && o.authorizationIssued != nil {
		validity := datewindow.Leading(*o.authorizationIssued, p.PeriodLength())
		out = append(out, validityBreaches(p.Cap(), validity, history, ref)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// periodBreaches re-runs the strategy as of each stay's last day and reports
// the stays during which the period cap was exceeded. A stay that outlives
// its period is also checked on the last day of every fixed period it
// crosses, so a year-end crossing cannot hide the earlier year's total.
// Rolling windows end on the evaluation date and have no such boundary.
func periodBreaches(p models.StayPolicy, strat strategy, history []models.StayRecord, ref time.Time) []models.StayViolation {
	maxDays := p.Cap()
	var out []models.StayViolation
	report := func(r models.StayRecord, u usage, occurred time.Time) {
		if u.daysUsed <= maxDays {
			return
		}
		out = append(out, models.StayViolation{
			Type:       models.ViolationExceedsLimit,
			Severity:   models.SeverityFor(u.daysUsed, maxDays),
			OccurredAt: occurred,
			DaysOver:   u.daysUsed - maxDays,
			RecordID:   r.ID,
		})
	}

	_, sliding := strat.(rollingWindow)
	for _, r := range history {
		last := lastDay(r, ref)
		crossed := map[int64]bool{}
		for day := r.EntryDate; !sliding; {
			u := strat.usage(history, day)
			if u.period == nil || u.period.End.Before(day) || !u.period.End.Before(last) {
				break
			}
			closing := u.period.End
			report(r, strat.usage(history, closing), laterOf(r.EntryDate, u.period.Start))
			crossed[u.period.Start.Unix()] = true
			day = datewindow.AddDays(closing, 1)
		}

		u := strat.usage(history, last)
		if len(crossed) == 0 {
			report(r, u, r.EntryDate)
			continue
		}
		if u.period == nil || crossed[u.period.Start.Unix()] {
			continue
		}
		report(r, u, laterOf(r.EntryDate, u.period.Start))
	}
	return out
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// stayBreaches compares each single stay with the per-stay cap.
func stayBreaches(stayCap int, history []models.StayRecord, ref time.Time) []models.StayViolation {
	var out []models.StayViolation
	for _, r := range history {
		days := datewindow.DaysBetweenInclusive(r.EntryDate, lastDay(r, ref))
		if days <= stayCap {
			continue
		}
		out = append(out, models.StayViolation{
			Type:       models.ViolationOverstay,
			Severity:   models.SeverityFor(days, stayCap),
			OccurredAt: r.EntryDate,
			DaysOver:   days - stayCap,
			RecordID:   r.ID,
		})
	}
	return out
}

// gapBreaches reports re-entries that came before minGap full days outside
// the jurisdiction had passed.
func gapBreaches(minGap int, history []models.StayRecord) []models.StayViolation {
	var out []models.StayViolation
	for i := 1; i < len(history); i++ {
		prev, next := history[i-1], history[i]
		if prev.ExitDate == nil || !next.EntryDate.After(*prev.ExitDate) {
			continue // overlapping; reported as an integrity issue
		}
		gap := datewindow.DaysBetweenInclusive(*prev.ExitDate, next.EntryDate) - 2
		if gap >= minGap {
			continue
		}
		out = append(out, models.StayViolation{
			Type:       models.ViolationTooFrequent,
			Severity:   models.SeverityMinor,
			OccurredAt: next.EntryDate,
			DaysOver:   minGap - gap,
			RecordID:   next.ID,
		})
	}
	return out
}

// validityBreaches reports presence after the authorization lapsed.
func validityBreaches(maxDays int, validity datewindow.Range, history []models.StayRecord, ref time.Time) []models.StayViolation {
	var out []models.StayViolation
	after := datewindow.NewRange(datewindow.AddDays(validity.End, 1), ref)
	for _, r := range history {
		lapsed, ok := datewindow.Intersect(datewindow.NewRange(r.EntryDate, lastDay(r, ref)), after)
		if !ok {
			continue
		}
		out = append(out, models.StayViolation{
			Type:       models.ViolationOverstay,
			Severity:   models.SeverityFor(maxDays+lapsed.Days(), maxDays),
			OccurredAt: lapsed.Start,
			DaysOver:   lapsed.Days(),
			RecordID:   r.ID,
		})
	}
	return out
}

// lastDay is the stay's exit, or ref when the stay is open or exits later.
func lastDay(r models.StayRecord, ref time.Time) time.Time {
	if r.ExitDate == nil || r.ExitDate.After(ref) {
		return ref
	}
	return *r.ExitDate
}
