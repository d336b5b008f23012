// Package trip checks a planned visit against a traveler's existing ledger.
package trip

import (
	"fmt"
	"time"

	"sojourn/internal/stay/compliance"
	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/ledger"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

// cautionPercent is the share of the cap above which a valid trip still warns.
const cautionPercent = 80

// Result is the forward-looking verdict for one planned trip.
type Result struct {
	IsValid           bool              `json:"is_valid"`
	Warnings          []string          `json:"warnings"`
	ProjectedDaysUsed int               `json:"projected_days_used"`
	Status            models.StayStatus `json:"status"`
}

// Validator projects planned trips through the compliance calculator.
type Validator struct {
	calc *compliance.Calculator
}

// New creates a Validator.
func New(calc *compliance.Calculator) *Validator {
	return &Validator{calc: calc}
}

// Validate evaluates the ledger plus a temporary record for the trip, as of
// the planned exit. The boolean is false when no policy exists for code. The
// input ledger is never modified.
func (v *Validator) Validate(l *ledger.Ledger, plannedEntry, plannedExit time.Time, code id.JurisdictionCode, nationality id.Nationality, opts ...compliance.Option) (*Result, bool) {
	p, ok := v.calc.Policy(code, nationality)
	if !ok {
		return nil, false
	}
	entry, exit := datewindow.Truncate(plannedEntry), datewindow.Truncate(plannedExit)
	if exit.Before(entry) {
		return &Result{
			Warnings: []string{"Planned exit date is before the planned entry date."},
			Status:   compliance.Status(p, l, entry, opts...),
		}, true
	}

	planned := models.StayRecord{
		ID:               id.NewRecordID(),
		JurisdictionCode: p.JurisdictionCode,
		EntryDate:        entry,
		ExitDate:         &exit,
	}
	res := compliance.EvaluatePolicy(p, l.With(planned), exit, opts...)
	maxDays := p.Cap()
	projected := res.Status.DaysUsed

	out := &Result{
		IsValid:           projected <= maxDays,
		ProjectedDaysUsed: projected,
		Status:            res.Status,
	}
	if projected > maxDays {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("This trip would exceed the limit by %d days (%d of %d).", projected-maxDays, projected, maxDays))
	} else if projected*100 > maxDays*cautionPercent {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("This trip would use %d of %d allowed days.", projected, maxDays))
	}

	for _, existing := range l.RecordsFor(p.JurisdictionCode) {
		if datewindow.Overlaps(existing.Span(exit), datewindow.NewRange(entry, exit)) {
			out.IsValid = false
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("Trip overlaps an existing stay starting %s.", existing.EntryDate.Format(time.DateOnly)))
		}
	}

	for _, violation := range res.Violations {
		if violation.RecordID != planned.ID {
			continue
		}
		switch violation.Type {
		case models.ViolationOverstay:
			out.IsValid = false
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("A single stay is limited; this trip runs %d days over.", violation.DaysOver))
		case models.ViolationExceedsLimit:
			if projected > maxDays {
				continue // already reported against the current period
			}
			out.IsValid = false
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("This trip would push the period ending before %s over the limit by %d days.",
					exit.Format(time.DateOnly), violation.DaysOver))
		case models.ViolationTooFrequent:
			out.IsValid = false
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("Re-entry comes %d days too soon after the previous stay.", violation.DaysOver))
		}
	}
	return out, true
}
