package models

import (
	"fmt"

	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// CalculationMethod selects the legal "clock" that bounds presence in a jurisdiction.
type CalculationMethod string

const (
	// MethodRollingWindow: at most MaxDaysPerPeriod days in any PeriodLengthDays
	// window ending on the evaluation date (e.g. 90 in any 180).
	MethodRollingWindow CalculationMethod = "rolling_window"
	// MethodCalendarYear: at most MaxDaysPerPeriod days between Jan 1 and Dec 31,
	// with an optional MaxDaysPerStay cap on each stay.
	MethodCalendarYear CalculationMethod = "calendar_year"
	// MethodPerEntry: each stay is capped at MaxDaysPerStay; nothing accumulates.
	MethodPerEntry CalculationMethod = "per_entry"
	// MethodEntryAnchoredAnnual: the period opens on the first entry and runs
	// PeriodLengthDays; the next entry after it closes opens a new period.
	MethodEntryAnchoredAnnual CalculationMethod = "entry_anchored_annual"
	// MethodVisaValidity: the period opens on the authorization issuance date
	// supplied by the caller.
	MethodVisaValidity CalculationMethod = "visa_validity"
	// MethodCustom is evaluated like MethodEntryAnchoredAnnual.
	MethodCustom CalculationMethod = "custom"
)

// IsValid checks if the method is one of the supported enum values.
func (m CalculationMethod) IsValid() bool {
	switch m {
	case MethodRollingWindow, MethodCalendarYear, MethodPerEntry,
		MethodEntryAnchoredAnnual, MethodVisaValidity, MethodCustom:
		return true
	}
	return false
}

// IsWindowed reports whether the method accumulates days over a period.
func (m CalculationMethod) IsWindowed() bool {
	return m.IsValid() && m != MethodPerEntry
}

func (m CalculationMethod) String() string {
	return string(m)
}

// StayPolicy identifies a jurisdiction and the rule bounding presence there.
//
// Invariants:
//   - windowed methods require PeriodLengthDays and MaxDaysPerPeriod
//   - MethodPerEntry requires MaxDaysPerStay
//   - every limit that is set is positive
//
// Policies are immutable reference data; Overrides is a sparse per-nationality
// patch merged by the registry.
type StayPolicy struct {
	JurisdictionCode    id.JurisdictionCode `json:"jurisdiction_code" yaml:"code"`
	JurisdictionName    string              `json:"jurisdiction_name" yaml:"name"`
	CalculationMethod   CalculationMethod   `json:"calculation_method" yaml:"method"`
	MaxDaysPerStay      *int                `json:"max_days_per_stay,omitempty" yaml:"max_days_per_stay,omitempty"`
	MaxDaysPerPeriod    *int                `json:"max_days_per_period,omitempty" yaml:"max_days_per_period,omitempty"`
	PeriodLengthDays    *int                `json:"period_length_days,omitempty" yaml:"period_length_days,omitempty"`
	MinDaysBetweenStays *int                `json:"min_days_between_stays,omitempty" yaml:"min_days_between_stays,omitempty"`
	Description         string              `json:"description,omitempty" yaml:"description,omitempty"`

	Overrides map[id.Nationality]PolicyOverride `json:"-" yaml:"overrides,omitempty"`
}

// PolicyOverride replaces the fields it sets; nil/empty fields keep the base value.
type PolicyOverride struct {
	CalculationMethod   CalculationMethod `yaml:"method,omitempty"`
	MaxDaysPerStay      *int              `yaml:"max_days_per_stay,omitempty"`
	MaxDaysPerPeriod    *int              `yaml:"max_days_per_period,omitempty"`
	PeriodLengthDays    *int              `yaml:"period_length_days,omitempty"`
	MinDaysBetweenStays *int              `yaml:"min_days_between_stays,omitempty"`
	Description         string            `yaml:"description,omitempty"`
}

// Validate enforces the policy invariants.
func (p StayPolicy) Validate() error {
	if p.JurisdictionCode == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "jurisdiction code cannot be empty")
	}
	if !p.CalculationMethod.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s: unknown calculation method %q", p.JurisdictionCode, p.CalculationMethod))
	}
	limits := []struct {
		name  string
		value *int
	}{
		{"max_days_per_stay", p.MaxDaysPerStay},
		{"max_days_per_period", p.MaxDaysPerPeriod},
		{"period_length_days", p.PeriodLengthDays},
		{"min_days_between_stays", p.MinDaysBetweenStays},
	}
	for _, l := range limits {
		if l.value != nil && *l.value <= 0 {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("%s: %s must be positive", p.JurisdictionCode, l.name))
		}
	}
	if p.CalculationMethod == MethodPerEntry {
		if p.MaxDaysPerStay == nil {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("%s: per_entry requires max_days_per_stay", p.JurisdictionCode))
		}
		return nil
	}
	if p.PeriodLengthDays == nil || p.MaxDaysPerPeriod == nil {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s: %s requires period_length_days and max_days_per_period", p.JurisdictionCode, p.CalculationMethod))
	}
	if *p.MaxDaysPerPeriod > *p.PeriodLengthDays {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s: max_days_per_period cannot exceed period_length_days", p.JurisdictionCode))
	}
	return nil
}

// Cap is the effective limit the usage ratio is measured against.
func (p StayPolicy) Cap() int {
	if p.CalculationMethod == MethodPerEntry {
		return deref(p.MaxDaysPerStay)
	}
	return deref(p.MaxDaysPerPeriod)
}

// PeriodLength returns PeriodLengthDays or 0 when unset.
func (p StayPolicy) PeriodLength() int {
	return deref(p.PeriodLengthDays)
}

// StayCap returns MaxDaysPerStay and whether it is set.
func (p StayPolicy) StayCap() (int, bool) {
	if p.MaxDaysPerStay == nil {
		return 0, false
	}
	return *p.MaxDaysPerStay, true
}

// MinGap returns MinDaysBetweenStays and whether it is set.
func (p StayPolicy) MinGap() (int, bool) {
	if p.MinDaysBetweenStays == nil {
		return 0, false
	}
	return *p.MinDaysBetweenStays, true
}

// WithOverride returns a copy of p with o merged over it. The returned policy
// carries no overrides of its own.
func (p StayPolicy) WithOverride(o PolicyOverride) StayPolicy {
	merged := p
	merged.Overrides = nil
	if o.CalculationMethod != "" {
		merged.CalculationMethod = o.CalculationMethod
	}
	if o.MaxDaysPerStay != nil {
		merged.MaxDaysPerStay = intPtr(*o.MaxDaysPerStay)
	}
	if o.MaxDaysPerPeriod != nil {
		merged.MaxDaysPerPeriod = intPtr(*o.MaxDaysPerPeriod)
	}
	if o.PeriodLengthDays != nil {
		merged.PeriodLengthDays = intPtr(*o.PeriodLengthDays)
	}
	if o.MinDaysBetweenStays != nil {
		merged.MinDaysBetweenStays = intPtr(*o.MinDaysBetweenStays)
	}
	if o.Description != "" {
		merged.Description = o.Description
	}
	return merged
}

// Days is a convenience for building optional limits in catalogues and tests.
func Days(n int) *int {
	return intPtr(n)
}

func intPtr(n int) *int {
	return &n
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
