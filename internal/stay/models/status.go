package models

import (
	"time"

	id "sojourn/pkg/domain"
)

// WarningLevel is a four-tier classification of usage against a cap.
// Status values are always computed, never stored.
type WarningLevel string

const (
	LevelSafe    WarningLevel = "safe"    // below 60% of the cap
	LevelCaution WarningLevel = "caution" // 60% or more
	LevelWarning WarningLevel = "warning" // 80% or more
	LevelDanger  WarningLevel = "danger"  // at or over the cap
)

// Rank orders levels from safe (0) to danger (3); unknown levels rank -1.
func (l WarningLevel) Rank() int {
	switch l {
	case LevelSafe:
		return 0
	case LevelCaution:
		return 1
	case LevelWarning:
		return 2
	case LevelDanger:
		return 3
	}
	return -1
}

// LevelFor classifies daysUsed against maxDays. The thresholds are uniform
// across jurisdictions. A non-positive cap is treated as exhausted.
func LevelFor(daysUsed, maxDays int) WarningLevel {
	if maxDays <= 0 {
		return LevelDanger
	}
	// Integer comparisons avoid float rounding at the exact thresholds.
	switch {
	case daysUsed*100 >= maxDays*100:
		return LevelDanger
	case daysUsed*100 >= maxDays*80:
		return LevelWarning
	case daysUsed*100 >= maxDays*60:
		return LevelCaution
	default:
		return LevelSafe
	}
}

// StayStatus is the computed allowance for one jurisdiction on a reference date.
type StayStatus struct {
	JurisdictionCode   id.JurisdictionCode `json:"jurisdiction_code"`
	ReferenceDate      time.Time           `json:"reference_date"`
	DaysUsed           int                 `json:"days_used"`
	DaysRemaining      int                 `json:"days_remaining"`
	MaxAllowedDays     int                 `json:"max_allowed_days"`
	CurrentPeriodStart *time.Time          `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time          `json:"current_period_end,omitempty"`
	WarningLevel       WarningLevel        `json:"warning_level"`
	// NextAvailableDate is set only when DaysUsed >= MaxAllowedDays. Nil in
	// that state means the date cannot be determined, not "available now".
	NextAvailableDate *time.Time `json:"next_available_date,omitempty"`
}

// AtOrOverCap reports whether the allowance is exhausted.
func (s StayStatus) AtOrOverCap() bool {
	return s.DaysUsed >= s.MaxAllowedDays
}

// ViolationType names the rule that was breached.
type ViolationType string

const (
	// ViolationExceedsLimit: cumulative days over a period exceeded the cap.
	ViolationExceedsLimit ViolationType = "exceeds_limit"
	// ViolationTooFrequent: a re-entry came sooner than the required gap.
	ViolationTooFrequent ViolationType = "too_frequent"
	// ViolationOverstay: a single stay exceeded its own cap or authorization.
	ViolationOverstay ViolationType = "overstay"
)

// Severity grades how far over a limit the traveler went.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// SeverityFor grades a breach: critical beyond 120% of the cap, major otherwise.
func SeverityFor(daysUsed, maxDays int) Severity {
	if daysUsed*10 > maxDays*12 {
		return SeverityCritical
	}
	return SeverityMajor
}

// StayViolation is a detected historical breach; derived, never stored.
type StayViolation struct {
	Type       ViolationType `json:"type"`
	Severity   Severity      `json:"severity"`
	OccurredAt time.Time     `json:"occurred_at"`
	DaysOver   int           `json:"days_over"`
	RecordID   id.RecordID   `json:"record_id"`
}

// IntegrityKind classifies malformed ledger data.
type IntegrityKind string

const (
	IntegrityInvertedDates IntegrityKind = "inverted_dates"
	IntegrityOverlap       IntegrityKind = "overlap"
)

// IntegrityIssue reports a record the calculator could not take at face value.
// Inverted records contribute zero days; overlapping records are counted as-is.
type IntegrityIssue struct {
	RecordID id.RecordID   `json:"record_id"`
	Kind     IntegrityKind `json:"kind"`
	Detail   string        `json:"detail"`
}

// CountryResult bundles everything evaluated for one jurisdiction.
type CountryResult struct {
	Policy          StayPolicy       `json:"policy"`
	Status          StayStatus       `json:"status"`
	Violations      []StayViolation  `json:"violations"`
	IntegrityIssues []IntegrityIssue `json:"integrity_issues,omitempty"`
}

// HasIntegrityIssues reports whether the evaluation ran over malformed data.
func (r *CountryResult) HasIntegrityIssues() bool {
	return len(r.IntegrityIssues) > 0
}
