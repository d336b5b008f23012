// Package compliance evaluates a stay ledger against a jurisdiction's policy.
//
// Every entry point is a pure function of (policy, ledger, reference date):
// no clock reads, no I/O, no shared mutable state. A Calculator may be used
// from any number of goroutines.
package compliance

import (
	"time"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/ledger"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

// PolicySource resolves the effective policy for a jurisdiction and nationality.
type PolicySource interface {
	GetPolicy(code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, bool)
}

// Option adjusts a single evaluation.
type Option func(*evalOptions)

type evalOptions struct {
	authorizationIssued *time.Time
}

// WithAuthorizationIssued anchors visa-validity periods at the date the
// traveler's authorization was issued. Without it the period opens on the
// first entry, like an entry-anchored policy.
func WithAuthorizationIssued(issued time.Time) Option {
	return func(o *evalOptions) {
		d := datewindow.Truncate(issued)
		o.authorizationIssued = &d
	}
}

// Calculator evaluates ledgers against policies from a PolicySource.
type Calculator struct {
	policies PolicySource
}

// New creates a Calculator.
func New(policies PolicySource) *Calculator {
	return &Calculator{policies: policies}
}

// Evaluate computes the status, violations and integrity issues for one
// jurisdiction as of ref. The boolean is false when no policy exists for code.
func (c *Calculator) Evaluate(l *ledger.Ledger, code id.JurisdictionCode, nationality id.Nationality, ref time.Time, opts ...Option) (*models.CountryResult, bool) {
	p, ok := c.policies.GetPolicy(code, nationality)
	if !ok {
		return nil, false
	}
	return EvaluatePolicy(p, l, ref, opts...), true
}

// Policy exposes the effective policy lookup.
func (c *Calculator) Policy(code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, bool) {
	return c.policies.GetPolicy(code, nationality)
}

// EvaluatePolicy evaluates l against an already resolved policy.
func EvaluatePolicy(p models.StayPolicy, l *ledger.Ledger, ref time.Time, opts ...Option) *models.CountryResult {
	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}
	ref = datewindow.Truncate(ref)
	records := l.RecordsFor(p.JurisdictionCode)
	strat := strategyFor(p, o)

	return &models.CountryResult{
		Policy:          p,
		Status:          status(p, strat, records, ref),
		Violations:      detectViolations(p, strat, o, records, ref),
		IntegrityIssues: l.ValidateFor(p.JurisdictionCode),
	}
}

// Status is EvaluatePolicy without violation detection.
func Status(p models.StayPolicy, l *ledger.Ledger, ref time.Time, opts ...Option) models.StayStatus {
	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}
	ref = datewindow.Truncate(ref)
	return status(p, strategyFor(p, o), l.RecordsFor(p.JurisdictionCode), ref)
}

func status(p models.StayPolicy, strat strategy, records []models.StayRecord, ref time.Time) models.StayStatus {
	maxDays := p.Cap()
	u := strat.usage(records, ref)

	st := models.StayStatus{
		JurisdictionCode: p.JurisdictionCode,
		ReferenceDate:    ref,
		DaysUsed:         u.daysUsed,
		DaysRemaining:    max(0, maxDays-u.daysUsed),
		MaxAllowedDays:   maxDays,
		WarningLevel:     models.LevelFor(u.daysUsed, maxDays),
	}
	if u.period != nil {
		start, end := u.period.Start, u.period.End
		st.CurrentPeriodStart = &start
		st.CurrentPeriodEnd = &end
	}
	if st.AtOrOverCap() {
		st.NextAvailableDate = notBefore(strat.nextAvailable(records, ref, u), datewindow.AddDays(ref, 1))
	}
	return st
}

// notBefore clamps d to floor; nil stays nil.
func notBefore(d *time.Time, floor time.Time) *time.Time {
	if d == nil {
		return nil
	}
	if d.Before(floor) {
		return &floor
	}
	return d
}
