package handler

import (
	"time"

	"sojourn/internal/stay/models"
	"sojourn/internal/stay/recommend"
	"sojourn/internal/stay/trip"
)

// PolicyResponse describes a jurisdiction's effective rule.
type PolicyResponse struct {
	JurisdictionCode    string `json:"jurisdiction_code"`
	JurisdictionName    string `json:"jurisdiction_name"`
	CalculationMethod   string `json:"calculation_method"`
	MaxDaysPerStay      *int   `json:"max_days_per_stay,omitempty"`
	MaxDaysPerPeriod    *int   `json:"max_days_per_period,omitempty"`
	PeriodLengthDays    *int   `json:"period_length_days,omitempty"`
	MinDaysBetweenStays *int   `json:"min_days_between_stays,omitempty"`
	Description         string `json:"description,omitempty"`
}

// PolicyListResponse is the HTTP response for GET /policies.
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// RecordResponse is one stay.
type RecordResponse struct {
	ID               string  `json:"id"`
	JurisdictionCode string  `json:"jurisdiction_code"`
	EntryDate        string  `json:"entry_date"`
	ExitDate         *string `json:"exit_date,omitempty"`
	Ongoing          bool    `json:"ongoing"`
}

// RecordListResponse is the HTTP response for GET /travelers/{travelerID}/stays.
type RecordListResponse struct {
	Stays []RecordResponse `json:"stays"`
}

// StatusBody is the computed allowance for one jurisdiction.
type StatusBody struct {
	JurisdictionCode   string  `json:"jurisdiction_code"`
	ReferenceDate      string  `json:"reference_date"`
	DaysUsed           int     `json:"days_used"`
	DaysRemaining      int     `json:"days_remaining"`
	MaxAllowedDays     int     `json:"max_allowed_days"`
	CurrentPeriodStart *string `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *string `json:"current_period_end,omitempty"`
	WarningLevel       string  `json:"warning_level"`
	NextAvailableDate  *string `json:"next_available_date,omitempty"`
}

// ViolationResponse is one detected breach.
type ViolationResponse struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	OccurredAt string `json:"occurred_at"`
	DaysOver   int    `json:"days_over"`
	RecordID   string `json:"record_id"`
}

// IntegrityIssueResponse flags a record evaluated with caveats.
type IntegrityIssueResponse struct {
	RecordID string `json:"record_id"`
	Kind     string `json:"kind"`
	Detail   string `json:"detail"`
}

// StatusResponse is the HTTP response for GET /travelers/{travelerID}/status/{code}.
type StatusResponse struct {
	Policy          PolicyResponse           `json:"policy"`
	Status          StatusBody               `json:"status"`
	Violations      []ViolationResponse      `json:"violations"`
	IntegrityIssues []IntegrityIssueResponse `json:"integrity_issues,omitempty"`
	Recommendations []string                 `json:"recommendations"`
}

// OverviewResponse is the HTTP response for GET /travelers/{travelerID}/overview.
type OverviewResponse struct {
	ReferenceDate string           `json:"reference_date"`
	Jurisdictions []StatusResponse `json:"jurisdictions"`
}

// TripResponse is the HTTP response for POST .../trips/validate.
type TripResponse struct {
	IsValid           bool       `json:"is_valid"`
	Warnings          []string   `json:"warnings"`
	ProjectedDaysUsed int        `json:"projected_days_used"`
	Status            StatusBody `json:"status"`
}

func FromPolicy(p models.StayPolicy) PolicyResponse {
	return PolicyResponse{
		JurisdictionCode:    p.JurisdictionCode.String(),
		JurisdictionName:    p.JurisdictionName,
		CalculationMethod:   p.CalculationMethod.String(),
		MaxDaysPerStay:      p.MaxDaysPerStay,
		MaxDaysPerPeriod:    p.MaxDaysPerPeriod,
		PeriodLengthDays:    p.PeriodLengthDays,
		MinDaysBetweenStays: p.MinDaysBetweenStays,
		Description:         p.Description,
	}
}

func FromPolicies(policies []models.StayPolicy) *PolicyListResponse {
	out := &PolicyListResponse{Policies: make([]PolicyResponse, 0, len(policies))}
	for _, p := range policies {
		out.Policies = append(out.Policies, FromPolicy(p))
	}
	return out
}

func FromRecord(r *models.StayRecord) RecordResponse {
	return RecordResponse{
		ID:               r.ID.String(),
		JurisdictionCode: r.JurisdictionCode.String(),
		EntryDate:        formatDate(r.EntryDate),
		ExitDate:         formatDatePtr(r.ExitDate),
		Ongoing:          r.IsOpen(),
	}
}

func FromRecords(records []models.StayRecord) *RecordListResponse {
	out := &RecordListResponse{Stays: make([]RecordResponse, 0, len(records))}
	for i := range records {
		out.Stays = append(out.Stays, FromRecord(&records[i]))
	}
	return out
}

func FromStatus(s models.StayStatus) StatusBody {
	return StatusBody{
		JurisdictionCode:   s.JurisdictionCode.String(),
		ReferenceDate:      formatDate(s.ReferenceDate),
		DaysUsed:           s.DaysUsed,
		DaysRemaining:      s.DaysRemaining,
		MaxAllowedDays:     s.MaxAllowedDays,
		CurrentPeriodStart: formatDatePtr(s.CurrentPeriodStart),
		CurrentPeriodEnd:   formatDatePtr(s.CurrentPeriodEnd),
		WarningLevel:       string(s.WarningLevel),
		NextAvailableDate:  formatDatePtr(s.NextAvailableDate),
	}
}

// FromCountryResult converts an evaluation and attaches guidance text.
func FromCountryResult(res *models.CountryResult) StatusResponse {
	out := StatusResponse{
		Policy:          FromPolicy(res.Policy),
		Status:          FromStatus(res.Status),
		Violations:      make([]ViolationResponse, 0, len(res.Violations)),
		Recommendations: recommend.Generate(res.Status, res.Violations),
	}
	for _, v := range res.Violations {
		out.Violations = append(out.Violations, ViolationResponse{
			Type:       string(v.Type),
			Severity:   string(v.Severity),
			OccurredAt: formatDate(v.OccurredAt),
			DaysOver:   v.DaysOver,
			RecordID:   v.RecordID.String(),
		})
	}
	for _, issue := range res.IntegrityIssues {
		out.IntegrityIssues = append(out.IntegrityIssues, IntegrityIssueResponse{
			RecordID: issue.RecordID.String(),
			Kind:     string(issue.Kind),
			Detail:   issue.Detail,
		})
	}
	return out
}

func FromOverview(ref time.Time, results []*models.CountryResult) *OverviewResponse {
	out := &OverviewResponse{
		ReferenceDate: formatDate(ref),
		Jurisdictions: make([]StatusResponse, 0, len(results)),
	}
	for _, res := range results {
		out.Jurisdictions = append(out.Jurisdictions, FromCountryResult(res))
	}
	return out
}

func FromTrip(res *trip.Result) *TripResponse {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &TripResponse{
		IsValid:           res.IsValid,
		Warnings:          warnings,
		ProjectedDaysUsed: res.ProjectedDaysUsed,
		Status:            FromStatus(res.Status),
	}
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
