package handler

import (
	"strings"
	"time"

	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// LogEntryRequest is the HTTP request body for POST /travelers/{travelerID}/stays.
type LogEntryRequest struct {
	JurisdictionCode string  `json:"jurisdiction_code"`
	EntryDate        string  `json:"entry_date"`
	ExitDate         *string `json:"exit_date,omitempty"`
	Nationality      string  `json:"nationality,omitempty"`

	// Parsed values (populated by Validate)
	parsedCode        id.JurisdictionCode
	parsedEntry       time.Time
	parsedExit        *time.Time
	parsedNationality id.Nationality
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *LogEntryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	code, err := id.ParseJurisdictionCode(r.JurisdictionCode)
	if err != nil {
		return err
	}
	r.parsedCode = code

	if r.parsedEntry, err = parseDate("entry_date", r.EntryDate); err != nil {
		return err
	}
	if r.ExitDate != nil {
		exit, err := parseDate("exit_date", *r.ExitDate)
		if err != nil {
			return err
		}
		if exit.Before(r.parsedEntry) {
			return dErrors.New(dErrors.CodeValidation, "exit_date cannot be before entry_date")
		}
		r.parsedExit = &exit
	}

	r.parsedNationality, err = id.ParseNationality(r.Nationality)
	return err
}

func (r *LogEntryRequest) ParsedCode() id.JurisdictionCode   { return r.parsedCode }
func (r *LogEntryRequest) ParsedEntryDate() time.Time        { return r.parsedEntry }
func (r *LogEntryRequest) ParsedExitDate() *time.Time        { return r.parsedExit }
func (r *LogEntryRequest) ParsedNationality() id.Nationality { return r.parsedNationality }

// LogExitRequest is the HTTP request body for POST .../stays/{recordID}/exit.
type LogExitRequest struct {
	ExitDate    string `json:"exit_date"`
	Nationality string `json:"nationality,omitempty"`

	parsedExit        time.Time
	parsedNationality id.Nationality
}

// Validate validates and parses the request.
func (r *LogExitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.parsedExit, err = parseDate("exit_date", r.ExitDate); err != nil {
		return err
	}
	r.parsedNationality, err = id.ParseNationality(r.Nationality)
	return err
}

func (r *LogExitRequest) ParsedExitDate() time.Time         { return r.parsedExit }
func (r *LogExitRequest) ParsedNationality() id.Nationality { return r.parsedNationality }

// ValidateTripRequest is the HTTP request body for POST .../trips/validate.
type ValidateTripRequest struct {
	JurisdictionCode    string  `json:"jurisdiction_code"`
	PlannedEntry        string  `json:"planned_entry"`
	PlannedExit         string  `json:"planned_exit"`
	Nationality         string  `json:"nationality,omitempty"`
	AuthorizationIssued *string `json:"authorization_issued,omitempty"`

	parsedCode        id.JurisdictionCode
	parsedEntry       time.Time
	parsedExit        time.Time
	parsedNationality id.Nationality
	parsedIssued      *time.Time
}

// Validate validates and parses the request. An exit before the entry is
// accepted here; the trip validator reports it as an invalid trip.
func (r *ValidateTripRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	code, err := id.ParseJurisdictionCode(r.JurisdictionCode)
	if err != nil {
		return err
	}
	r.parsedCode = code

	if r.parsedEntry, err = parseDate("planned_entry", r.PlannedEntry); err != nil {
		return err
	}
	if r.parsedExit, err = parseDate("planned_exit", r.PlannedExit); err != nil {
		return err
	}
	if r.AuthorizationIssued != nil {
		issued, err := parseDate("authorization_issued", *r.AuthorizationIssued)
		if err != nil {
			return err
		}
		r.parsedIssued = &issued
	}

	r.parsedNationality, err = id.ParseNationality(r.Nationality)
	return err
}

func (r *ValidateTripRequest) ParsedCode() id.JurisdictionCode       { return r.parsedCode }
func (r *ValidateTripRequest) ParsedPlannedEntry() time.Time         { return r.parsedEntry }
func (r *ValidateTripRequest) ParsedPlannedExit() time.Time          { return r.parsedExit }
func (r *ValidateTripRequest) ParsedNationality() id.Nationality     { return r.parsedNationality }
func (r *ValidateTripRequest) ParsedAuthorizationIssued() *time.Time { return r.parsedIssued }

// parseDate accepts YYYY-MM-DD.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
