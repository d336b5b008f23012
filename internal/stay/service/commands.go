package service

import (
	"time"

	"sojourn/internal/stay/compliance"
	id "sojourn/pkg/domain"
)

// StatusQuery selects one jurisdiction evaluation.
type StatusQuery struct {
	TravelerID  id.TravelerID
	Code        id.JurisdictionCode
	Nationality id.Nationality
	// AuthorizationIssued anchors visa-validity policies; ignored by other methods.
	AuthorizationIssued *time.Time
}

// TripQuery describes a planned visit.
type TripQuery struct {
	TravelerID          id.TravelerID
	Code                id.JurisdictionCode
	Nationality         id.Nationality
	PlannedEntry        time.Time
	PlannedExit         time.Time
	AuthorizationIssued *time.Time
}

// EntryCommand logs an arrival. ExitDate may be set when back-filling a
// completed stay.
type EntryCommand struct {
	TravelerID  id.TravelerID
	Code        id.JurisdictionCode
	Nationality id.Nationality
	EntryDate   time.Time
	ExitDate    *time.Time
}

// ExitCommand closes an open stay.
type ExitCommand struct {
	TravelerID  id.TravelerID
	RecordID    id.RecordID
	Nationality id.Nationality
	ExitDate    time.Time
}

func evalOptions(issued *time.Time) []compliance.Option {
	if issued == nil {
		return nil
	}
	return []compliance.Option{compliance.WithAuthorizationIssued(*issued)}
}
