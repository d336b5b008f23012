package models

import (
	"time"

	"sojourn/internal/stay/datewindow"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// StayRecord is one visit to a jurisdiction.
//
// Invariants:
//   - EntryDate and ExitDate are calendar dates (midnight UTC)
//   - EntryDate <= ExitDate when ExitDate is set
//   - ExitDate nil means the traveler is still present
//   - the only mutation after creation is setting ExitDate once
//
// Records in one jurisdiction must not overlap; that invariant spans records
// and is checked by the ledger, not here.
type StayRecord struct {
	ID               id.RecordID         `json:"id"`
	TravelerID       id.TravelerID       `json:"traveler_id"`
	JurisdictionCode id.JurisdictionCode `json:"jurisdiction_code"`
	EntryDate        time.Time           `json:"entry_date"`
	ExitDate         *time.Time          `json:"exit_date,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// NewStayRecord logs an entry. exit may be nil for an ongoing stay.
func NewStayRecord(travelerID id.TravelerID, code id.JurisdictionCode, entry time.Time, exit *time.Time, now time.Time) (*StayRecord, error) {
	if travelerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "traveler_id cannot be empty")
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "jurisdiction code cannot be empty")
	}
	if entry.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entry date is required")
	}
	r := &StayRecord{
		ID:               id.NewRecordID(),
		TravelerID:       travelerID,
		JurisdictionCode: code,
		EntryDate:        datewindow.Truncate(entry),
		CreatedAt:        now,
	}
	if exit != nil {
		if err := r.RecordExit(*exit); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// IsOpen reports whether the traveler is still present.
func (r *StayRecord) IsOpen() bool {
	return r.ExitDate == nil
}

// CanRecordExit validates an exit without applying it.
func (r *StayRecord) CanRecordExit(exit time.Time) error {
	if !r.IsOpen() {
		return dErrors.New(dErrors.CodeInvariantViolation, "stay already has an exit date")
	}
	if datewindow.Truncate(exit).Before(r.EntryDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "exit date cannot be before entry date")
	}
	return nil
}

// RecordExit closes the stay.
func (r *StayRecord) RecordExit(exit time.Time) error {
	if err := r.CanRecordExit(exit); err != nil {
		return err
	}
	d := datewindow.Truncate(exit)
	r.ExitDate = &d
	return nil
}

// Span returns the inclusive date range of the stay, substituting asOf for a
// missing exit. The result is inverted (and counts zero days) for a malformed
// record whose exit precedes its entry.
func (r StayRecord) Span(asOf time.Time) datewindow.Range {
	end := asOf
	if r.ExitDate != nil {
		end = *r.ExitDate
	}
	return datewindow.NewRange(r.EntryDate, end)
}

// Duration is the inclusive day count of the stay as of asOf; never negative.
func (r StayRecord) Duration(asOf time.Time) int {
	return r.Span(asOf).Days()
}
