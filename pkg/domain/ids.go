package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "sojourn/pkg/domain-errors"
)

// TravelerID identifies the person whose stays are tracked.
type TravelerID uuid.UUID

// RecordID identifies one stay record.
type RecordID uuid.UUID

// NewRecordID returns a fresh random RecordID.
func NewRecordID() RecordID {
	return RecordID(uuid.New())
}

// NewTravelerID returns a fresh random TravelerID.
func NewTravelerID() TravelerID {
	return TravelerID(uuid.New())
}

func (t TravelerID) String() string { return uuid.UUID(t).String() }
func (t TravelerID) IsNil() bool    { return uuid.UUID(t) == uuid.Nil }
func (r RecordID) String() string   { return uuid.UUID(r).String() }
func (r RecordID) IsNil() bool      { return uuid.UUID(r) == uuid.Nil }

func (t TravelerID) MarshalText() ([]byte, error) { return uuid.UUID(t).MarshalText() }
func (r RecordID) MarshalText() ([]byte, error)   { return uuid.UUID(r).MarshalText() }

func (t *TravelerID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(t).UnmarshalText(b)
}

func (r *RecordID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(r).UnmarshalText(b)
}

// ParseTravelerID parses a non-nil UUID.
func ParseTravelerID(s string) (TravelerID, error) {
	u, err := parseUUID(s, "traveler_id")
	return TravelerID(u), err
}

// ParseRecordID parses a non-nil UUID.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record_id")
	return RecordID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}

// JurisdictionCode names an area whose presence rules apply as one unit, such
// as a country ("TH") or a treaty zone ("SCHENGEN").
// Invariant: upper-case ASCII letters and underscores, 2 to 16 characters.
type JurisdictionCode string

// ParseJurisdictionCode normalises to upper case and validates the shape.
func ParseJurisdictionCode(s string) (JurisdictionCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code is required")
	}
	if len(code) < 2 || len(code) > 16 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code must be 2 to 16 characters")
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && r != '_' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code must contain only letters and underscores")
		}
	}
	return JurisdictionCode(code), nil
}

func (c JurisdictionCode) String() string { return string(c) }

// Nationality is an ISO 3166-1 alpha-2 or alpha-3 country code. The zero value
// means "unknown" and selects the base policy.
type Nationality string

// ParseNationality accepts an empty string (unknown) or 2-3 ASCII letters.
func ParseNationality(s string) (Nationality, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	if n == "" {
		return "", nil
	}
	if len(n) < 2 || len(n) > 3 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nationality must be a 2 or 3 letter country code")
	}
	for _, r := range n {
		if r < 'A' || r > 'Z' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "nationality must contain only letters")
		}
	}
	return Nationality(n), nil
}

func (n Nationality) String() string { return string(n) }
