package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sojourn/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
//
// Justification: This is a pure function enforcing a domain invariant
// at trust boundaries.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTravelerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseTravelerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseRecordID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseTravelerID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, TravelerID(validUUID), id)
	})
}

// TestParseID_TrustBoundary validates parsing rules at API entry points.
func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE stay_records;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecordID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseJurisdictionCode(t *testing.T) {
	t.Run("normalises case and whitespace", func(t *testing.T) {
		code, err := ParseJurisdictionCode("  schengen ")
		require.NoError(t, err)
		assert.Equal(t, JurisdictionCode("SCHENGEN"), code)
	})

	t.Run("accepts underscores", func(t *testing.T) {
		code, err := ParseJurisdictionCode("uk_eta")
		require.NoError(t, err)
		assert.Equal(t, JurisdictionCode("UK_ETA"), code)
	})

	for _, input := range []string{"", "X", "TH1", "T H", strings.Repeat("A", 17)} {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := ParseJurisdictionCode(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseNationality(t *testing.T) {
	t.Run("empty means unknown", func(t *testing.T) {
		n, err := ParseNationality("")
		require.NoError(t, err)
		assert.Equal(t, Nationality(""), n)
	})

	t.Run("alpha-2 and alpha-3 accepted", func(t *testing.T) {
		n, err := ParseNationality("us")
		require.NoError(t, err)
		assert.Equal(t, Nationality("US"), n)

		n, err = ParseNationality("GBR")
		require.NoError(t, err)
		assert.Equal(t, Nationality("GBR"), n)
	})

	for _, input := range []string{"U", "USAX", "U1"} {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := ParseNationality(input)
			require.Error(t, err)
		})
	}
}

func TestIDsMarshalAsUUIDStrings(t *testing.T) {
	traveler := NewTravelerID()
	raw, err := json.Marshal(struct {
		TravelerID TravelerID `json:"traveler_id"`
	}{traveler})
	require.NoError(t, err)
	assert.JSONEq(t, `{"traveler_id":"`+traveler.String()+`"}`, string(raw))

	var decoded struct {
		RecordID RecordID `json:"record_id"`
	}
	u := uuid.New()
	require.NoError(t, json.Unmarshal([]byte(`{"record_id":"`+u.String()+`"}`), &decoded))
	assert.Equal(t, RecordID(u), decoded.RecordID)
}
