package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sojourn/internal/stay/datewindow"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// =============================================================================
// Policy Invariants
// =============================================================================

func TestStayPolicy_Validate(t *testing.T) {
	t.Run("rolling window requires period and cap", func(t *testing.T) {
		p := StayPolicy{JurisdictionCode: "SCHENGEN", CalculationMethod: MethodRollingWindow, MaxDaysPerPeriod: Days(90)}
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		p.PeriodLengthDays = Days(180)
		assert.NoError(t, p.Validate())
	})

	t.Run("per entry requires stay cap", func(t *testing.T) {
		p := StayPolicy{JurisdictionCode: "TH", CalculationMethod: MethodPerEntry}
		require.Error(t, p.Validate())

		p.MaxDaysPerStay = Days(45)
		assert.NoError(t, p.Validate())
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		p := StayPolicy{JurisdictionCode: "XX", CalculationMethod: "lunar"}
		assert.Error(t, p.Validate())
	})

	t.Run("non-positive limits rejected", func(t *testing.T) {
		p := StayPolicy{JurisdictionCode: "TH", CalculationMethod: MethodPerEntry, MaxDaysPerStay: Days(0)}
		assert.Error(t, p.Validate())
	})

	t.Run("cap larger than period rejected", func(t *testing.T) {
		p := StayPolicy{JurisdictionCode: "XX", CalculationMethod: MethodRollingWindow, MaxDaysPerPeriod: Days(200), PeriodLengthDays: Days(180)}
		assert.Error(t, p.Validate())
	})
}

func TestStayPolicy_WithOverride(t *testing.T) {
	base := StayPolicy{
		JurisdictionCode:  "TH",
		JurisdictionName:  "Thailand",
		CalculationMethod: MethodPerEntry,
		MaxDaysPerStay:    Days(30),
		Description:       "visa exemption",
		Overrides: map[id.Nationality]PolicyOverride{
			"US": {MaxDaysPerStay: Days(60), Description: "extended exemption"},
		},
	}

	merged := base.WithOverride(base.Overrides["US"])

	assert.Equal(t, 60, merged.Cap())
	assert.Equal(t, "extended exemption", merged.Description)
	assert.Equal(t, "Thailand", merged.JurisdictionName)
	assert.Nil(t, merged.Overrides)
	assert.Equal(t, 30, base.Cap(), "base policy must not change")
}

// =============================================================================
// Record Invariants
// =============================================================================

func TestNewStayRecord(t *testing.T) {
	traveler := id.TravelerID(uuid.New())
	entry := datewindow.Date(2024, 1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("open stay", func(t *testing.T) {
		r, err := NewStayRecord(traveler, "TH", entry, nil, now)
		require.NoError(t, err)
		assert.True(t, r.IsOpen())
		assert.False(t, r.ID.IsNil())
		assert.Equal(t, 10, r.Duration(datewindow.Date(2024, 1, 10)))
	})

	t.Run("exit before entry rejected", func(t *testing.T) {
		exit := datewindow.Date(2023, 12, 31)
		_, err := NewStayRecord(traveler, "TH", entry, &exit, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("exit can only be recorded once", func(t *testing.T) {
		r, err := NewStayRecord(traveler, "TH", entry, nil, now)
		require.NoError(t, err)
		require.NoError(t, r.RecordExit(datewindow.Date(2024, 1, 5)))
		assert.Error(t, r.RecordExit(datewindow.Date(2024, 1, 6)))
		assert.Equal(t, 5, r.Duration(datewindow.Date(2024, 6, 1)))
	})

	t.Run("missing traveler rejected", func(t *testing.T) {
		_, err := NewStayRecord(id.TravelerID{}, "TH", entry, nil, now)
		assert.Error(t, err)
	})
}

func TestStayRecord_MalformedDurationIsZero(t *testing.T) {
	exit := datewindow.Date(2024, 1, 1)
	r := StayRecord{EntryDate: datewindow.Date(2024, 1, 10), ExitDate: &exit}
	assert.Equal(t, 0, r.Duration(datewindow.Date(2024, 2, 1)))
}

// =============================================================================
// Status Grading
// =============================================================================

func TestLevelFor(t *testing.T) {
	tests := []struct {
		used int
		want WarningLevel
	}{
		{0, LevelSafe},
		{53, LevelSafe},
		{54, LevelCaution},
		{71, LevelCaution},
		{72, LevelWarning},
		{89, LevelWarning},
		{90, LevelDanger},
		{120, LevelDanger},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.used, 90), "used=%d", tt.used)
	}
	assert.Equal(t, LevelDanger, LevelFor(0, 0))
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityMajor, SeverityFor(105, 90))
	assert.Equal(t, SeverityMajor, SeverityFor(108, 90))
	assert.Equal(t, SeverityCritical, SeverityFor(109, 90))
}
