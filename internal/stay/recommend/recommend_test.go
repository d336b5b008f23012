package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sojourn/internal/stay/models"
)

func TestGenerate(t *testing.T) {
	next := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     models.StayStatus
		violations []models.StayViolation
		wantLines  int
		contains   string
	}{
		{
			name:      "safe",
			status:    models.StayStatus{WarningLevel: models.LevelSafe, DaysRemaining: 65, MaxAllowedDays: 90},
			wantLines: 1,
			contains:  "65 of 90 days remaining",
		},
		{
			name:      "caution",
			status:    models.StayStatus{WarningLevel: models.LevelCaution, DaysUsed: 60, DaysRemaining: 30, MaxAllowedDays: 90},
			wantLines: 1,
			contains:  "used 60 of 90",
		},
		{
			name:      "warning",
			status:    models.StayStatus{WarningLevel: models.LevelWarning, DaysUsed: 80, DaysRemaining: 10, MaxAllowedDays: 90},
			wantLines: 1,
			contains:  "Only 10 days remain",
		},
		{
			name:      "danger at cap with renewal date",
			status:    models.StayStatus{WarningLevel: models.LevelDanger, DaysUsed: 90, MaxAllowedDays: 90, NextAvailableDate: &next},
			wantLines: 2,
			contains:  "renews on 2024-07-01",
		},
		{
			name:      "danger without renewal date",
			status:    models.StayStatus{WarningLevel: models.LevelDanger, DaysUsed: 95, MaxAllowedDays: 90},
			wantLines: 2,
			contains:  "cannot be determined",
		},
		{
			name:   "violations are listed",
			status: models.StayStatus{WarningLevel: models.LevelSafe, DaysRemaining: 90, MaxAllowedDays: 90},
			violations: []models.StayViolation{{
				Type:       models.ViolationExceedsLimit,
				Severity:   models.SeverityMajor,
				OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				DaysOver:   15,
			}},
			wantLines: 2,
			contains:  "15 days over the period limit (major)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.status, tt.violations)
			assert.Len(t, got, tt.wantLines)
			assert.Contains(t, strings.Join(got, "\n"), tt.contains)
		})
	}
}
