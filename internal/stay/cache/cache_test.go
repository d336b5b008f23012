package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

func sampleKey() Key {
	return Key{
		TravelerID:    id.NewTravelerID(),
		LedgerVersion: "00000000000000010000000000000002",
		Code:          "SCHENGEN",
		Nationality:   "US",
		ReferenceDate: datewindow.Date(2024, 6, 1),
	}
}

func sampleResult() *models.CountryResult {
	start, end := datewindow.Date(2023, 12, 5), datewindow.Date(2024, 6, 1)
	return &models.CountryResult{
		Policy: models.StayPolicy{
			JurisdictionCode:  "SCHENGEN",
			CalculationMethod: models.MethodRollingWindow,
			MaxDaysPerPeriod:  models.Days(90),
			PeriodLengthDays:  models.Days(180),
		},
		Status: models.StayStatus{
			JurisdictionCode:   "SCHENGEN",
			ReferenceDate:      end,
			DaysUsed:           25,
			DaysRemaining:      65,
			MaxAllowedDays:     90,
			CurrentPeriodStart: &start,
			CurrentPeriodEnd:   &end,
			WarningLevel:       models.LevelSafe,
		},
	}
}

func TestKeyString(t *testing.T) {
	k := sampleKey()
	base := k.String()

	issued := datewindow.Date(2024, 1, 1)
	k.AuthorizationIssued = &issued
	assert.NotEqual(t, base, k.String())

	other := sampleKey()
	other.TravelerID = k.TravelerID
	other.ReferenceDate = datewindow.Date(2024, 6, 2)
	assert.NotEqual(t, base, other.String())
}

func TestOtterCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c, err := NewOtter(16, time.Minute)
		require.NoError(t, err)
		defer c.Close()

		key := sampleKey()
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		want := sampleResult()
		require.NoError(t, c.Set(ctx, key, want))

		got, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := NewOtter(0, time.Minute)
		assert.Error(t, err)
	})
}

func TestNewRedisRequiresTTL(t *testing.T) {
	_, err := NewRedis(nil, 0)
	assert.Error(t, err)
}

func TestWithKeyPrefix(t *testing.T) {
	c, err := NewRedis(nil, time.Minute, WithKeyPrefix("staging:status:"))
	require.NoError(t, err)
	assert.Equal(t, "staging:status:", c.prefix)
	assert.Equal(t, time.Minute, c.ttl)
}
