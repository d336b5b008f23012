package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// =============================================================================
// Policy Registry Test Suite
// =============================================================================
// Justification for unit tests: the registry is pure reference data with a
// merge rule (base overridden by nationality) that every evaluation depends on.

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	var err error
	s.registry, err = Default()
	s.Require().NoError(err)
}

func (s *RegistrySuite) TestDefaultCatalogue() {
	s.Run("every entry is valid and addressable", func() {
		s.Greater(s.registry.Len(), 5)
		for _, code := range s.registry.Codes() {
			p, ok := s.registry.GetPolicy(code, "")
			s.True(ok, code)
			s.NoError(p.Validate(), code)
		}
	})

	s.Run("codes are sorted", func() {
		codes := s.registry.Codes()
		for i := 1; i < len(codes); i++ {
			s.Less(string(codes[i-1]), string(codes[i]))
		}
	})
}

func (s *RegistrySuite) TestGetPolicy() {
	s.Run("unknown jurisdiction is not found", func() {
		_, ok := s.registry.GetPolicy("ATLANTIS", "US")
		s.False(ok)
	})

	s.Run("no override returns base unmodified", func() {
		p, ok := s.registry.GetPolicy("TH", "FR")
		s.Require().True(ok)
		s.Equal(30, p.Cap())
		s.Equal("Visa exemption per entry.", p.Description)
	})

	s.Run("override wins for limits and description", func() {
		p, ok := s.registry.GetPolicy("TH", "US")
		s.Require().True(ok)
		s.Equal(60, p.Cap())
		s.Equal(models.MethodPerEntry, p.CalculationMethod)
		s.Equal("Extended visa exemption per entry.", p.Description)
		s.Equal("Thailand", p.JurisdictionName)
	})

	s.Run("rolling window policy", func() {
		p, ok := s.registry.GetPolicy("SCHENGEN", "")
		s.Require().True(ok)
		s.Equal(models.MethodRollingWindow, p.CalculationMethod)
		s.Equal(90, p.Cap())
		s.Equal(180, p.PeriodLength())
	})
}

func (s *RegistrySuite) TestLoad() {
	s.Run("rejects policy violating invariants", func() {
		_, err := Load(strings.NewReader(`
policies:
  - code: XX
    name: Nowhere
    method: rolling_window
    max_days_per_period: 90
`))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("rejects override that breaks invariants", func() {
		_, err := Load(strings.NewReader(`
policies:
  - code: XX
    name: Nowhere
    method: per_entry
    max_days_per_stay: 30
    overrides:
      US:
        method: rolling_window
`))
		s.Require().Error(err)
		s.Contains(err.Error(), "override for nationality US")
	})

	s.Run("rejects duplicate codes", func() {
		_, err := New([]models.StayPolicy{
			{JurisdictionCode: "VN", CalculationMethod: models.MethodPerEntry, MaxDaysPerStay: models.Days(45)},
			{JurisdictionCode: "vn", CalculationMethod: models.MethodPerEntry, MaxDaysPerStay: models.Days(45)},
		})
		s.Error(err)
	})

	s.Run("rejects unknown fields", func() {
		_, err := Load(strings.NewReader(`
policies:
  - code: XX
    method: per_entry
    max_days_per_stay: 30
    max_days: 30
`))
		s.Error(err)
	})

	s.Run("normalises codes", func() {
		r, err := New([]models.StayPolicy{
			{JurisdictionCode: "vn", CalculationMethod: models.MethodPerEntry, MaxDaysPerStay: models.Days(45)},
		})
		s.Require().NoError(err)
		_, ok := r.GetPolicy(id.JurisdictionCode("VN"), "")
		s.True(ok)
	})
}
