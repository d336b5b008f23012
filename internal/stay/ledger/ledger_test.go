package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

type LedgerSuite struct {
	suite.Suite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func record(code id.JurisdictionCode, entry time.Time, exit *time.Time) models.StayRecord {
	return models.StayRecord{
		ID:               id.NewRecordID(),
		JurisdictionCode: code,
		EntryDate:        entry,
		ExitDate:         exit,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := datewindow.Date(y, m, d)
	return &t
}

func (s *LedgerSuite) TestOrdering() {
	s.Run("records for a jurisdiction are ascending by entry", func() {
		l := New([]models.StayRecord{
			record("SCHENGEN", *date(2024, 3, 1), date(2024, 3, 5)),
			record("TH", *date(2024, 2, 1), date(2024, 2, 5)),
			record("SCHENGEN", *date(2024, 1, 1), date(2024, 1, 5)),
		})

		got := l.RecordsFor("SCHENGEN")
		s.Require().Len(got, 2)
		s.Equal(*date(2024, 1, 1), got[0].EntryDate)
		s.Equal(*date(2024, 3, 1), got[1].EntryDate)
		s.Empty(l.RecordsFor("VN"))
	})
}

func (s *LedgerSuite) TestImmutability() {
	s.Run("caller mutation does not leak into snapshot", func() {
		exit := datewindow.Date(2024, 1, 5)
		input := []models.StayRecord{record("TH", *date(2024, 1, 1), &exit)}
		l := New(input)

		exit = datewindow.Date(2030, 1, 1)
		input[0].JurisdictionCode = "VN"

		got := l.RecordsFor("TH")
		s.Require().Len(got, 1)
		s.Equal(datewindow.Date(2024, 1, 5), *got[0].ExitDate)
	})

	s.Run("AsOf closes open stays without touching the source", func() {
		l := New([]models.StayRecord{record("TH", *date(2024, 1, 1), nil)})
		closed := l.AsOf(time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC))

		s.Nil(l.RecordsFor("TH")[0].ExitDate)
		s.Equal(datewindow.Date(2024, 1, 10), *closed.RecordsFor("TH")[0].ExitDate)
	})

	s.Run("With leaves the receiver unchanged", func() {
		l := New([]models.StayRecord{record("TH", *date(2024, 1, 1), date(2024, 1, 3))})
		extended := l.With(record("TH", *date(2024, 2, 1), date(2024, 2, 3)))

		s.Equal(1, l.Len())
		s.Equal(2, extended.Len())
	})
}

func (s *LedgerSuite) TestValidate() {
	s.Run("clean ledger has no issues", func() {
		l := New([]models.StayRecord{
			record("TH", *date(2024, 1, 1), date(2024, 1, 10)),
			record("TH", *date(2024, 1, 11), nil),
			record("VN", *date(2024, 1, 10), date(2024, 1, 11)),
		})
		s.Empty(l.Validate())
	})

	s.Run("inverted dates are reported", func() {
		bad := record("TH", *date(2024, 1, 10), date(2024, 1, 1))
		l := New([]models.StayRecord{bad})

		issues := l.Validate()
		s.Require().Len(issues, 1)
		s.Equal(models.IntegrityInvertedDates, issues[0].Kind)
		s.Equal(bad.ID, issues[0].RecordID)
	})

	s.Run("touching stays in one jurisdiction overlap", func() {
		second := record("TH", *date(2024, 1, 10), date(2024, 1, 12))
		l := New([]models.StayRecord{
			record("TH", *date(2024, 1, 1), date(2024, 1, 10)),
			second,
		})

		issues := l.ValidateFor("TH")
		s.Require().Len(issues, 1)
		s.Equal(models.IntegrityOverlap, issues[0].Kind)
		s.Equal(second.ID, issues[0].RecordID)
	})

	s.Run("entry after an open stay overlaps", func() {
		l := New([]models.StayRecord{
			record("TH", *date(2024, 1, 1), nil),
			record("TH", *date(2024, 3, 1), date(2024, 3, 2)),
		})
		s.Len(l.ValidateFor("TH"), 1)
	})
}

func (s *LedgerSuite) TestVersion() {
	a := record("TH", *date(2024, 1, 1), date(2024, 1, 10))
	b := record("VN", *date(2024, 2, 1), nil)

	s.Run("independent of input order", func() {
		s.Equal(New([]models.StayRecord{a, b}).Version(), New([]models.StayRecord{b, a}).Version())
	})

	s.Run("changes when a stay closes", func() {
		closed := b
		closed.ExitDate = date(2024, 2, 5)
		s.NotEqual(New([]models.StayRecord{a, b}).Version(), New([]models.StayRecord{a, closed}).Version())
	})
}
