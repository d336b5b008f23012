// Package ledger is an immutable, ordered snapshot of a traveler's stay records.
//
// A Ledger never aliases caller memory: New copies its input and every
// derivation (AsOf, With) returns a fresh snapshot. Concurrent readers need no
// locking.
package ledger

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

// openEnd stands in for the exit of a stay that is still in progress when
// checking for overlaps.
var openEnd = datewindow.Date(9999, time.December, 31)

// Ledger holds records sorted ascending by entry date.
type Ledger struct {
	records []models.StayRecord
}

// New builds a snapshot from records in any order.
func New(records []models.StayRecord) *Ledger {
	cp := make([]models.StayRecord, len(records))
	for i, r := range records {
		cp[i] = cloneRecord(r)
	}
	sortRecords(cp)
	return &Ledger{records: cp}
}

// Len is the number of records across all jurisdictions.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of every record, ascending by entry date.
func (l *Ledger) Records() []models.StayRecord {
	out := make([]models.StayRecord, len(l.records))
	for i, r := range l.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// RecordsFor returns the records of one jurisdiction, ascending by entry date.
func (l *Ledger) RecordsFor(code id.JurisdictionCode) []models.StayRecord {
	var out []models.StayRecord
	for _, r := range l.records {
		if r.JurisdictionCode == code {
			out = append(out, cloneRecord(r))
		}
	}
	return out
}

// AsOf returns a snapshot in which every open stay is closed on ref. Stored
// records are untouched; this is a computation view only.
func (l *Ledger) AsOf(ref time.Time) *Ledger {
	ref = datewindow.Truncate(ref)
	out := make([]models.StayRecord, len(l.records))
	for i, r := range l.records {
		out[i] = cloneRecord(r)
		if out[i].ExitDate == nil {
			exit := ref
			out[i].ExitDate = &exit
		}
	}
	return &Ledger{records: out}
}

// With returns a snapshot that also contains r. The receiver is unchanged.
func (l *Ledger) With(r models.StayRecord) *Ledger {
	out := make([]models.StayRecord, 0, len(l.records)+1)
	for _, existing := range l.records {
		out = append(out, cloneRecord(existing))
	}
	out = append(out, cloneRecord(r))
	sortRecords(out)
	return &Ledger{records: out}
}

// Validate reports malformed records across all jurisdictions.
func (l *Ledger) Validate() []models.IntegrityIssue {
	seen := make(map[id.JurisdictionCode]bool)
	var issues []models.IntegrityIssue
	for _, r := range l.records {
		if seen[r.JurisdictionCode] {
			continue
		}
		seen[r.JurisdictionCode] = true
		issues = append(issues, l.ValidateFor(r.JurisdictionCode)...)
	}
	return issues
}

// ValidateFor reports records of one jurisdiction whose exit precedes their
// entry, and records that overlap an earlier record. Touching stays (one exits
// the day the next enters) overlap by one day and are reported.
func (l *Ledger) ValidateFor(code id.JurisdictionCode) []models.IntegrityIssue {
	var issues []models.IntegrityIssue
	var prev *models.StayRecord
	var prevEnd time.Time
	for _, r := range l.RecordsFor(code) {
		if r.ExitDate != nil && r.ExitDate.Before(r.EntryDate) {
			issues = append(issues, models.IntegrityIssue{
				RecordID: r.ID,
				Kind:     models.IntegrityInvertedDates,
				Detail: fmt.Sprintf("exit %s is before entry %s",
					r.ExitDate.Format(time.DateOnly), r.EntryDate.Format(time.DateOnly)),
			})
			continue
		}
		end := openEnd
		if r.ExitDate != nil {
			end = *r.ExitDate
		}
		if prev != nil && !r.EntryDate.After(prevEnd) {
			issues = append(issues, models.IntegrityIssue{
				RecordID: r.ID,
				Kind:     models.IntegrityOverlap,
				Detail: fmt.Sprintf("entry %s overlaps stay %s",
					r.EntryDate.Format(time.DateOnly), prev.ID),
			})
		}
		if prev == nil || end.After(prevEnd) {
			rec := r
			prev = &rec
			prevEnd = end
		}
	}
	return issues
}

// Version fingerprints the snapshot content. Equal ledgers have equal
// versions regardless of the order records were supplied in.
func (l *Ledger) Version() string {
	h := xxh3.New()
	var buf [8]byte
	for _, r := range l.records {
		u := [16]byte(r.ID)
		_, _ = h.Write(u[:])
		_, _ = h.WriteString(string(r.JurisdictionCode))
		binary.LittleEndian.PutUint64(buf[:], uint64(r.EntryDate.Unix()))
		_, _ = h.Write(buf[:])
		exit := int64(-1)
		if r.ExitDate != nil {
			exit = r.ExitDate.Unix()
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(exit))
		_, _ = h.Write(buf[:])
	}
	sum := h.Sum128()
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

func sortRecords(records []models.StayRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.JurisdictionCode != b.JurisdictionCode {
			return a.JurisdictionCode < b.JurisdictionCode
		}
		return a.ID.String() < b.ID.String()
	})
}

func cloneRecord(r models.StayRecord) models.StayRecord {
	r.EntryDate = datewindow.Truncate(r.EntryDate)
	if r.ExitDate != nil {
		exit := datewindow.Truncate(*r.ExitDate)
		r.ExitDate = &exit
	}
	return r
}
