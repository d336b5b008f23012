package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
	"sojourn/pkg/platform/sentinel"
)

// InMemoryStore keeps stay records per traveler. Records are copied on the
// way in and out so callers never share memory with the store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TravelerID][]models.StayRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.TravelerID][]models.StayRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.StayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records[record.TravelerID] {
		if existing.ID == record.ID {
			return sentinel.ErrConflict
		}
	}
	s.records[record.TravelerID] = append(s.records[record.TravelerID], copyRecord(*record))
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, travelerID id.TravelerID, recordID id.RecordID) (*models.StayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records[travelerID] {
		if r.ID == recordID {
			out := copyRecord(r)
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByTraveler(_ context.Context, travelerID id.TravelerID) ([]models.StayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StayRecord, 0, len(s.records[travelerID]))
	for _, r := range s.records[travelerID] {
		out = append(out, copyRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryDate.Before(out[j].EntryDate)
	})
	return out, nil
}

// UpdateExit closes an open stay. A stay that already has an exit returns
// sentinel.ErrInvalidState.
func (s *InMemoryStore) UpdateExit(_ context.Context, travelerID id.TravelerID, recordID id.RecordID, exit time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[travelerID]
	for i := range records {
		if records[i].ID != recordID {
			continue
		}
		if records[i].ExitDate != nil {
			return sentinel.ErrInvalidState
		}
		d := datewindow.Truncate(exit)
		records[i].ExitDate = &d
		return nil
	}
	return sentinel.ErrNotFound
}

func copyRecord(r models.StayRecord) models.StayRecord {
	if r.ExitDate != nil {
		exit := *r.ExitDate
		r.ExitDate = &exit
	}
	return r
}
