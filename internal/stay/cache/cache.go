// Package cache memoises evaluation results outside the pure core.
//
// Results are keyed by the ledger fingerprint, so any change to a traveler's
// records produces new keys and stale entries simply age out.
package cache

import (
	"fmt"
	"time"

	id "sojourn/pkg/domain"
)

// Key identifies one evaluation.
type Key struct {
	TravelerID          id.TravelerID
	LedgerVersion       string
	Code                id.JurisdictionCode
	Nationality         id.Nationality
	ReferenceDate       time.Time
	AuthorizationIssued *time.Time
}

func (k Key) String() string {
	issued := "-"
	if k.AuthorizationIssued != nil {
		issued = k.AuthorizationIssued.Format(time.DateOnly)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		k.TravelerID, k.LedgerVersion, k.Code, k.Nationality, k.ReferenceDate.Format(time.DateOnly), issued)
}
