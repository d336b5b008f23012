// Package recommend turns computed status into traveler-facing guidance.
package recommend

import (
	"fmt"
	"time"

	"sojourn/internal/stay/models"
)

// Generate formats guidance for one jurisdiction. It adds no rules of its own:
// every line follows from the warning level, the next available date, and
// the violations it is given.
func Generate(status models.StayStatus, violations []models.StayViolation) []string {
	var out []string

	switch status.WarningLevel {
	case models.LevelSafe:
		out = append(out, fmt.Sprintf("You have %d of %d days remaining.", status.DaysRemaining, status.MaxAllowedDays))
	case models.LevelCaution:
		out = append(out, fmt.Sprintf("You have used %d of %d days. Plan future visits with the remaining %d in mind.",
			status.DaysUsed, status.MaxAllowedDays, status.DaysRemaining))
	case models.LevelWarning:
		out = append(out, fmt.Sprintf("Only %d days remain. Confirm your exit date before extending your stay.", status.DaysRemaining))
	case models.LevelDanger:
		if status.DaysUsed > status.MaxAllowedDays {
			out = append(out, fmt.Sprintf("You are %d days over the %d-day limit. Leave as soon as possible and seek advice.",
				status.DaysUsed-status.MaxAllowedDays, status.MaxAllowedDays))
		} else {
			out = append(out, "You have reached the limit. Do not stay or re-enter until your allowance renews.")
		}
		if status.NextAvailableDate != nil {
			out = append(out, fmt.Sprintf("Your allowance renews on %s.", status.NextAvailableDate.Format(time.DateOnly)))
		} else {
			out = append(out, "The date your allowance renews cannot be determined from your recorded stays.")
		}
	}

	for _, v := range violations {
		out = append(out, describe(v))
	}
	return out
}

func describe(v models.StayViolation) string {
	on := v.OccurredAt.Format(time.DateOnly)
	switch v.Type {
	case models.ViolationExceedsLimit:
		return fmt.Sprintf("A stay beginning %s took you %d days over the period limit (%s).", on, v.DaysOver, v.Severity)
	case models.ViolationOverstay:
		return fmt.Sprintf("A stay beginning %s ran %d days past what was permitted (%s).", on, v.DaysOver, v.Severity)
	case models.ViolationTooFrequent:
		return fmt.Sprintf("Re-entry on %s came %d days before the required gap had passed.", on, v.DaysOver)
	default:
		return fmt.Sprintf("A stay beginning %s breached the rules.", on)
	}
}
