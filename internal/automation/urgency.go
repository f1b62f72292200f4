package automation

import (
	"time"

	"maintenance-automation-service/internal/models"
)

// ClassifyUrgency maps days-until-due to an urgency level. Overdue and
// due-today tasks are both critical.
func ClassifyUrgency(daysRemaining int) models.Urgency {
	switch {
	case daysRemaining <= 0:
		return models.UrgencyCritical
	case daysRemaining == 1:
		return models.UrgencyHigh
	case daysRemaining <= 3:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

// DaysBetween returns the signed number of calendar days from one date to
// another, ignoring the time-of-day portion of both.
func DaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
