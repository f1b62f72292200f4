package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"maintenance-automation-service/internal/models"
)

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		daysRemaining int
		want          models.Urgency
	}{
		{-10, models.UrgencyCritical},
		{-1, models.UrgencyCritical},
		{0, models.UrgencyCritical},
		{1, models.UrgencyHigh},
		{2, models.UrgencyMedium},
		{3, models.UrgencyMedium},
		{4, models.UrgencyLow},
		{30, models.UrgencyLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyUrgency(tt.daysRemaining), "daysRemaining=%d", tt.daysRemaining)
	}
}

func TestDaysBetween(t *testing.T) {
	day := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day ignores time of day", day(2025, time.January, 10, 23), day(2025, time.January, 10, 1), 0},
		{"two days ahead", day(2025, time.January, 10, 8), day(2025, time.January, 12, 6), 2},
		{"overdue is negative", day(2025, time.January, 10, 0), day(2025, time.January, 7, 22), -3},
		{"month boundary", day(2025, time.January, 31, 12), day(2025, time.February, 1, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}
