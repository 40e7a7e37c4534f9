package duedate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	today := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		completed bool
		endDate   *time.Time
		want      Status
	}{
		{"completed overrides overdue", true, date(2025, time.January, 1), StatusDone},
		{"completed without end date", true, nil, StatusDone},
		{"no end date", false, nil, StatusNormal},
		{"yesterday", false, date(2025, time.March, 9), StatusOverdue},
		{"today", false, date(2025, time.March, 10), StatusNearDue},
		{"in seven days", false, date(2025, time.March, 17), StatusNearDue},
		{"in eight days", false, date(2025, time.March, 18), StatusNormal},
		{"across month boundary", false, date(2025, time.April, 1), StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.completed, tt.endDate, today))
		})
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	lateToday := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	earlyEnd := time.Date(2025, time.March, 10, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, StatusNearDue, Classify(false, &earlyEnd, lateToday))
}

func TestClassify_LocalZoneDates(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	today := time.Date(2025, time.March, 10, 1, 0, 0, 0, loc)
	end := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)

	assert.Equal(t, StatusOverdue, Classify(false, &end, today))
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, time.December, 30, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(*date(2025, time.December, 30), today))
	assert.Equal(t, 2, DaysUntil(*date(2026, time.January, 1), today))
	assert.Equal(t, -30, DaysUntil(*date(2025, time.November, 30), today))
}
