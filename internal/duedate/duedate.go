// Package duedate derives the urgency of a task from its completion state
// and end date. Board, calendar, timeline and list responses all use
// Classify so that a task is colored the same way everywhere.
package duedate

import (
	"time"

	"github.com/Thanhfdq/task-app/internal/constants"
)

// Status is the urgency class of a task.
type Status string

const (
	StatusDone    Status = "done"
	StatusOverdue Status = "overdue"
	StatusNearDue Status = "near_due"
	StatusNormal  Status = "normal"
)

// Classify maps a task to exactly one Status. Only calendar dates are
// compared; the time of day of endDate and today is ignored.
func Classify(completed bool, endDate *time.Time, today time.Time) Status {
	if completed {
		return StatusDone
	}
	if endDate == nil {
		return StatusNormal
	}

	days := DaysUntil(*endDate, today)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= constants.NearDueDays:
		return StatusNearDue
	default:
		return StatusNormal
	}
}

// DaysUntil returns the number of calendar days from today to endDate,
// negative when endDate is in the past.
func DaysUntil(endDate, today time.Time) int {
	end := civil(endDate)
	now := civil(today)
	return int(end.Sub(now).Hours() / 24)
}

// civil drops the clock and zone, keeping the date as read in t's own location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
