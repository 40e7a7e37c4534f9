package services

import "time"

// dateOf truncates t to midnight UTC of its own calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && dateOf(*start).After(dateOf(*end)) {
		return ErrDateRange
	}
	return nil
}

// applyDate records a date change in fields and returns the value the
// column will hold afterwards.
func applyDate(current, next *time.Time, clear bool, fields map[string]interface{}, column string) *time.Time {
	switch {
	case clear:
		fields[column] = nil
		return nil
	case next != nil:
		d := dateOf(*next)
		fields[column] = &d
		return &d
	default:
		return current
	}
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOf(*t)
	return &d
}
