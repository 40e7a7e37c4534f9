package utils

import (
	"strings"
	"time"

	"github.com/Thanhfdq/task-app/internal/constants"
)

// ParseDate accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp
// and returns midnight UTC of the calendar date it names.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(constants.DateLayout, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders t as YYYY-MM-DD, or nil when t is nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateLayout)
	return &s
}
