package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Thanhfdq/task-app/internal/utils"
)

// Optional is a JSON field that distinguishes an absent key from an
// explicit null. Set is true whenever the key was present.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value when it was set to a non-null value.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// ParseOptionalDate parses an optional date field. clear reports an
// explicit null or empty string.
func ParseOptionalDate(field string, o Optional[string]) (value *time.Time, clear bool, err error) {
	if !o.Set {
		return nil, false, nil
	}
	if o.Null || o.Value == "" {
		return nil, true, nil
	}
	return ParseDatePtr(field, &o.Value)
}

// ParseDatePtr parses a nullable date string field
func ParseDatePtr(field string, s *string) (*time.Time, bool, error) {
	if s == nil || *s == "" {
		return nil, false, nil
	}
	d, err := utils.ParseDate(*s)
	if err != nil {
		return nil, false, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return &d, false, nil
}
