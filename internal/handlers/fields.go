package handlers

import (
	"fmt"

	"github.com/Thanhfdq/task-app/internal/dto"
)

// requiredField rejects an explicit null for a field that cannot be cleared.
func requiredField[T any](name string, o dto.Optional[T]) (*T, error) {
	if o.Set && o.Null {
		return nil, fmt.Errorf("%s cannot be null", name)
	}
	return o.Ptr(), nil
}

// stringField maps an explicit null to the empty string.
func stringField(o dto.Optional[string]) *string {
	if o.Set && o.Null {
		empty := ""
		return &empty
	}
	return o.Ptr()
}
