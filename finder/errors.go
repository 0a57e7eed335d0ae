package finder

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a miss on an exact-name lookup.
var ErrNotFound = errors.New("medicine not found")

// MappingError reports a row that failed validation while being mapped to a
// Medicine. Field names the offending column.
type MappingError struct {
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("invalid medicine record: %s: %s", e.Field, e.Reason)
}

// IsMappingError reports whether err wraps a MappingError.
func IsMappingError(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}
