// Package validation turns raw spreadsheet rows into validated employee
// records, collecting every field-level violation per row.
package validation

import "fmt"

// Error represents a general validation failure not tied to a single field
// (for example an unreadable workbook structure).
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
