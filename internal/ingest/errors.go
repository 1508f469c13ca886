// Package ingest reads uploaded workbooks into raw rows and drives the record
// validator over a whole batch.
package ingest

import "fmt"

// WorkbookError represents a workbook that could not be opened or read. It is
// a malformed-input failure: it happens before the pipeline starts and is
// fatal to the request.
type WorkbookError struct {
	Message string
	Cause   error
}

func (e *WorkbookError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("workbook error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("workbook error: %s", e.Message)
}

func (e *WorkbookError) Unwrap() error {
	return e.Cause
}
