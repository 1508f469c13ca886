// Package render owns the shared headless-browser rendering resource used to
// turn filled document markup into PDF bytes.
package render

import "fmt"

// PoolError represents a failure of the shared rendering resource itself.
// Unlike a per-document rendering failure it is fatal to the whole run.
type PoolError struct {
	Message string
	Cause   error
}

func (e *PoolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering pool error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rendering pool error: %s", e.Message)
}

func (e *PoolError) Unwrap() error {
	return e.Cause
}
