// Package templates compiles the document templates once and fills them per
// record to produce the markup handed to the rendering pool.
package templates

import "fmt"

// TemplateError represents a template that failed to parse or execute.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
