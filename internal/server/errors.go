// Package server provides the HTTP API for batch contract generation.
package server

import (
	"errors"
	"net/http"

	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
)

// ErrUpload indicates a malformed upload: missing file, wrong extension or
// unreadable content. Rejected before the pipeline starts.
type ErrUpload struct {
	Message string
}

func (e *ErrUpload) Error() string {
	return e.Message
}

// HTTPStatus returns the status code for an error escaping a handler.
// Row-level and artifact-level failures never reach here; they are reported
// inside 2xx payloads. Only malformed input and resource-level faults change
// the status code.
func HTTPStatus(err error) int {
	var upload *ErrUpload
	var workbook *ingest.WorkbookError
	var pool *render.PoolError
	switch {
	case errors.As(err, &upload), errors.As(err, &workbook):
		return http.StatusBadRequest
	case errors.As(err, &pool):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
