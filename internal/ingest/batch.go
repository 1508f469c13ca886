package ingest

import (
	"log"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
	"github.com/RaulQD/kontrak-backend-sub001/internal/validation"
)

// headerOffset is where data-row numbering starts: row 1 of the sheet is the
// header, so the first data row the user sees is row 2.
const headerOffset = 2

// Result aggregates one batch validation pass.
type Result struct {
	Errors  []types.ValidationError
	Records []types.EmployeeRecord
}

// TotalRows is the number of input rows the batch consumed, derivable because
// every row lands in exactly one bucket.
func (r Result) TotalRows() int {
	return len(r.Records) + r.InvalidRows()
}

// InvalidRows counts distinct rows that produced at least one error.
func (r Result) InvalidRows() int {
	seen := make(map[int]struct{}, len(r.Errors))
	for _, e := range r.Errors {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}

// Batch validates every raw row independently: one row failing never blocks
// another. Valid records come back in input order. The duplicate-DNI set is
// scoped to this call, so re-running the same rows yields identical results.
func Batch(rows []types.RawRow, rv *validation.RecordValidator, verbose bool) Result {
	var res Result
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		rowNumber := i + headerOffset
		errs, record := rv.Validate(row, rowNumber, seen)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Records = append(res.Records, *record)
	}
	if verbose {
		log.Printf("[INGEST] validated %d rows: %d valid, %d invalid", res.TotalRows(), len(res.Records), res.InvalidRows())
	}
	return res
}
