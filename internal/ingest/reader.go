package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Options selects which part of the uploaded workbook to read.
type Options struct {
	Sheet     string // empty selects the first sheet
	HeaderRow int    // 1-based; 0 means row 1
	SkipEmpty bool   // drop rows whose mapped cells are all empty
}

// ReadRows opens an XLSX buffer and projects its data rows onto canonical
// field names using the mapping table. The header row itself is consumed by
// the mapper and never returned.
func ReadRows(data []byte, table fieldmap.Table, opts Options) ([]types.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &WorkbookError{Message: "failed to open workbook", Cause: err}
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, &WorkbookError{Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &WorkbookError{Message: fmt.Sprintf("failed to read sheet %q", sheet), Cause: err}
	}

	headerRow := opts.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	if len(rows) < headerRow {
		return nil, &WorkbookError{Message: fmt.Sprintf("sheet %q has no header row", sheet)}
	}

	mapper := fieldmap.NewMapper(table, rows[headerRow-1])
	if len(mapper.MappedFields()) == 0 {
		return nil, &WorkbookError{Message: fmt.Sprintf("sheet %q headers match no known field", sheet)}
	}

	out := make([]types.RawRow, 0, len(rows)-headerRow)
	for _, cells := range rows[headerRow:] {
		row := mapper.Project(cells)
		if opts.SkipEmpty && len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
