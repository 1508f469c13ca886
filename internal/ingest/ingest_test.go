package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
	"github.com/RaulQD/kontrak-backend-sub001/internal/validation"
)

// buildWorkbook assembles an in-memory XLSX with a header row plus data rows.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadRows(t *testing.T) {
	data := buildWorkbook(t, "Personal", [][]any{
		{"DNI", "NOMBRES", "SUELDO", "TIPO DE CONTRATO"},
		{"12345678", "Ana", 1500, "planilla"},
		{"87654321", "Luis", 2000, "part time"},
	})

	rows, err := ReadRows(data, fieldmap.DefaultTable(), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "12345678", rows[0][fieldmap.FieldDNI])
	assert.Equal(t, "1500", rows[0][fieldmap.FieldSalary])
	assert.Equal(t, "part time", rows[1][fieldmap.FieldCategory])
}

func TestReadRowsSheetSelectorAndSkipEmpty(t *testing.T) {
	data := buildWorkbook(t, "Lote", [][]any{
		{"DNI", "NOMBRES"},
		{"12345678", "Ana"},
		{"", ""},
		{"87654321", "Luis"},
	})

	rows, err := ReadRows(data, fieldmap.DefaultTable(), Options{Sheet: "Lote", SkipEmpty: true})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = ReadRows(data, fieldmap.DefaultTable(), Options{Sheet: "Lote"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ReadRows(data, fieldmap.DefaultTable(), Options{Sheet: "NoExiste"})
	assert.Error(t, err)
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows([]byte("this is not a workbook"), fieldmap.DefaultTable(), Options{})
	require.Error(t, err)
	var wbErr *WorkbookError
	assert.ErrorAs(t, err, &wbErr)
}

func TestReadRowsRejectsUnmappableHeaders(t *testing.T) {
	data := buildWorkbook(t, "Hoja", [][]any{
		{"COLUMNA A", "COLUMNA B"},
		{"x", "y"},
	})
	_, err := ReadRows(data, fieldmap.DefaultTable(), Options{})
	assert.Error(t, err)
}

func batchRow(dni string) types.RawRow {
	return types.RawRow{
		fieldmap.FieldDNI:             dni,
		fieldmap.FieldFirstNames:      "Ana",
		fieldmap.FieldPaternalSurname: "Quispe",
		fieldmap.FieldAddress:         "Av. Lima 1",
		fieldmap.FieldDistrict:        "Lince",
		fieldmap.FieldProvince:        "Lima",
		fieldmap.FieldDepartment:      "Lima",
		fieldmap.FieldSalary:          "1200",
		fieldmap.FieldSalaryInWords:   "MIL DOSCIENTOS CON 00/100 SOLES",
		fieldmap.FieldPosition:        "Asistente",
		fieldmap.FieldEntryDate:       "15/02/2025",
		fieldmap.FieldCategory:        "planilla",
	}
}

func TestBatchAccountsForEveryRow(t *testing.T) {
	rv := validation.New(false)
	bad := batchRow("999") // invalid DNI
	rows := []types.RawRow{batchRow("11111111"), bad, batchRow("22222222")}

	res := Batch(rows, rv, false)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.InvalidRows())
	assert.Equal(t, len(rows), res.TotalRows())
	// Valid records preserve input order.
	assert.Equal(t, "11111111", res.Records[0].DNI)
	assert.Equal(t, "22222222", res.Records[1].DNI)
}

func TestBatchRowNumberingStartsAtTwo(t *testing.T) {
	rv := validation.New(false)
	bad := batchRow("12")
	res := Batch([]types.RawRow{bad}, rv, false)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, 2, res.Errors[0].Row)
}

func TestBatchDuplicateDNI(t *testing.T) {
	rv := validation.New(false)
	rows := []types.RawRow{batchRow("11111111"), batchRow("11111111")}

	res := Batch(rows, rv, false)
	require.Len(t, res.Records, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, fieldmap.FieldDNI, res.Errors[0].Field)
}

func TestBatchIsIdempotent(t *testing.T) {
	rv := validation.New(false)
	rows := []types.RawRow{batchRow("11111111"), batchRow("11111111"), batchRow("999")}

	first := Batch(rows, rv, false)
	second := Batch(rows, rv, false)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Records, second.Records)
}
