package processors

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Fixed filenames for the single-document endpoints. Archive entries carry the
// run date instead (see stamped).
const (
	SctrFilename    = "FORMATO_SCTR.xlsx"
	CardIDFilename  = "Fotocheck.csv"
	LawlifeFilename = "VIDA_LEY_TRAMA_INV_URB_OP.xlsx"
)

// stamped appends the run date to a report base name: FORMATO_SCTR_2025-01-31.xlsx.
func stamped(base, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", base, now.Format("2006-01-02"), ext)
}

// writeSheet fills a worksheet with a header row plus one row per record.
func writeSheet(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sctrReport lists every insured worker for the SCTR policy enrollment form.
func sctrReport(recs []types.EmployeeRecord, now time.Time) (string, []byte, error) {
	headers := []string{"DNI", "APELLIDOS Y NOMBRES", "CARGO", "AREA", "FECHA DE INGRESO"}
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{r.DNI, r.FullName(), r.Position, r.Division, r.EntryDate})
	}
	payload, err := writeSheet("SCTR", headers, rows)
	return stamped("FORMATO_SCTR", ".xlsx", now), payload, err
}

// sctrApeReport lists the temporary-replacement workers and who they cover.
func sctrApeReport(recs []types.EmployeeRecord, now time.Time) (string, []byte, error) {
	headers := []string{"DNI", "APELLIDOS Y NOMBRES", "CARGO", "TRABAJADOR SUSTITUIDO", "FECHA DE INGRESO", "FECHA DE CESE"}
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		replaced := ""
		if r.Substitution != nil {
			replaced = r.Substitution.ReplacedWorker
		}
		rows = append(rows, []any{r.DNI, r.FullName(), r.Position, replaced, r.EntryDate, r.EndDate})
	}
	payload, err := writeSheet("SCTR APE", headers, rows)
	return stamped("FORMATO_SCTR_APE", ".xlsx", now), payload, err
}

// cardIDReport is the delimited feed the badge printer consumes.
func cardIDReport(recs []types.EmployeeRecord, now time.Time) (string, []byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"DNI", "NOMBRES", "APELLIDO PATERNO", "APELLIDO MATERNO", "CARGO", "AREA"}); err != nil {
		return "", nil, err
	}
	for _, r := range recs {
		if err := w.Write([]string{r.DNI, r.FirstNames, r.PaternalSurname, r.MaternalSurname, r.Position, r.Division}); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return stamped("FOTOCHECK", ".csv", now), buf.Bytes(), nil
}

// lawlifeReport is the Vida Ley insurance trama: one row per worker in the
// fixed column order the insurer's intake expects.
func lawlifeReport(recs []types.EmployeeRecord, now time.Time) (string, []byte, error) {
	headers := []string{
		"TIPO DOCUMENTO", "NRO DOCUMENTO", "APELLIDO PATERNO", "APELLIDO MATERNO",
		"NOMBRES", "FECHA DE INGRESO", "REMUNERACION", "CARGO",
	}
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{"DNI", r.DNI, r.PaternalSurname, r.MaternalSurname, r.FirstNames, r.EntryDate, r.Salary, r.Position})
	}
	payload, err := writeSheet("TRAMA", headers, rows)
	return stamped("VIDA_LEY_TRAMA_INV_URB_OP", ".xlsx", now), payload, err
}
