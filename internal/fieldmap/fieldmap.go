// Package fieldmap resolves raw spreadsheet column headers to canonical field
// names through a configurable mapping table.
package fieldmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Canonical field names produced by the mapper. These are the keys of every
// RawRow and the vocabulary the validator speaks.
const (
	FieldDNI             = "DNI"
	FieldFirstNames      = "NOMBRES"
	FieldPaternalSurname = "APELLIDO_PATERNO"
	FieldMaternalSurname = "APELLIDO_MATERNO"
	FieldEmail           = "EMAIL"
	FieldAddress         = "DIRECCION"
	FieldDistrict        = "DISTRITO"
	FieldProvince        = "PROVINCIA"
	FieldDepartment      = "DEPARTAMENTO"
	FieldSalary          = "SUELDO"
	FieldSalaryInWords   = "SUELDO_LETRAS"
	FieldPosition        = "CARGO"
	FieldDivision        = "AREA"
	FieldSubDivision     = "SUB_AREA"
	FieldEntryDate       = "FECHA_INGRESO"
	FieldEndDate         = "FECHA_CESE"
	FieldCategory        = "TIPO_CONTRATO"
	FieldSCTR            = "SCTR"
	FieldReplacedWorker  = "TRABAJADOR_SUSTITUIDO"
	FieldSubstReason     = "MOTIVO_SUSTITUCION"
)

// Table maps a canonical field name to the header variants accepted for it.
type Table map[string][]string

// tableSchema constrains mapping files to non-empty variant lists keyed by
// field name.
const tableSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "array",
    "minItems": 1,
    "items": {"type": "string", "minLength": 1}
  }
}`

// DefaultTable returns the built-in header mapping used when no mapping file
// is configured.
func DefaultTable() Table {
	return Table{
		FieldDNI:             {"DNI", "DOCUMENTO", "NRO DOCUMENTO"},
		FieldFirstNames:      {"NOMBRES", "NOMBRE"},
		FieldPaternalSurname: {"APELLIDO PATERNO", "AP. PATERNO"},
		FieldMaternalSurname: {"APELLIDO MATERNO", "AP. MATERNO"},
		FieldEmail:           {"EMAIL", "CORREO", "CORREO ELECTRONICO"},
		FieldAddress:         {"DIRECCION", "DOMICILIO"},
		FieldDistrict:        {"DISTRITO"},
		FieldProvince:        {"PROVINCIA"},
		FieldDepartment:      {"DEPARTAMENTO", "REGION"},
		FieldSalary:          {"SUELDO", "REMUNERACION", "SALARIO"},
		FieldSalaryInWords:   {"SUELDO EN LETRAS", "REMUNERACION EN LETRAS"},
		FieldPosition:        {"CARGO", "PUESTO"},
		FieldDivision:        {"AREA"},
		FieldSubDivision:     {"SUB AREA", "SUBAREA"},
		FieldEntryDate:       {"FECHA DE INGRESO", "FECHA INGRESO", "F. INGRESO"},
		FieldEndDate:         {"FECHA DE CESE", "FECHA CESE", "F. CESE"},
		FieldCategory:        {"TIPO DE CONTRATO", "TIPO CONTRATO", "MODALIDAD"},
		FieldSCTR:            {"SCTR", "SEGURO SCTR"},
		FieldReplacedWorker:  {"TRABAJADOR SUSTITUIDO", "SUSTITUIDO"},
		FieldSubstReason:     {"MOTIVO DE SUSTITUCION", "MOTIVO SUSTITUCION"},
	}
}

// LoadTable reads a mapping table from a JSON file and validates its shape.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(tableSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate mapping file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid mapping file %s: %s", path, strings.Join(msgs, "; "))
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}
	return table, nil
}

// normalizeHeader collapses case and internal whitespace so header matching
// ignores formatting noise in the uploaded workbook.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToUpper(h)), " ")
}

// Mapper projects data rows of one worksheet onto canonical field names. It is
// built once per sheet from the header row and has no side effects.
type Mapper struct {
	// column index -> canonical field name, for mapped columns only
	columns map[int]string
}

// NewMapper resolves the header row against the table. Headers that match no
// variant are ignored; canonical fields with no matching header simply never
// appear in projected rows.
func NewMapper(table Table, headers []string) *Mapper {
	variantToField := make(map[string]string)
	for field, variants := range table {
		for _, v := range variants {
			variantToField[normalizeHeader(v)] = field
		}
	}
	m := &Mapper{columns: make(map[int]string)}
	for i, h := range headers {
		if field, ok := variantToField[normalizeHeader(h)]; ok {
			m.columns[i] = field
		}
	}
	return m
}

// MappedFields returns the canonical fields the header row resolved to.
func (m *Mapper) MappedFields() []string {
	fields := make([]string, 0, len(m.columns))
	for _, f := range m.columns {
		fields = append(fields, f)
	}
	return fields
}

// Project converts one data row into a RawRow. Cells in unmapped columns are
// dropped; empty cells yield absent keys rather than empty values.
func (m *Mapper) Project(cells []string) types.RawRow {
	row := make(types.RawRow, len(m.columns))
	for i, field := range m.columns {
		if i >= len(cells) {
			continue
		}
		value := strings.TrimSpace(cells[i])
		if value == "" {
			continue
		}
		row[field] = value
	}
	return row
}
