package validation

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

var dniPattern = regexp.MustCompile(`^[0-9]{8}$`)

// RecordValidator validates one raw row at a time. The duplicate-identifier
// set is threaded through by the caller so it spans the whole batch; it is
// mutated only on successful validation and only from the (single-threaded)
// ingestion stage.
type RecordValidator struct {
	validate *validator.Validate
	verbose  bool
}

// New builds a RecordValidator with the custom validators the record schema
// uses registered.
func New(verbose bool) *RecordValidator {
	v := validator.New()
	// Registration only fails for blank tags or nil funcs.
	_ = v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return dniPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slashdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("02/01/2006", fl.Field().String())
		return err == nil
	})
	return &RecordValidator{validate: v, verbose: verbose}
}

// fieldNames maps struct field names back to the spreadsheet vocabulary used
// in error payloads.
var fieldNames = map[string]string{
	"DNI":             fieldmap.FieldDNI,
	"FirstNames":      fieldmap.FieldFirstNames,
	"PaternalSurname": fieldmap.FieldPaternalSurname,
	"MaternalSurname": fieldmap.FieldMaternalSurname,
	"Email":           fieldmap.FieldEmail,
	"Address":         fieldmap.FieldAddress,
	"District":        fieldmap.FieldDistrict,
	"Province":        fieldmap.FieldProvince,
	"Department":      fieldmap.FieldDepartment,
	"Salary":          fieldmap.FieldSalary,
	"SalaryInWords":   fieldmap.FieldSalaryInWords,
	"Position":        fieldmap.FieldPosition,
	"Division":        fieldmap.FieldDivision,
	"SubDivision":     fieldmap.FieldSubDivision,
	"EntryDate":       fieldmap.FieldEntryDate,
	"EndDate":         fieldmap.FieldEndDate,
	"SCTR":            fieldmap.FieldSCTR,
}

// message renders a human-readable message for one failed constraint.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "el campo es obligatorio"
	case "dni":
		return "el DNI debe tener exactamente 8 dígitos"
	case "slashdate":
		return "la fecha debe tener el formato DD/MM/YYYY"
	case "email":
		return "el correo electrónico no es válido"
	case "gt":
		return "el sueldo debe ser mayor que 0"
	case "max":
		return fmt.Sprintf("el campo supera la longitud máxima de %s caracteres", fe.Param())
	default:
		return fmt.Sprintf("el campo no cumple la restricción %q", fe.Tag())
	}
}

// Validate checks one raw row. It returns the collected field errors and, when
// the row is clean, the immutable EmployeeRecord built from it.
//
// Error collection is total: every violated constraint on the row is reported,
// not just the first. Two short circuits apply, per the batch contract: an
// unusable contract-category cell fails the row with a single error, and a DNI
// already seen in this batch fails the row with a single duplicate error.
func (rv *RecordValidator) Validate(row types.RawRow, rowNumber int, seen map[string]struct{}) ([]types.ValidationError, *types.EmployeeRecord) {
	rawCategory, ok := row[fieldmap.FieldCategory]
	if !ok || strings.TrimSpace(rawCategory) == "" {
		return []types.ValidationError{{
			Row:     rowNumber,
			Field:   fieldmap.FieldCategory,
			Message: "el tipo de contrato es obligatorio",
		}}, nil
	}

	dni := strings.TrimSpace(row[fieldmap.FieldDNI])
	if dni != "" {
		if _, dup := seen[dni]; dup {
			return []types.ValidationError{{
				Row:     rowNumber,
				Field:   fieldmap.FieldDNI,
				Message: fmt.Sprintf("el DNI %s está duplicado en el archivo", dni),
			}}, nil
		}
	}

	var errs []types.ValidationError

	category, recognized := types.NormalizeCategory(rawCategory)
	if !recognized && rv.verbose {
		// Compatible with the legacy system: unknown text becomes FULL_TIME.
		log.Printf("[VALIDATE] row %d: unrecognized contract category %q, defaulting to %s", rowNumber, rawCategory, category)
	}

	salary, salaryErr := parseSalary(row[fieldmap.FieldSalary])
	if salaryErr != nil && row[fieldmap.FieldSalary] != "" {
		errs = append(errs, types.ValidationError{
			Row:     rowNumber,
			Field:   fieldmap.FieldSalary,
			Message: "el sueldo debe ser un número",
		})
	}

	record := types.EmployeeRecord{
		DNI:             dni,
		FirstNames:      row[fieldmap.FieldFirstNames],
		PaternalSurname: row[fieldmap.FieldPaternalSurname],
		MaternalSurname: row[fieldmap.FieldMaternalSurname],
		Email:           row[fieldmap.FieldEmail],
		Address:         row[fieldmap.FieldAddress],
		District:        row[fieldmap.FieldDistrict],
		Province:        row[fieldmap.FieldProvince],
		Department:      row[fieldmap.FieldDepartment],
		Salary:          salary,
		SalaryInWords:   row[fieldmap.FieldSalaryInWords],
		Position:        row[fieldmap.FieldPosition],
		Division:        row[fieldmap.FieldDivision],
		SubDivision:     row[fieldmap.FieldSubDivision],
		EntryDate:       row[fieldmap.FieldEntryDate],
		EndDate:         row[fieldmap.FieldEndDate],
		Category:        category,
		SCTR:            row[fieldmap.FieldSCTR],
	}

	if worker, ok := row[fieldmap.FieldReplacedWorker]; ok {
		record.Substitution = &types.Substitution{
			ReplacedWorker: worker,
			Reason:         row[fieldmap.FieldSubstReason],
		}
	}

	if err := rv.validate.Struct(&record); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs = append(errs, types.ValidationError{
				Row:     rowNumber,
				Field:   "-",
				Message: err.Error(),
			})
		} else {
			for _, fe := range fieldErrs {
				name, ok := fieldNames[fe.StructField()]
				if !ok {
					name = fe.StructField()
				}
				errs = append(errs, types.ValidationError{
					Row:     rowNumber,
					Field:   name,
					Message: message(fe),
				})
			}
		}
	}

	// APE contracts reference the worker being replaced; without that metadata
	// the agreement cannot be rendered.
	if record.Category == types.CategoryApe {
		if record.Substitution == nil || strings.TrimSpace(record.Substitution.ReplacedWorker) == "" {
			errs = append(errs, types.ValidationError{
				Row:     rowNumber,
				Field:   fieldmap.FieldReplacedWorker,
				Message: "el trabajador sustituido es obligatorio para contratos APE",
			})
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}

	seen[dni] = struct{}{}
	return nil, &record
}

// parseSalary accepts "1,500.00" style formatting from spreadsheet cells.
func parseSalary(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cleaned, 64)
}
