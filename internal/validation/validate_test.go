package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

func validRow() types.RawRow {
	return types.RawRow{
		fieldmap.FieldDNI:             "12345678",
		fieldmap.FieldFirstNames:      "Ana",
		fieldmap.FieldPaternalSurname: "Quispe",
		fieldmap.FieldMaternalSurname: "Diaz",
		fieldmap.FieldAddress:         "Av. Arequipa 123",
		fieldmap.FieldDistrict:        "Lince",
		fieldmap.FieldProvince:        "Lima",
		fieldmap.FieldDepartment:      "Lima",
		fieldmap.FieldSalary:          "1500",
		fieldmap.FieldSalaryInWords:   "MIL QUINIENTOS CON 00/100 SOLES",
		fieldmap.FieldPosition:        "Analista",
		fieldmap.FieldEntryDate:       "01/03/2025",
		fieldmap.FieldCategory:        "planilla",
	}
}

func TestValidateBuildsRecord(t *testing.T) {
	rv := New(false)
	seen := make(map[string]struct{})

	errs, rec := rv.Validate(validRow(), 2, seen)
	require.Empty(t, errs)
	require.NotNil(t, rec)
	assert.Equal(t, "12345678", rec.DNI)
	assert.Equal(t, types.CategoryFullTime, rec.Category)
	assert.Equal(t, 1500.0, rec.Salary)
	assert.Equal(t, "Ana Quispe Diaz", rec.FullName())
	assert.Contains(t, seen, "12345678")
}

func TestValidateFailsFastOnMissingCategory(t *testing.T) {
	rv := New(false)
	row := validRow()
	delete(row, fieldmap.FieldCategory)
	// Break another field too: the category error must be the only one.
	row[fieldmap.FieldDNI] = "123"

	errs, rec := rv.Validate(row, 2, map[string]struct{}{})
	require.Nil(t, rec)
	require.Len(t, errs, 1)
	assert.Equal(t, fieldmap.FieldCategory, errs[0].Field)
}

func TestValidateDuplicateDNIShortCircuits(t *testing.T) {
	rv := New(false)
	seen := make(map[string]struct{})

	errs, rec := rv.Validate(validRow(), 2, seen)
	require.Empty(t, errs)
	require.NotNil(t, rec)

	// Same DNI with additional broken fields: exactly one duplicate error.
	dup := validRow()
	dup[fieldmap.FieldSalary] = "-5"
	errs, rec = rv.Validate(dup, 3, seen)
	require.Nil(t, rec)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Row)
	assert.Equal(t, fieldmap.FieldDNI, errs[0].Field)
	assert.Contains(t, errs[0].Message, "duplicado")
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	rv := New(false)
	row := validRow()
	row[fieldmap.FieldDNI] = "1234"             // not 8 digits
	row[fieldmap.FieldEntryDate] = "2025-03-01" // wrong format
	row[fieldmap.FieldEmail] = "not-an-email"
	delete(row, fieldmap.FieldSalary)

	errs, rec := rv.Validate(row, 5, map[string]struct{}{})
	require.Nil(t, rec)
	fields := make(map[string]bool)
	for _, e := range errs {
		assert.Equal(t, 5, e.Row)
		fields[e.Field] = true
	}
	assert.True(t, fields[fieldmap.FieldDNI])
	assert.True(t, fields[fieldmap.FieldEntryDate])
	assert.True(t, fields[fieldmap.FieldEmail])
	assert.True(t, fields[fieldmap.FieldSalary])
}

func TestValidateUnrecognizedCategoryDefaultsToFullTime(t *testing.T) {
	rv := New(false)
	row := validRow()
	row[fieldmap.FieldCategory] = "modalidad rara"

	errs, rec := rv.Validate(row, 2, map[string]struct{}{})
	require.Empty(t, errs)
	require.NotNil(t, rec)
	assert.Equal(t, types.CategoryFullTime, rec.Category)
}

func TestValidateCategoryNormalization(t *testing.T) {
	cases := map[string]types.ContractCategory{
		"PLANILLA":  types.CategoryFullTime,
		"Part-Time": types.CategoryPartTime,
		"part time": types.CategoryPartTime,
		"SUBSIDIO":  types.CategorySubsidy,
		"ape":       types.CategoryApe,
	}
	for raw, want := range cases {
		got, ok := types.NormalizeCategory(raw)
		assert.True(t, ok, "category %q not recognized", raw)
		assert.Equal(t, want, got, "category %q", raw)
	}
}

func TestValidateApeRequiresSubstitution(t *testing.T) {
	rv := New(false)
	row := validRow()
	row[fieldmap.FieldCategory] = "ape"

	errs, rec := rv.Validate(row, 2, map[string]struct{}{})
	require.Nil(t, rec)
	require.Len(t, errs, 1)
	assert.Equal(t, fieldmap.FieldReplacedWorker, errs[0].Field)

	row[fieldmap.FieldReplacedWorker] = "Luis Paredes"
	row[fieldmap.FieldSubstReason] = "descanso médico"
	errs, rec = rv.Validate(row, 2, map[string]struct{}{})
	require.Empty(t, errs)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Substitution)
	assert.Equal(t, "Luis Paredes", rec.Substitution.ReplacedWorker)
}

func TestValidateSalaryWithThousandsSeparator(t *testing.T) {
	rv := New(false)
	row := validRow()
	row[fieldmap.FieldSalary] = "2,500.50"

	errs, rec := rv.Validate(row, 2, map[string]struct{}{})
	require.Empty(t, errs)
	require.NotNil(t, rec)
	assert.Equal(t, 2500.50, rec.Salary)
}
