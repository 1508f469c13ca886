package fieldmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapperNormalizesHeaders(t *testing.T) {
	table := Table{
		FieldDNI:      {"DNI"},
		FieldSalary:   {"SUELDO"},
		FieldCategory: {"TIPO DE CONTRATO"},
	}
	// Headers with case and whitespace noise must still resolve.
	mapper := NewMapper(table, []string{"  dni ", "Sueldo", "tipo   de  contrato", "IGNORADO"})

	row := mapper.Project([]string{"12345678", "1500", "planilla", "basura"})
	assert.Equal(t, "12345678", row[FieldDNI])
	assert.Equal(t, "1500", row[FieldSalary])
	assert.Equal(t, "planilla", row[FieldCategory])
	assert.NotContains(t, row, "IGNORADO")
}

func TestProjectAbsentOptionalFields(t *testing.T) {
	mapper := NewMapper(DefaultTable(), []string{"DNI", "EMAIL"})

	// Empty cells yield absent keys, not empty values.
	row := mapper.Project([]string{"12345678", ""})
	assert.Equal(t, "12345678", row[FieldDNI])
	_, present := row[FieldEmail]
	assert.False(t, present)

	// Short rows never panic.
	row = mapper.Project([]string{"12345678"})
	assert.Len(t, row, 1)
}

func TestDefaultTableCoversAllCanonicalFields(t *testing.T) {
	table := DefaultTable()
	for _, field := range []string{
		FieldDNI, FieldFirstNames, FieldPaternalSurname, FieldSalary,
		FieldCategory, FieldEntryDate, FieldSCTR, FieldReplacedWorker,
	} {
		assert.NotEmpty(t, table[field], "field %s has no header variants", field)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"DNI": ["DNI", "DOC"]}`), 0644))
	table, err := LoadTable(valid)
	require.NoError(t, err)
	assert.Equal(t, []string{"DNI", "DOC"}, table["DNI"])

	// Empty variant lists violate the schema.
	invalid := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"DNI": []}`), 0644))
	_, err = LoadTable(invalid)
	assert.Error(t, err)

	_, err = LoadTable(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
