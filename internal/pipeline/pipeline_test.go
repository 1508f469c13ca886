package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

type fakePool struct {
	failAcquire bool
	failWhen    func(html string) bool
	acquired    int
	released    int
}

func (p *fakePool) Acquire(context.Context) error {
	if p.failAcquire {
		return &render.PoolError{Message: "no browser"}
	}
	p.acquired++
	return nil
}

func (p *fakePool) NewSession(context.Context) (render.Session, error) {
	return &fakeSession{pool: p}, nil
}

func (p *fakePool) Release() { p.released++ }

type fakeSession struct{ pool *fakePool }

func (s *fakeSession) Render(_ context.Context, html string) ([]byte, error) {
	if s.pool.failWhen != nil && s.pool.failWhen(html) {
		return nil, errors.New("simulated render failure")
	}
	return []byte("%PDF-fake"), nil
}

func (s *fakeSession) Close() {}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func testPipeline(t *testing.T, pool render.Pool) *Pipeline {
	t.Helper()
	p, err := New(pool, Options{
		Concurrency: 3,
		Now:         fixedNow,
		Signers: types.Signers{
			Representative: types.Signer{Name: "Carla Soto", DNI: "11112222", Title: "Gerente General"},
			HumanResources: types.Signer{Name: "Jorge Ruiz", DNI: "33334444", Title: "Jefe de RRHH"},
		},
	})
	require.NoError(t, err)
	return p
}

func rawRow(dni, category string) types.RawRow {
	return types.RawRow{
		fieldmap.FieldDNI:             dni,
		fieldmap.FieldFirstNames:      "Ana",
		fieldmap.FieldPaternalSurname: "Quispe",
		fieldmap.FieldAddress:         "Av. Lima 1",
		fieldmap.FieldDistrict:        "Lince",
		fieldmap.FieldProvince:        "Lima",
		fieldmap.FieldDepartment:      "Lima",
		fieldmap.FieldSalary:          "1500",
		fieldmap.FieldSalaryInWords:   "MIL QUINIENTOS CON 00/100 SOLES",
		fieldmap.FieldPosition:        "Analista",
		fieldmap.FieldEntryDate:       "01/03/2025",
		fieldmap.FieldCategory:        category,
	}
}

func validBatch(t *testing.T, p *Pipeline, n int) ingest.Result {
	t.Helper()
	rows := make([]types.RawRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, rawRow(fmt.Sprintf("%08d", i+1), "planilla"))
	}
	batch := p.ValidateBatch(rows)
	require.Len(t, batch.Records, n)
	return batch
}

func TestGenerateArchive(t *testing.T) {
	pool := &fakePool{}
	p := testPipeline(t, pool)
	batch := validBatch(t, p, 4)

	var buf bytes.Buffer
	summary, err := p.GenerateArchive(context.Background(), batch, &buf)
	require.NoError(t, err)

	// 4 full-time records x (contract, annex, disclosure) + card-id + lawlife.
	assert.Equal(t, 14, summary.Generated)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 4, summary.ValidRecords)
	assert.Equal(t, 4, summary.TotalRows)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.ByDocument[types.DocFullContract].Generated)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 14)
	assert.Equal(t, 1, pool.acquired)
	assert.Equal(t, 1, pool.released)
}

func TestGenerateArchivePartialFailureStillFinalizes(t *testing.T) {
	pool := &fakePool{failWhen: func(html string) bool {
		return strings.Contains(html, "00000002") && strings.Contains(html, "PLAZO INDETERMINADO")
	}}
	p := testPipeline(t, pool)
	batch := validBatch(t, p, 4)

	var buf bytes.Buffer
	summary, err := p.GenerateArchive(context.Background(), batch, &buf)
	require.NoError(t, err)
	assert.Equal(t, 13, summary.Generated)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "00000002.pdf", summary.Failures[0].Filename)

	// The archive must finalize with the 13 successful entries.
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 13)
}

func TestGenerateArchivePoolFailureIsFatal(t *testing.T) {
	pool := &fakePool{failAcquire: true}
	p := testPipeline(t, pool)
	batch := validBatch(t, p, 2)

	var buf bytes.Buffer
	_, err := p.GenerateArchive(context.Background(), batch, &buf)
	require.Error(t, err)
	var poolErr *render.PoolError
	assert.ErrorAs(t, err, &poolErr)
}

func TestReport(t *testing.T) {
	p := testPipeline(t, &fakePool{})
	batch := validBatch(t, p, 2)

	res, nonEmpty, err := p.Report(types.DocCardID, batch.Records)
	require.NoError(t, err)
	require.True(t, nonEmpty)
	assert.Equal(t, "FOTOCHECK_2025-03-10.csv", res.Filename)
	assert.NotEmpty(t, res.Payload)

	// Empty subset: nobody has the insurance flag.
	_, nonEmpty, err = p.Report(types.DocSctr, batch.Records)
	require.NoError(t, err)
	assert.False(t, nonEmpty)

	// Per-record categories are not batch reports.
	_, _, err = p.Report(types.DocFullContract, batch.Records)
	assert.Error(t, err)
}

func TestSingleContract(t *testing.T) {
	pool := &fakePool{}
	p := testPipeline(t, pool)
	batch := validBatch(t, p, 2)

	res, err := p.SingleContract(context.Background(), "00000001", batch.Records)
	require.NoError(t, err)
	assert.Equal(t, "00000001.pdf", res.Filename)
	assert.Equal(t, types.DocFullContract, res.Document)
	assert.Equal(t, 1, pool.released)

	_, err = p.SingleContract(context.Background(), "99999999", batch.Records)
	assert.Error(t, err)
}

func TestSummarizeCounts(t *testing.T) {
	batch := ingest.Result{
		Records: []types.EmployeeRecord{{DNI: "11111111"}},
		Errors:  []types.ValidationError{{Row: 3, Field: "DNI", Message: "x"}},
	}
	results := []types.ContractResult{
		{Success: true, Document: types.DocFullContract},
		{Success: false, Document: types.DocFullContract, Error: "boom"},
		{Success: true, Document: types.DocCardID},
	}
	summary := Summarize("run-1", batch, results, 1500*time.Millisecond)
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 1, summary.ValidRecords)
	assert.Equal(t, 2, summary.Generated)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, int64(1500), summary.DurationMS)
	assert.Equal(t, types.CategoryCount{Generated: 1, Failed: 1}, summary.ByDocument[types.DocFullContract])
}
