// Package pipeline provides the high-level orchestration for batch contract
// generation: validated records in, named artifacts out.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/RaulQD/kontrak-backend-sub001/internal/archive"
	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/processors"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
	"github.com/RaulQD/kontrak-backend-sub001/internal/scheduler"
	"github.com/RaulQD/kontrak-backend-sub001/internal/templates"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
	"github.com/RaulQD/kontrak-backend-sub001/internal/validation"
)

// Options configures one pipeline instance.
type Options struct {
	Concurrency int
	Signers     types.Signers
	Mapping     fieldmap.Table // nil uses the built-in table
	Verbose     bool
	Now         func() time.Time // nil uses time.Now
}

// Pipeline wires the validator, processor registry, scheduler and rendering
// pool together. It is constructed explicitly and passed down as an argument;
// nothing lives in package state.
type Pipeline struct {
	opts      Options
	mapping   fieldmap.Table
	validator *validation.RecordValidator
	registry  *processors.Registry
	pool      render.Pool
}

// New builds a pipeline around the given rendering pool.
func New(pool render.Pool, opts Options) (*Pipeline, error) {
	engine, err := templates.NewEngine(opts.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to build template engine: %w", err)
	}
	mapping := opts.Mapping
	if mapping == nil {
		mapping = fieldmap.DefaultTable()
	}
	return &Pipeline{
		opts:      opts,
		mapping:   mapping,
		validator: validation.New(opts.Verbose),
		registry:  processors.NewRegistry(engine, opts.Signers, opts.Now),
		pool:      pool,
	}, nil
}

// ReadRows projects an uploaded workbook onto canonical field names.
func (p *Pipeline) ReadRows(data []byte, opts ingest.Options) ([]types.RawRow, error) {
	return ingest.ReadRows(data, p.mapping, opts)
}

// ValidateBatch runs the record validator over every raw row.
func (p *Pipeline) ValidateBatch(rows []types.RawRow) ingest.Result {
	return ingest.Batch(rows, p.validator, p.opts.Verbose)
}

// GenerateArchive runs the full generation job for the validated records and
// streams the compressed bundle into w. The returned summary accounts for
// every attempted artifact; per-record failures are inside it, not in err.
func (p *Pipeline) GenerateArchive(ctx context.Context, batch ingest.Result, w io.Writer) (*types.GenerationSummary, error) {
	start := time.Now()
	runID := uuid.New()

	asm := archive.NewAssembler(w, p.opts.Verbose)
	var results []types.ContractResult
	var writeErr error

	sched := &scheduler.Scheduler{
		Registry:    p.registry,
		Pool:        p.pool,
		Concurrency: p.opts.Concurrency,
		Verbose:     p.opts.Verbose,
	}
	err := sched.Run(ctx, batch.Records, func(res types.ContractResult) {
		results = append(results, res)
		if writeErr == nil {
			writeErr = asm.Append(res)
		}
	})
	if err != nil {
		// The zip stream is abandoned mid-write; nothing to finalize.
		return nil, err
	}
	if writeErr != nil {
		return nil, writeErr
	}
	if err := asm.Close(); err != nil {
		return nil, err
	}

	summary := Summarize(runID.String(), batch, results, time.Since(start))
	log.Printf("[PIPELINE] run %s: %d rows, %d valid, %d generated, %d failed in %dms",
		summary.RunID, summary.TotalRows, summary.ValidRecords, summary.Generated, summary.Failed, summary.DurationMS)
	return summary, nil
}

// Report produces one batch report directly, without the rendering pool. The
// boolean reports whether the filtered subset was non-empty.
func (p *Pipeline) Report(doc types.DocumentCategory, records []types.EmployeeRecord) (types.ContractResult, bool, error) {
	proc, ok := p.registry.Lookup(doc)
	if !ok || !proc.IsBatch() {
		return types.ContractResult{}, false, fmt.Errorf("document category %s has no batch report", doc)
	}
	res, ok := p.registry.RunReport(proc, records)
	if !ok {
		return types.ContractResult{}, false, nil
	}
	if !res.Success {
		return types.ContractResult{}, true, fmt.Errorf("failed to build %s: %s", doc, res.Error)
	}
	return res, true, nil
}

// SingleContract renders the primary contract document for one DNI out of the
// validated batch. The pool is acquired just for this render.
func (p *Pipeline) SingleContract(ctx context.Context, dni string, records []types.EmployeeRecord) (types.ContractResult, error) {
	var target *types.EmployeeRecord
	for i := range records {
		if records[i].DNI == dni {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return types.ContractResult{}, fmt.Errorf("no validated record with DNI %s", dni)
	}

	doc := contractDocument(target.Category)
	proc, ok := p.registry.Lookup(doc)
	if !ok {
		return types.ContractResult{}, fmt.Errorf("document category %s is not registered", doc)
	}

	if err := p.pool.Acquire(ctx); err != nil {
		return types.ContractResult{}, fmt.Errorf("failed to acquire rendering resource: %w", err)
	}
	defer p.pool.Release()

	sess, err := p.pool.NewSession(ctx)
	if err != nil {
		return types.ContractResult{}, fmt.Errorf("failed to open rendering session: %w", err)
	}
	defer sess.Close()

	res := p.registry.RenderRecord(ctx, proc, *target, sess)
	if !res.Success {
		return types.ContractResult{}, fmt.Errorf("failed to render contract for %s: %s", dni, res.Error)
	}
	return res, nil
}

// contractDocument maps a contract category to its primary document.
func contractDocument(cat types.ContractCategory) types.DocumentCategory {
	switch cat {
	case types.CategoryPartTime:
		return types.DocPartTime
	case types.CategorySubsidy:
		return types.DocSubsidy
	case types.CategoryApe:
		return types.DocApe
	default:
		return types.DocFullContract
	}
}
