// Package processors holds the document processors: each one routes a subset
// of the validated records to an artifact-producing function. Processors are
// plain data selected through a registry; only registered categories are
// invocable.
package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
	"github.com/RaulQD/kontrak-backend-sub001/internal/templates"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Processor pairs a routing predicate with an artifact producer. Exactly one
// of Template (per-record, rendered through a browser session) or Report
// (batch, produced directly as bytes) is set.
type Processor struct {
	Document types.DocumentCategory
	Category types.ContractCategory // tag for per-record contract documents
	Match    func(types.EmployeeRecord) bool
	Template string
	Report   func(recs []types.EmployeeRecord, now time.Time) (string, []byte, error)
}

// IsBatch reports whether the processor produces at most one artifact for the
// whole filtered subset rather than one per record.
func (p Processor) IsBatch() bool {
	return p.Report != nil
}

// Filter applies the routing predicate over the full validated set.
func (p Processor) Filter(recs []types.EmployeeRecord) []types.EmployeeRecord {
	out := make([]types.EmployeeRecord, 0, len(recs))
	for _, r := range recs {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Registry is the closed set of supported document processors for a run.
type Registry struct {
	engine  *templates.Engine
	signers types.Signers
	now     func() time.Time
	procs   map[types.DocumentCategory]Processor
	order   []types.DocumentCategory
}

// NewRegistry builds the registry with every supported processor registered.
func NewRegistry(engine *templates.Engine, signers types.Signers, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := &Registry{
		engine:  engine,
		signers: signers,
		now:     now,
		procs:   make(map[types.DocumentCategory]Processor),
	}
	matchCategory := func(cat types.ContractCategory) func(types.EmployeeRecord) bool {
		return func(rec types.EmployeeRecord) bool { return rec.Category == cat }
	}
	r.register(Processor{
		Document: types.DocFullContract,
		Category: types.CategoryFullTime,
		Match:    matchCategory(types.CategoryFullTime),
		Template: templates.ContractFullTime,
	})
	r.register(Processor{
		Document: types.DocPartTime,
		Category: types.CategoryPartTime,
		Match:    matchCategory(types.CategoryPartTime),
		Template: templates.ContractPartTime,
	})
	r.register(Processor{
		Document: types.DocSubsidy,
		Category: types.CategorySubsidy,
		Match:    matchCategory(types.CategorySubsidy),
		Template: templates.ContractSubsidy,
	})
	r.register(Processor{
		Document: types.DocApe,
		Category: types.CategoryApe,
		Match:    matchCategory(types.CategoryApe),
		Template: templates.ApeAgreement,
	})
	// The annex accompanies every primary contract; APE suplencias get the
	// agreement instead, never the annex.
	r.register(Processor{
		Document: types.DocAnnex,
		Match:    func(rec types.EmployeeRecord) bool { return rec.Category != types.CategoryApe },
		Template: templates.Annex,
	})
	// The data-processing disclosure is mandatory for every record, APE
	// included.
	r.register(Processor{
		Document: types.DocDisclosure,
		Match:    func(types.EmployeeRecord) bool { return true },
		Template: templates.Disclosure,
	})
	r.register(Processor{
		Document: types.DocSctr,
		Match:    func(rec types.EmployeeRecord) bool { return rec.HasSCTR() },
		Report:   sctrReport,
	})
	r.register(Processor{
		Document: types.DocSctrApe,
		Match:    matchCategory(types.CategoryApe),
		Report:   sctrApeReport,
	})
	r.register(Processor{
		Document: types.DocCardID,
		Match:    func(types.EmployeeRecord) bool { return true },
		Report:   cardIDReport,
	})
	r.register(Processor{
		Document: types.DocLawlife,
		Match:    func(types.EmployeeRecord) bool { return true },
		Report:   lawlifeReport,
	})
	return r
}

func (r *Registry) register(p Processor) {
	r.procs[p.Document] = p
	r.order = append(r.order, p.Document)
}

// Lookup returns the processor for a document category. The boolean is the
// capability check: unsupported categories are simply not invocable.
func (r *Registry) Lookup(doc types.DocumentCategory) (Processor, bool) {
	p, ok := r.procs[doc]
	return p, ok
}

// PerRecord returns the per-record processors in registration order.
func (r *Registry) PerRecord() []Processor {
	var out []Processor
	for _, doc := range r.order {
		if p := r.procs[doc]; !p.IsBatch() {
			out = append(out, p)
		}
	}
	return out
}

// BatchReports returns the batch-report processors in registration order.
func (r *Registry) BatchReports() []Processor {
	var out []Processor
	for _, doc := range r.order {
		if p := r.procs[doc]; p.IsBatch() {
			out = append(out, p)
		}
	}
	return out
}

// RenderRecord produces the artifact for one (record, processor) pair through
// a rendering session. Any failure is captured in the returned ContractResult
// so sibling records keep processing.
func (r *Registry) RenderRecord(ctx context.Context, p Processor, rec types.EmployeeRecord, sess render.Session) types.ContractResult {
	filename := rec.DNI + ".pdf"
	markup, err := r.engine.Fill(p.Template, rec, r.signers)
	if err != nil {
		return types.Failed(filename, p.Document, rec.Category, err)
	}
	pdf, err := sess.Render(ctx, markup)
	if err != nil {
		return types.Failed(filename, p.Document, rec.Category, fmt.Errorf("rendering failed: %w", err))
	}
	return types.ContractResult{
		Success:  true,
		Filename: filename,
		Payload:  pdf,
		Document: p.Document,
		Category: rec.Category,
	}
}

// RunReport produces a batch report over the records that survive the
// processor's predicate. An empty subset yields no artifact at all, not a
// placeholder file.
func (r *Registry) RunReport(p Processor, recs []types.EmployeeRecord) (types.ContractResult, bool) {
	subset := p.Filter(recs)
	if len(subset) == 0 {
		return types.ContractResult{}, false
	}
	filename, payload, err := p.Report(subset, r.now())
	if err != nil {
		return types.Failed(filename, p.Document, "", err), true
	}
	return types.ContractResult{
		Success:  true,
		Filename: filename,
		Payload:  payload,
		Document: p.Document,
	}, true
}
