// Package scheduler drives bounded-concurrency document generation: groups of
// records run one group at a time, records inside a group run concurrently.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/RaulQD/kontrak-backend-sub001/internal/processors"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// DefaultConcurrency is the group size: the maximum number of rendering
// sessions open at once.
const DefaultConcurrency = 3

// Scheduler coordinates processors, the rendering pool and the group loop.
type Scheduler struct {
	Registry    *processors.Registry
	Pool        render.Pool
	Concurrency int
	Verbose     bool
}

// Partition splits records into ordered groups of size n; the last group may
// be shorter.
func Partition(records []types.EmployeeRecord, n int) [][]types.EmployeeRecord {
	if n < 1 {
		n = 1
	}
	groups := make([][]types.EmployeeRecord, 0, (len(records)+n-1)/n)
	for start := 0; start < len(records); start += n {
		end := start + n
		if end > len(records) {
			end = len(records)
		}
		groups = append(groups, records[start:end])
	}
	return groups
}

// Run generates every artifact for the validated records and hands each
// ContractResult to emit. Groups complete in input order and a group's results
// are all emitted before the next group starts, so emit never runs
// concurrently with itself.
//
// The shared rendering resource is acquired once for the whole run and
// released on every exit path. A per-record failure becomes a failed
// ContractResult; only a pool failure aborts the run.
func (s *Scheduler) Run(ctx context.Context, records []types.EmployeeRecord, emit func(types.ContractResult)) error {
	concurrency := s.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	if err := s.Pool.Acquire(ctx); err != nil {
		return fmt.Errorf("failed to acquire rendering resource: %w", err)
	}
	defer s.Pool.Release()

	groups := Partition(records, concurrency)
	for gi, group := range groups {
		if s.Verbose {
			log.Printf("[SCHEDULER] group %d/%d: %d records", gi+1, len(groups), len(group))
		}
		results := make([][]types.ContractResult, len(group))
		g, groupCtx := errgroup.WithContext(ctx)
		for i, rec := range group {
			g.Go(func() error {
				out, err := s.processRecord(groupCtx, rec)
				results[i] = out
				return err
			})
		}
		// Wait for the whole group before starting the next one; the error
		// path only carries pool-level failures.
		if err := g.Wait(); err != nil {
			return err
		}
		for _, recResults := range results {
			for _, res := range recResults {
				emit(res)
			}
		}
	}

	for _, p := range s.Registry.BatchReports() {
		if res, ok := s.Registry.RunReport(p, records); ok {
			emit(res)
		}
	}
	return nil
}

// processRecord generates every per-record artifact one document at a time,
// each through its own short-lived session. Rendering failures are captured in
// the results; a session that cannot even be opened means the shared browser
// is gone, which is fatal.
func (s *Scheduler) processRecord(ctx context.Context, rec types.EmployeeRecord) ([]types.ContractResult, error) {
	var out []types.ContractResult
	for _, p := range s.Registry.PerRecord() {
		if !p.Match(rec) {
			continue
		}
		sess, err := s.Pool.NewSession(ctx)
		if err != nil {
			return out, fmt.Errorf("failed to open rendering session: %w", err)
		}
		res := s.renderOne(ctx, p, rec, sess)
		sess.Close()
		if !res.Success && s.Verbose {
			log.Printf("[SCHEDULER] %s for DNI %s failed: %s", p.Document, rec.DNI, res.Error)
		}
		out = append(out, res)
	}
	return out, nil
}

// renderOne isolates a single artifact attempt; a panicking template or driver
// must not take down the sibling records of the group.
func (s *Scheduler) renderOne(ctx context.Context, p processors.Processor, rec types.EmployeeRecord, sess render.Session) (res types.ContractResult) {
	defer func() {
		if r := recover(); r != nil {
			res = types.Failed(rec.DNI+".pdf", p.Document, rec.Category, fmt.Errorf("panic during generation: %v", r))
		}
	}()
	return s.Registry.RenderRecord(ctx, p, rec, sess)
}
