package pipeline

import (
	"time"

	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Summarize combines validation counts with the generation results into the
// caller-facing summary. Failed results are carried whole (minus payloads,
// which failures never have) so callers can enumerate what was skipped.
func Summarize(runID string, batch ingest.Result, results []types.ContractResult, elapsed time.Duration) *types.GenerationSummary {
	summary := &types.GenerationSummary{
		RunID:        runID,
		TotalRows:    batch.TotalRows(),
		ValidRecords: len(batch.Records),
		ByDocument:   make(map[types.DocumentCategory]types.CategoryCount),
		DurationMS:   elapsed.Milliseconds(),
	}
	for _, res := range results {
		count := summary.ByDocument[res.Document]
		if res.Success {
			summary.Generated++
			count.Generated++
		} else {
			summary.Failed++
			count.Failed++
			summary.Failures = append(summary.Failures, res)
		}
		summary.ByDocument[res.Document] = count
	}
	return summary
}
