package orchestrator

import (
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

// Aggregate computes a NodeSummary from per-child results. It is a pure
// function with no memoization: units may be non-deterministic, so the
// summary is recomputed on every run.
//
// totalChildren is the number of children declared on the node, which may
// exceed len(results) when fail-fast or a node deadline stopped the run
// early; children that never ran count as failed.
func Aggregate(totalChildren int, results []models.ExecutionResult, elapsed time.Duration) models.NodeSummary {
	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	return models.NodeSummary{
		TotalChildren:   totalChildren,
		Successful:      successful,
		Failed:          totalChildren - successful,
		ExecutionTimeMs: float64(elapsed) / float64(time.Millisecond),
	}
}
