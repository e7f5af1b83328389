package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Stuck documents the final failure state after recovery iterations are
// exhausted. It never calls an executor, since by the time the
// orchestrator routes here the recovery budget is already spent.
func Stuck(ctx *Context) (Result, error) {
	report := struct {
		FailedPhase   pipeline.Phase `json:"failed_phase"`
		RecoveryCount int            `json:"recovery_count"`
		Blockers      []string       `json:"blockers"`
	}{
		FailedPhase:   ctx.State.FailedPhase,
		RecoveryCount: ctx.State.RecoveryCount,
	}
	if gr, ok := ctx.State.GateResults[ctx.State.FailedPhase]; ok {
		report.Blockers = gr.Blockers
	}

	entry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactStuckReport, report, pipeline.PhaseStuck, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing stuck_report: %w", err)
	}

	return Result{NewArtifacts: []pipeline.ArtifactEntry{entry}}, nil
}
