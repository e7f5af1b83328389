package phase

import (
	"context"
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Handlers is the closed dispatch table, keyed by all 14 phase tags: the 12
// in-pipeline phases plus RECOVERY_LOOP and STUCK, which have entries since
// both still produce artifacts (rca_report, stuck_report); only the
// orchestrator's phase-advance decision treats them specially.
var Handlers = map[pipeline.Phase]Handler{
	pipeline.PhaseIntake:                Intake,
	pipeline.PhaseConsensusMasterPlan:   Consensus,
	pipeline.PhaseArchitecture:          Architecture,
	pipeline.PhaseConsensusArchitecture: Consensus,
	pipeline.PhaseRolePlanning:          RolePlanning,
	pipeline.PhaseConsensusRolePlans:    Consensus,
	pipeline.PhaseImplementation:        Implementation,
	pipeline.PhaseQAValidation:          QAValidation,
	pipeline.PhaseReview:                Review,
	pipeline.PhaseAudit:                 Audit,
	pipeline.PhaseProductionGate:        ProductionGate,
	pipeline.PhaseDone:                  Done,
	pipeline.PhaseRecoveryLoop:          RecoveryLoop,
	pipeline.PhaseStuck:                 Stuck,
}

// Dispatch looks up and runs the handler for state.PipelinePhase.
func Dispatch(ctx context.Context, state *pipeline.PipelineState, deps Deps) (Result, error) {
	handler, ok := Handlers[state.PipelinePhase]
	if !ok {
		return Result{}, fmt.Errorf("no handler registered for phase %s", state.PipelinePhase)
	}
	pc := &Context{Context: ctx, Deps: deps, State: state}
	return handler(pc)
}
