// Package orchestrator drives PipelineState through the closed Phase enum:
// dispatch a phase handler, verify the constitution, evaluate the phase's
// gate, and decide the next phase from the merged result. It is a direct
// generalization of a linear phase-index runner loop: same shape (load/init
// state, loop while not terminal, dispatch, check cancellation,
// advance-or-route-to-recovery, persist state after every transition),
// adapted to gate-driven transitions, RCA rewinds, and change-request
// routing instead of a fixed on-fail.goto.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/popeye-dev/popeye/internal/constitution"
	"github.com/popeye-dev/popeye/internal/gate"
	"github.com/popeye-dev/popeye/internal/phase"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/ux"
)

// Orchestrator owns a project directory and the collaborators every phase
// handler needs.
type Orchestrator struct {
	ProjectDir string
	Deps       phase.Deps
	// Quiet suppresses ux progress printing (used by tests).
	Quiet bool
}

// Result is what Run returns once the pipeline reaches a terminal phase.
type Result struct {
	Success            bool
	FinalPhase         pipeline.Phase
	Artifacts          []pipeline.ArtifactEntry
	RecoveryIterations int
	Error              string
}

// Run loads or initializes pipeline state and drives it to DONE or STUCK.
// A context cancellation interrupts the loop between phases; the state
// already persisted up to that point is left on disk for a later resume.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	state, err := pipeline.Load(o.ProjectDir)
	if err != nil {
		return Result{}, fmt.Errorf("loading pipeline state: %w", err)
	}
	if state == nil {
		state = pipeline.NewState()
	}

	for !state.PipelinePhase.IsTerminal() {
		if err := ctx.Err(); err != nil {
			if saveErr := pipeline.Save(o.ProjectDir, state); saveErr != nil {
				return Result{}, fmt.Errorf("saving state after interrupt: %w", saveErr)
			}
			return Result{}, err
		}

		if !o.Quiet {
			ux.PhaseHeader(state.PipelinePhase)
		}

		next, err := o.step(ctx, state)
		if err != nil {
			return Result{}, err
		}
		state.PipelinePhase = next

		if err := pipeline.Save(o.ProjectDir, state); err != nil {
			return Result{}, fmt.Errorf("saving state after %s: %w", state.PipelinePhase, err)
		}
	}

	o.runTerminal(ctx, state)
	if err := pipeline.Save(o.ProjectDir, state); err != nil {
		return Result{}, fmt.Errorf("saving final state: %w", err)
	}

	if state.PipelinePhase == pipeline.PhaseDone && !o.Quiet {
		ux.Success()
	}

	return Result{
		Success:            state.PipelinePhase == pipeline.PhaseDone,
		FinalPhase:         state.PipelinePhase,
		Artifacts:          state.Artifacts,
		RecoveryIterations: state.RecoveryCount,
	}, nil
}

// step dispatches the current phase's handler, merges its result into
// state, evaluates the gate, and returns the phase to transition to next.
func (o *Orchestrator) step(ctx context.Context, state *pipeline.PipelineState) (pipeline.Phase, error) {
	current := state.PipelinePhase

	result, handlerErr := dispatchSafe(ctx, state, o.Deps)
	if handlerErr == nil {
		mergeResult(state, current, result)
	}

	constStatus, err := constitution.Verify(state, o.ProjectDir)
	if err != nil {
		return "", fmt.Errorf("verifying constitution: %w", err)
	}

	var gateResult pipeline.GateResult
	if handlerErr != nil {
		gateResult = pipeline.GateResult{
			Phase:     current,
			Pass:      false,
			Blockers:  []string{handlerErr.Error()},
			Timestamp: time.Now(),
		}
	} else {
		fresh := gate.Evaluate(current, state, gate.ConstitutionStatus{Valid: constStatus.Valid, Reason: constStatus.Reason})
		gateResult = gate.MergeGateResult(state.GateResults[current], fresh)
	}
	state.GateResults[current] = gateResult

	if gateResult.Pass {
		next := o.onPass(current, state, result)
		if !o.Quiet {
			ux.PhaseComplete(current, next)
		}
		return next, nil
	}

	if !o.Quiet {
		ux.PhaseFail(current, gateResult.Blockers)
	}
	return o.onFail(current, state), nil
}

// onPass decides the next phase once current's gate has passed: REVIEW and
// AUDIT first consult the pending change-request queue, RECOVERY_LOOP honors
// an explicit rewind target or retries the phase that originally failed, and
// everything else advances linearly.
func (o *Orchestrator) onPass(current pipeline.Phase, state *pipeline.PipelineState, result phase.Result) pipeline.Phase {
	switch current {
	case pipeline.PhaseReview, pipeline.PhaseAudit:
		if cr, idx, ok := state.FirstProposedCR(); ok {
			state.PendingChangeRequests[idx].Status = pipeline.CRApproved
			if !o.Quiet {
				ux.ChangeRequestRouted(cr.CRID, cr.TargetPhase)
			}
			return cr.TargetPhase
		}
	case pipeline.PhaseRecoveryLoop:
		target := result.RequiresPhaseRewindTo
		if target == "" {
			target = state.FailedPhase
		}
		state.FailedPhase = ""
		return target
	}

	next, ok := current.Next()
	if !ok {
		return pipeline.PhaseDone
	}
	return next
}

// onFail routes a gate failure to RECOVERY_LOOP, or to STUCK once the
// recovery budget is exhausted. A failure from any non-recovery phase
// always routes to RECOVERY_LOOP first; only after RECOVERY_LOOP itself
// passes does the orchestrator honor an explicit rewind target.
func (o *Orchestrator) onFail(current pipeline.Phase, state *pipeline.PipelineState) pipeline.Phase {
	state.FailedPhase = current
	if state.RecoveryCount >= state.MaxRecoveryIterations {
		if !o.Quiet {
			ux.Stuck(current)
		}
		return pipeline.PhaseStuck
	}
	state.RecoveryCount++
	if !o.Quiet {
		ux.RecoveryRouted(current, state.RecoveryCount, state.MaxRecoveryIterations)
	}
	return pipeline.PhaseRecoveryLoop
}

// runTerminal dispatches the DONE or STUCK handler once, best-effort: its
// artifacts are merged on success, its error swallowed on failure, matching
// how a finished run's one-shot wrap-up handler never blocks completion.
func (o *Orchestrator) runTerminal(ctx context.Context, state *pipeline.PipelineState) {
	result, err := dispatchSafe(ctx, state, o.Deps)
	if err != nil {
		return
	}
	mergeResult(state, state.PipelinePhase, result)
}

// dispatchSafe recovers a panicking phase.Handler into an error, since Go
// handlers can panic where a subprocess-based phase never could.
func dispatchSafe(ctx context.Context, state *pipeline.PipelineState, deps phase.Deps) (result phase.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("phase handler panicked: %v", r)
		}
	}()
	return phase.Dispatch(ctx, state, deps)
}

// mergeResult folds a handler's declared mutations into state. Handlers
// never mutate state directly; besides this merge, only the orchestrator's
// own routing (gate results, phase, recovery and change-request bookkeeping
// in step/onPass/onFail) changes PipelineState.
func mergeResult(state *pipeline.PipelineState, ph pipeline.Phase, result phase.Result) {
	state.Artifacts = append(state.Artifacts, result.NewArtifacts...)

	if len(result.NewGateChecks) > 0 {
		state.GateChecks[ph] = append(state.GateChecks[ph], result.NewGateChecks...)
	}

	if result.Score != nil || result.ConsensusScore != nil {
		gr := state.GateResults[ph]
		gr.Phase = ph
		if result.Score != nil {
			gr.Score = result.Score
		}
		if result.ConsensusScore != nil {
			gr.ConsensusScore = result.ConsensusScore
		}
		state.GateResults[ph] = gr
	}

	if result.ConstitutionHash != "" {
		state.ConstitutionHash = result.ConstitutionHash
	}
	if result.LatestRepoSnapshot != nil {
		state.LatestRepoSnapshot = result.LatestRepoSnapshot
	}
	if result.ResolvedCommands != nil {
		state.ResolvedCommands = result.ResolvedCommands
	}
	if len(result.NewChangeRequests) > 0 {
		state.PendingChangeRequests = append(state.PendingChangeRequests, result.NewChangeRequests...)
	}
}
