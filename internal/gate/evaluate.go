package gate

import (
	"fmt"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// ConstitutionStatus is the result of verifying the constitution file's
// integrity, supplied by the caller so this package stays I/O-free.
type ConstitutionStatus struct {
	Valid  bool
	Reason string
}

// Evaluate runs phase's gate against state and returns the resulting
// GateResult. It never mutates state.
func Evaluate(phase pipeline.Phase, state *pipeline.PipelineState, constitution ConstitutionStatus) pipeline.GateResult {
	def := DefinitionFor(phase)

	result := pipeline.GateResult{
		Phase:            phase,
		Blockers:         []string{},
		MissingArtifacts: []string{},
		FailedChecks:     []string{},
		Timestamp:        time.Now(),
	}

	if !constitution.Valid {
		result.Blockers = append(result.Blockers, constitution.Reason)
	}

	for _, t := range def.RequiredArtifacts {
		if !hasArtifactInPhase(state, t, phase) {
			result.MissingArtifacts = append(result.MissingArtifacts, string(t))
			result.Blockers = append(result.Blockers, fmt.Sprintf("missing required artifact %q in phase %s", t, phase))
		}
	}

	for _, c := range def.RequiredChecks {
		status, ok := latestCheckStatus(state, phase, c)
		if !ok || status != pipeline.CheckStatusPass {
			result.FailedChecks = append(result.FailedChecks, string(c))
			if !ok {
				result.Blockers = append(result.Blockers, fmt.Sprintf("missing required check %q", c))
			} else {
				exitCode := latestCheckExitCode(state, phase, c)
				result.Blockers = append(result.Blockers, fmt.Sprintf("check %q failed with exit code %d", c, exitCode))
			}
		}
	}

	if def.ConsensusThreshold != nil {
		consensusType := pipeline.ArtifactConsensus
		if !hasArtifactInPhase(state, consensusType, phase) {
			result.Blockers = append(result.Blockers, fmt.Sprintf("missing consensus artifact in phase %s", phase))
		} else {
			existing, hasExisting := state.GateResults[phase]
			var weighted float64
			if hasExisting && existing.Score != nil {
				weighted = *existing.Score
			}
			result.Score = floatPtr(weighted)
			if hasExisting {
				result.ConsensusScore = existing.ConsensusScore
			}
			if weighted < *def.ConsensusThreshold {
				result.Blockers = append(result.Blockers, fmt.Sprintf("consensus score %.2f below threshold %.2f", weighted, *def.ConsensusThreshold))
			}
		}
	}

	if def.RequireAuditReportAnywhere && !state.HasArtifactAnywhere(pipeline.ArtifactAuditReport) {
		result.Blockers = append(result.Blockers, "no audit_report artifact found anywhere in pipeline state")
	}

	result.Pass = len(result.Blockers) == 0
	return result
}

func floatPtr(v float64) *float64 { return &v }

func hasArtifactInPhase(state *pipeline.PipelineState, t pipeline.ArtifactType, phase pipeline.Phase) bool {
	return len(state.ArtifactsOfTypeInPhase(t, phase)) > 0
}

func latestCheckStatus(state *pipeline.PipelineState, phase pipeline.Phase, c pipeline.CheckType) (pipeline.CheckStatus, bool) {
	results := state.GateChecks[phase]
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].CheckType == c {
			return results[i].Status, true
		}
	}
	return "", false
}

func latestCheckExitCode(state *pipeline.PipelineState, phase pipeline.Phase, c pipeline.CheckType) int {
	results := state.GateChecks[phase]
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].CheckType == c {
			return results[i].ExitCode
		}
	}
	return 0
}

// NextPhase returns the phase that follows current in the linear sequence.
func NextPhase(current pipeline.Phase) (pipeline.Phase, bool) {
	return current.Next()
}

// CanTransition reports whether moving from "from" to "to" is allowed: "to"
// must be in from's allowed-transitions list, and from's gate must pass.
func CanTransition(from, to pipeline.Phase, state *pipeline.PipelineState, constitution ConstitutionStatus) bool {
	def := DefinitionFor(from)
	allowed := false
	for _, p := range def.AllowedTransitions {
		if p == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	return Evaluate(from, state, constitution).Pass
}

// MergeGateResult combines a freshly computed GateResult with any
// pre-existing entry for the same phase, preserving Score/ConsensusScore
// values a consensus-phase handler previously wrote — the engine never
// recomputes those itself.
func MergeGateResult(prior pipeline.GateResult, fresh pipeline.GateResult) pipeline.GateResult {
	merged := fresh
	if merged.Score == nil && prior.Score != nil {
		merged.Score = prior.Score
	}
	if merged.ConsensusScore == nil && prior.ConsensusScore != nil {
		merged.ConsensusScore = prior.ConsensusScore
	}
	return merged
}
