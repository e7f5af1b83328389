// Package pipeline holds the core data model of the orchestration engine:
// phases, roles, artifacts, gate/check results, and the persisted
// PipelineState that the orchestrator mutates from phase handlers' results.
package pipeline

// Phase is one of the 14 pipeline phase tags.
type Phase string

const (
	PhaseIntake                 Phase = "INTAKE"
	PhaseConsensusMasterPlan    Phase = "CONSENSUS_MASTER_PLAN"
	PhaseArchitecture           Phase = "ARCHITECTURE"
	PhaseConsensusArchitecture  Phase = "CONSENSUS_ARCHITECTURE"
	PhaseRolePlanning           Phase = "ROLE_PLANNING"
	PhaseConsensusRolePlans     Phase = "CONSENSUS_ROLE_PLANS"
	PhaseImplementation         Phase = "IMPLEMENTATION"
	PhaseQAValidation           Phase = "QA_VALIDATION"
	PhaseReview                 Phase = "REVIEW"
	PhaseAudit                  Phase = "AUDIT"
	PhaseProductionGate         Phase = "PRODUCTION_GATE"
	PhaseDone                   Phase = "DONE"
	PhaseRecoveryLoop           Phase = "RECOVERY_LOOP"
	PhaseStuck                  Phase = "STUCK"
)

// linearSequence is the fixed, in-order, non-terminal pipeline. DONE follows
// PRODUCTION_GATE; RECOVERY_LOOP and STUCK are out-of-band and never appear
// here.
var linearSequence = []Phase{
	PhaseIntake,
	PhaseConsensusMasterPlan,
	PhaseArchitecture,
	PhaseConsensusArchitecture,
	PhaseRolePlanning,
	PhaseConsensusRolePlans,
	PhaseImplementation,
	PhaseQAValidation,
	PhaseReview,
	PhaseAudit,
	PhaseProductionGate,
	PhaseDone,
}

// IsTerminal reports whether the phase ends the pipeline.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseStuck
}

// IsOutOfBand reports whether the phase sits outside the linear sequence.
func (p Phase) IsOutOfBand() bool {
	return p == PhaseRecoveryLoop || p == PhaseStuck
}

// Next returns the phase that follows p in the linear sequence. It returns
// ("", false) for PhaseDone, PhaseStuck, and any phase not found in the
// linear sequence (RECOVERY_LOOP has no fixed successor — the orchestrator
// decides it from RCA or the recorded failed phase).
func (p Phase) Next() (Phase, bool) {
	for i, cur := range linearSequence {
		if cur == p {
			if i+1 < len(linearSequence) {
				return linearSequence[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// IsConsensusPhase reports whether p is one of the three consensus gates.
func (p Phase) IsConsensusPhase() bool {
	switch p {
	case PhaseConsensusMasterPlan, PhaseConsensusArchitecture, PhaseConsensusRolePlans:
		return true
	default:
		return false
	}
}

// AllPhases returns every phase tag, linear sequence first, then the two
// out-of-band tags. Useful for validation and for building dispatch tables.
func AllPhases() []Phase {
	all := make([]Phase, 0, len(linearSequence)+2)
	all = append(all, linearSequence...)
	all = append(all, PhaseRecoveryLoop, PhaseStuck)
	return all
}
