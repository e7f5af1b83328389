// Package rca builds the root-cause-analysis packet RECOVERY_LOOP produces,
// as a pure function alongside the other packet builders.
package rca

import "github.com/popeye-dev/popeye/internal/pipeline"

// rewindTarget is the closed map from a failed phase to the phase
// RECOVERY_LOOP rewinds to, per spec: PRODUCTION_GATE, AUDIT, and
// QA_VALIDATION all rewind to IMPLEMENTATION; each CONSENSUS_* phase
// rewinds to the planning phase that precedes it.
var rewindTarget = map[pipeline.Phase]pipeline.Phase{
	pipeline.PhaseProductionGate:        pipeline.PhaseImplementation,
	pipeline.PhaseAudit:                 pipeline.PhaseImplementation,
	pipeline.PhaseQAValidation:          pipeline.PhaseImplementation,
	pipeline.PhaseConsensusMasterPlan:   pipeline.PhaseIntake,
	pipeline.PhaseConsensusArchitecture: pipeline.PhaseArchitecture,
	pipeline.PhaseConsensusRolePlans:    pipeline.PhaseRolePlanning,
}

// RewindTargetFor returns the phase RECOVERY_LOOP should rewind to for a
// given failed phase, and whether a target is defined for it.
func RewindTargetFor(failedPhase pipeline.Phase) (pipeline.Phase, bool) {
	target, ok := rewindTarget[failedPhase]
	return target, ok
}

// Build constructs an RCAPacket for a failed phase. The rewind target is
// looked up from rewindTarget; a failed phase with no defined target
// (REVIEW or IMPLEMENTATION itself) leaves RequiresPhaseRewindTo empty,
// signaling the orchestrator to retry the same failed phase.
func Build(failedPhase pipeline.Phase, summary string, symptoms []string, rootCause, responsibleLayer, governanceGap string, correctiveActions []string, prevention string) pipeline.RCAPacket {
	packet := pipeline.RCAPacket{
		IncidentSummary:   summary,
		Symptoms:          symptoms,
		RootCause:         rootCause,
		ResponsibleLayer:  responsibleLayer,
		OriginPhase:       failedPhase,
		GovernanceGap:     governanceGap,
		CorrectiveActions: correctiveActions,
		Prevention:        prevention,
	}
	if target, ok := RewindTargetFor(failedPhase); ok {
		packet.RequiresPhaseRewindTo = target
	}
	return packet
}
