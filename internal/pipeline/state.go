package pipeline

import "github.com/popeye-dev/popeye/internal/resolvecmd"

// DefaultMaxRecoveryIterations is the recovery budget before the
// orchestrator gives up and routes to STUCK.
const DefaultMaxRecoveryIterations = 5

// PipelineState is the single mutable, persisted document the orchestrator
// drives. It is owned by the orchestrator and mutated sequentially between
// gate evaluations; handlers receive a pointer to it (via phase.Context),
// only read it, and their artifact/result contributions are merged back at
// end-of-phase.
type PipelineState struct {
	PipelinePhase         Phase                        `json:"pipeline_phase"`
	Artifacts             []ArtifactEntry              `json:"artifacts"`
	RecoveryCount         int                           `json:"recovery_count"`
	MaxRecoveryIterations int                           `json:"max_recovery_iterations"`
	GateResults           map[Phase]GateResult          `json:"gate_results"`
	GateChecks            map[Phase][]GateCheckResult   `json:"gate_checks"`
	ActiveRoles           []Role                        `json:"active_roles"`
	ConstitutionHash      string                        `json:"constitution_hash"`
	LatestRepoSnapshot    *RepoSnapshot                 `json:"latest_repo_snapshot,omitempty"`
	ResolvedCommands      *resolvecmd.ResolvedCommands  `json:"resolved_commands,omitempty"`
	FailedPhase           Phase                         `json:"failed_phase,omitempty"`
	PendingChangeRequests []PendingChangeRequest        `json:"pending_change_requests"`
	SessionGuidance       string                        `json:"session_guidance,omitempty"`
}

// NewState returns a freshly initialized PipelineState at INTAKE.
func NewState() *PipelineState {
	return &PipelineState{
		PipelinePhase:         PhaseIntake,
		MaxRecoveryIterations: DefaultMaxRecoveryIterations,
		GateResults:           make(map[Phase]GateResult),
		GateChecks:            make(map[Phase][]GateCheckResult),
	}
}

// ArtifactsOfType returns every artifact entry of the given type, in the
// order they were appended (append order tracks timestamp-ascending because
// the orchestrator only ever appends).
func (s *PipelineState) ArtifactsOfType(t ArtifactType) []ArtifactEntry {
	var out []ArtifactEntry
	for _, a := range s.Artifacts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// ArtifactsOfTypeInPhase returns every artifact of the given type produced
// during the given phase.
func (s *PipelineState) ArtifactsOfTypeInPhase(t ArtifactType, phase Phase) []ArtifactEntry {
	var out []ArtifactEntry
	for _, a := range s.Artifacts {
		if a.Type == t && a.Phase == phase {
			out = append(out, a)
		}
	}
	return out
}

// LatestArtifactOfType returns the most recently appended artifact of the
// given type, or false if none exists.
func (s *PipelineState) LatestArtifactOfType(t ArtifactType) (ArtifactEntry, bool) {
	matches := s.ArtifactsOfType(t)
	if len(matches) == 0 {
		return ArtifactEntry{}, false
	}
	return matches[len(matches)-1], true
}

// HasArtifactAnywhere reports whether any artifact of the given type exists,
// regardless of which phase produced it.
func (s *PipelineState) HasArtifactAnywhere(t ArtifactType) bool {
	return len(s.ArtifactsOfType(t)) > 0
}

// FirstProposedCR returns the first pending change request with
// status=proposed, or false if none.
func (s *PipelineState) FirstProposedCR() (PendingChangeRequest, int, bool) {
	for i, cr := range s.PendingChangeRequests {
		if cr.Status == CRProposed {
			return cr, i, true
		}
	}
	return PendingChangeRequest{}, -1, false
}
