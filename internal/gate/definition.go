// Package gate implements the pure phase-gate state machine: per-phase
// artifact/check requirements, evaluation against pipeline state, and
// transition rules. Nothing in this package performs I/O.
package gate

import "github.com/popeye-dev/popeye/internal/pipeline"

// Definition is a phase's gate: what must be true of pipeline state for the
// phase to pass, and where it is allowed to go next.
type Definition struct {
	RequiredArtifacts  []pipeline.ArtifactType
	RequiredChecks     []pipeline.CheckType
	ConsensusThreshold *float64
	MinReviewers       int
	AllowedTransitions []pipeline.Phase
	// RequireAuditReportAnywhere is PRODUCTION_GATE's extra rule: an
	// audit_report must exist somewhere in state, not necessarily produced
	// in this phase.
	RequireAuditReportAnywhere bool
}

func threshold(v float64) *float64 { return &v }

var nonTerminalPhases = func() []pipeline.Phase {
	var out []pipeline.Phase
	for _, p := range pipeline.AllPhases() {
		if !p.IsTerminal() {
			out = append(out, p)
		}
	}
	return out
}()

// definitions is the closed table of per-phase gates, keyed by the 14 phase
// tags. Built once at package init.
var definitions = map[pipeline.Phase]Definition{
	pipeline.PhaseIntake: {
		RequiredArtifacts: []pipeline.ArtifactType{
			pipeline.ArtifactMasterPlan,
			pipeline.ArtifactRepoSnapshot,
			pipeline.ArtifactConstitution,
		},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseConsensusMasterPlan},
	},
	pipeline.PhaseConsensusMasterPlan: {
		ConsensusThreshold: threshold(0.95),
		MinReviewers:       2,
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseArchitecture},
	},
	pipeline.PhaseArchitecture: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactArchitecture},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseConsensusArchitecture},
	},
	pipeline.PhaseConsensusArchitecture: {
		ConsensusThreshold: threshold(0.95),
		MinReviewers:       2,
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseRolePlanning},
	},
	pipeline.PhaseRolePlanning: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactRolePlan},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseConsensusRolePlans},
	},
	pipeline.PhaseConsensusRolePlans: {
		ConsensusThreshold: threshold(0.95),
		MinReviewers:       2,
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseImplementation},
	},
	pipeline.PhaseImplementation: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactRepoSnapshot},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseQAValidation},
	},
	pipeline.PhaseQAValidation: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactQAValidation},
		RequiredChecks:     []pipeline.CheckType{pipeline.CheckTest},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseReview},
	},
	pipeline.PhaseReview: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactReviewDecision},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseAudit, pipeline.PhaseConsensusMasterPlan, pipeline.PhaseConsensusArchitecture, pipeline.PhaseConsensusRolePlans, pipeline.PhaseQAValidation},
	},
	pipeline.PhaseAudit: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactAuditReport},
		AllowedTransitions: []pipeline.Phase{pipeline.PhaseProductionGate, pipeline.PhaseConsensusMasterPlan, pipeline.PhaseConsensusArchitecture, pipeline.PhaseConsensusRolePlans, pipeline.PhaseQAValidation},
	},
	pipeline.PhaseProductionGate: {
		RequiredArtifacts: []pipeline.ArtifactType{pipeline.ArtifactProductionReadiness},
		RequiredChecks: []pipeline.CheckType{
			pipeline.CheckBuild, pipeline.CheckTest, pipeline.CheckLint, pipeline.CheckTypecheck,
		},
		RequireAuditReportAnywhere: true,
		AllowedTransitions:         []pipeline.Phase{pipeline.PhaseDone},
	},
	pipeline.PhaseDone: {
		RequiredArtifacts: []pipeline.ArtifactType{
			pipeline.ArtifactReleaseNotes,
			pipeline.ArtifactDeployment,
			pipeline.ArtifactRollback,
		},
		AllowedTransitions: nil,
	},
	pipeline.PhaseRecoveryLoop: {
		RequiredArtifacts:  []pipeline.ArtifactType{pipeline.ArtifactRCAReport},
		AllowedTransitions: nonTerminalPhases,
	},
	pipeline.PhaseStuck: {
		AllowedTransitions: nil,
	},
}

// DefinitionFor returns the gate definition for a phase. Phases outside the
// closed set return the zero Definition.
func DefinitionFor(p pipeline.Phase) Definition {
	return definitions[p]
}
