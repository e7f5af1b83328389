package pipeline

// RCAPacket is a root-cause-analysis record produced by the RECOVERY_LOOP
// handler. RequiresPhaseRewindTo, when non-empty, tells the orchestrator to
// jump there instead of retrying the phase that failed.
type RCAPacket struct {
	IncidentSummary       string   `json:"incident_summary"`
	Symptoms              []string `json:"symptoms"`
	RootCause             string   `json:"root_cause"`
	ResponsibleLayer      string   `json:"responsible_layer"`
	OriginPhase           Phase    `json:"origin_phase"`
	GovernanceGap         string   `json:"governance_gap"`
	CorrectiveActions     []string `json:"corrective_actions"`
	Prevention            string   `json:"prevention"`
	RequiresPhaseRewindTo Phase    `json:"requires_phase_rewind_to,omitempty"`
	RequiresConsensusOn   []Phase  `json:"requires_consensus_on,omitempty"`
}
