// Package changerequest routes change requests to the consensus/QA phase
// that must re-approve them, and builds the packets the journal persists.
package changerequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// routeTable is the closed map from change type to the phase that must
// re-consent to it.
var routeTable = map[pipeline.ChangeType]pipeline.Phase{
	pipeline.ChangeScope:        pipeline.PhaseConsensusMasterPlan,
	pipeline.ChangeArchitecture: pipeline.PhaseConsensusArchitecture,
	pipeline.ChangeDependency:   pipeline.PhaseConsensusRolePlans,
	pipeline.ChangeConfig:       pipeline.PhaseQAValidation,
	pipeline.ChangeRequirement:  pipeline.PhaseConsensusMasterPlan,
}

// Route returns the phase a change request of the given type must be
// re-approved at.
func Route(changeType pipeline.ChangeType) pipeline.Phase {
	return routeTable[changeType]
}

// Build constructs a full ChangeRequest record, routing it to its target
// phase and stamping a fresh ID and timestamp.
func Build(originPhase pipeline.Phase, requestedBy pipeline.Role, changeType pipeline.ChangeType, description, justification string, impact pipeline.ImpactAnalysis) pipeline.ChangeRequest {
	return pipeline.ChangeRequest{
		CRID:           uuid.New().String(),
		Timestamp:      time.Now(),
		OriginPhase:    originPhase,
		RequestedBy:    requestedBy,
		ChangeType:     changeType,
		Description:    description,
		Justification:  justification,
		ImpactAnalysis: impact,
		Status:         pipeline.CRProposed,
	}
}

// ToPending compacts a full ChangeRequest into the record PipelineState
// carries on its pending list.
func ToPending(cr pipeline.ChangeRequest) pipeline.PendingChangeRequest {
	return pipeline.PendingChangeRequest{
		CRID:        cr.CRID,
		ChangeType:  cr.ChangeType,
		TargetPhase: Route(cr.ChangeType),
		Status:      cr.Status,
	}
}
