package changerequest

import (
	"testing"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

func TestRouteMapsEveryChangeType(t *testing.T) {
	cases := map[pipeline.ChangeType]pipeline.Phase{
		pipeline.ChangeScope:        pipeline.PhaseConsensusMasterPlan,
		pipeline.ChangeArchitecture: pipeline.PhaseConsensusArchitecture,
		pipeline.ChangeDependency:   pipeline.PhaseConsensusRolePlans,
		pipeline.ChangeConfig:       pipeline.PhaseQAValidation,
		pipeline.ChangeRequirement:  pipeline.PhaseConsensusMasterPlan,
	}
	for changeType, want := range cases {
		if got := Route(changeType); got != want {
			t.Errorf("Route(%s) = %s, want %s", changeType, got, want)
		}
	}
}

func TestBuildAndToPending(t *testing.T) {
	cr := Build(pipeline.PhaseReview, pipeline.RoleReviewer, pipeline.ChangeConfig, "config drift", "lockfile changed", pipeline.ImpactAnalysis{
		RiskLevel: pipeline.RiskLow,
	})
	if cr.Status != pipeline.CRProposed {
		t.Errorf("expected proposed status, got %v", cr.Status)
	}
	if cr.CRID == "" {
		t.Error("expected a generated CR id")
	}

	pending := ToPending(cr)
	if pending.TargetPhase != pipeline.PhaseQAValidation {
		t.Errorf("expected QA_VALIDATION target phase, got %v", pending.TargetPhase)
	}
	if pending.Status != pipeline.CRProposed {
		t.Errorf("expected proposed status on pending record, got %v", pending.Status)
	}
}
