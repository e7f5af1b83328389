package consensus

import (
	"strings"
	"testing"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

func TestBuildPromptRendersProposedArtifactsAndDependencies(t *testing.T) {
	packet := pipeline.PlanPacket{
		Phase:                pipeline.PhaseConsensusArchitecture,
		SubmittedBy:          pipeline.RoleArchitect,
		ProposedArtifacts:    []pipeline.ArtifactRef{{Type: pipeline.ArtifactArchitecture, Path: "docs/architecture.md", Version: 1}},
		References:           pipeline.PlanPacketRefs{MasterPlan: &pipeline.ArtifactRef{Path: "docs/master_plan.md", Version: 1}},
		AcceptanceCriteria:   []string{"endpoint returns 200"},
		Constraints:          []string{"no new dependency"},
		ArtifactDependencies: []string{"master_plan"},
	}

	prompt := BuildPrompt(packet)

	for _, want := range []string{"docs/architecture.md", "docs/master_plan.md", "endpoint returns 200", "no new dependency", "master_plan"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptEmptyPacketStillNamesThePhase(t *testing.T) {
	prompt := BuildPrompt(pipeline.PlanPacket{Phase: pipeline.PhaseConsensusMasterPlan})
	if !strings.Contains(prompt, string(pipeline.PhaseConsensusMasterPlan)) {
		t.Errorf("expected prompt to name the phase, got:\n%s", prompt)
	}
}
