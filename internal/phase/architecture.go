package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Architecture runs the architect role over the approved master plan and
// stores the resulting architecture document.
func Architecture(ctx *Context) (Result, error) {
	plan, found := ctx.State.LatestArtifactOfType(pipeline.ArtifactMasterPlan)
	if !found {
		return Result{}, fmt.Errorf("architecture: no approved master plan found")
	}

	output, err := runRole(ctx, pipeline.RoleArchitect,
		"Design the system architecture from the approved master plan. Structure it with labeled "+
			"markdown sections: \"Acceptance Criteria\", \"Constraints\", \"Artifact Dependencies\", "+
			"and \"Open Questions\", one bullet per line under each.",
		map[string]string{"MASTER_PLAN_PATH": plan.Path})
	if err != nil {
		return Result{}, fmt.Errorf("running architect: %w", err)
	}

	entry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactArchitecture, output, pipeline.PhaseArchitecture, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing architecture document: %w", err)
	}

	return Result{NewArtifacts: []pipeline.ArtifactEntry{entry}}, nil
}
