package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// implementationRoles are the roles that produce a role plan during
// ROLE_PLANNING when PipelineState.ActiveRoles hasn't narrowed the set.
var implementationRoles = []pipeline.Role{
	pipeline.RoleDBExpert,
	pipeline.RoleBackendProgrammer,
	pipeline.RoleFrontendProgrammer,
	pipeline.RoleWebsiteProgrammer,
}

// RolePlanning asks each active implementation role for its plan against
// the approved architecture, storing one role_plan artifact per role.
func RolePlanning(ctx *Context) (Result, error) {
	arch, found := ctx.State.LatestArtifactOfType(pipeline.ArtifactArchitecture)
	if !found {
		return Result{}, fmt.Errorf("role_planning: no approved architecture found")
	}

	roles := ctx.State.ActiveRoles
	if len(roles) == 0 {
		roles = implementationRoles
	}

	var result Result
	for _, role := range roles {
		output, err := runRole(ctx, role,
			"Write your implementation plan against the approved architecture. Structure it with "+
				"labeled markdown sections: \"Acceptance Criteria\", \"Constraints\", \"Artifact "+
				"Dependencies\", and \"Open Questions\", one bullet per line under each.",
			map[string]string{"ARCHITECTURE_PATH": arch.Path, "ROLE": string(role)})
		if err != nil {
			return Result{}, fmt.Errorf("running %s: %w", role, err)
		}
		entry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactRolePlan, output, pipeline.PhaseRolePlanning, "")
		if err != nil {
			return Result{}, fmt.Errorf("storing role plan for %s: %w", role, err)
		}
		result.NewArtifacts = append(result.NewArtifacts, entry)
	}
	return result, nil
}
