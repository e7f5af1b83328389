package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/constitution"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/snapshot"
)

// Intake produces the three artifacts INTAKE's gate requires: a master
// plan (from the dispatcher role), a repo snapshot, and the hashed
// constitution file.
func Intake(ctx *Context) (Result, error) {
	var result Result

	snap, err := snapshot.Generate(ctx.ProjectDir)
	if err != nil {
		return Result{}, fmt.Errorf("generating repo snapshot: %w", err)
	}
	snapEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactRepoSnapshot, snap, pipeline.PhaseIntake, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing repo snapshot: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, snapEntry)
	result.LatestRepoSnapshot = &snap

	constitutionEntry, hash, err := constitution.CreateArtifact(ctx.Store, ctx.ProjectDir)
	if err != nil {
		return Result{}, fmt.Errorf("storing constitution: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, constitutionEntry)
	result.ConstitutionHash = hash

	output, err := runRole(ctx, pipeline.RoleDispatcher,
		"Read the repo snapshot and constitution and produce a master plan for this ticket. "+
			"Structure it with labeled markdown sections: \"Acceptance Criteria\", \"Constraints\", "+
			"\"Artifact Dependencies\", and \"Open Questions\", one bullet per line under each.",
		map[string]string{"PROJECT_ROOT": ctx.ProjectDir})
	if err != nil {
		return Result{}, fmt.Errorf("running dispatcher: %w", err)
	}
	planEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactMasterPlan, output, pipeline.PhaseIntake, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing master plan: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, planEntry)

	return result, nil
}
