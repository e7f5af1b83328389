package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Done emits the three closing artifacts DONE's gate requires, then asks
// the release manager role for release notes content.
func Done(ctx *Context) (Result, error) {
	output, err := runRole(ctx, pipeline.RoleReleaseManager,
		"Write release notes for this change given the approved plans and production readiness verdict.",
		map[string]string{})
	if err != nil {
		return Result{}, fmt.Errorf("running release manager: %w", err)
	}

	var result Result
	notesEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactReleaseNotes, output, pipeline.PhaseDone, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing release_notes: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, notesEntry)

	deployEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactDeployment, "deployment recorded at phase DONE", pipeline.PhaseDone, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing deployment: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, deployEntry)

	rollbackEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactRollback, "rollback plan: revert to the previous deployment artifact", pipeline.PhaseDone, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing rollback: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, rollbackEntry)

	return result, nil
}
