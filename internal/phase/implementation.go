package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/resolvecmd"
	"github.com/popeye-dev/popeye/internal/snapshot"
)

// Implementation runs one coding turn per approved role plan, each under the
// role implementerFor picks (always BACKEND_PROGRAMMER; ActiveRoles is not
// consulted), then re-snapshots the repo and re-resolves check commands so
// later phases see the code those turns just wrote.
func Implementation(ctx *Context) (Result, error) {
	rolePlans := ctx.State.ArtifactsOfType(pipeline.ArtifactRolePlan)
	if len(rolePlans) == 0 {
		return Result{}, fmt.Errorf("implementation: no approved role plans found")
	}

	var result Result
	for _, plan := range rolePlans {
		if _, err := runRole(ctx, implementerFor(plan),
			"Implement your plan against the current repo state.",
			map[string]string{"ROLE_PLAN_PATH": plan.Path}); err != nil {
			return Result{}, fmt.Errorf("implementing plan %s: %w", plan.ID, err)
		}
	}

	snap, err := snapshot.Generate(ctx.ProjectDir)
	if err != nil {
		return Result{}, fmt.Errorf("re-snapshotting repo: %w", err)
	}
	snapEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactRepoSnapshot, snap, pipeline.PhaseImplementation, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing repo snapshot: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, snapEntry)
	result.LatestRepoSnapshot = &snap

	commands := resolvecmd.Resolve(resolvecmd.Snapshot{
		LanguagesDetected: snap.LanguagesDetected,
		PackageManager:    snap.PackageManager,
		Scripts:           snap.Scripts,
		TestFramework:     snap.TestFramework,
		BuildTool:         snap.BuildTool,
		MigrationsPresent: snap.MigrationsPresent,
		HasTypeScript:     snap.HasTypeScript,
		HasPrismaSchema:   snap.HasPrismaSchema,
		HasAlembic:        snap.HasAlembic,
	}, nil)
	result.ResolvedCommands = &commands

	cmdEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactResolvedCommands, commands, pipeline.PhaseImplementation, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing resolved commands: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, cmdEntry)

	return result, nil
}

// implementerFor picks the coding role most likely to own a given role
// plan's artifact; role identity isn't carried on ArtifactEntry, so this
// falls back to the generalist backend role. Good enough for dispatch
// purposes: the executor resolves the real author from the plan's content.
func implementerFor(plan pipeline.ArtifactEntry) pipeline.Role {
	return pipeline.RoleBackendProgrammer
}
