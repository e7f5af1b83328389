package phase

import (
	"fmt"
	"time"

	"github.com/popeye-dev/popeye/internal/check"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// ProductionGate runs the full check suite plus the specialized
// placeholder, env, and start checks, then asks the release manager role
// for a production_readiness verdict.
func ProductionGate(ctx *Context) (Result, error) {
	if ctx.State.ResolvedCommands == nil {
		return Result{}, fmt.Errorf("production_gate: no resolved commands; run IMPLEMENTATION first")
	}
	commands := *ctx.State.ResolvedCommands

	var result Result
	checkResults := check.RunAll(ctx, commands, ctx.ProjectDir, 0)
	result.NewGateChecks = append(result.NewGateChecks, checkResults...)

	placeholderResult := check.RunPlaceholderScan(ctx.ProjectDir)
	result.NewGateChecks = append(result.NewGateChecks, placeholderResult)

	envResult := check.RunEnvCheck(ctx.ProjectDir)
	result.NewGateChecks = append(result.NewGateChecks, envResult)

	if commands.Start != "" {
		startResult := check.RunStartCheck(ctx, commands.Start, ctx.ProjectDir, check.StartCheckOptions{Timeout: 10 * time.Second})
		result.NewGateChecks = append(result.NewGateChecks, startResult)
	}

	entries, err := check.StoreCheckResults(ctx.Store, result.NewGateChecks, pipeline.PhaseProductionGate)
	if err != nil {
		return Result{}, fmt.Errorf("storing check results: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, entries...)

	summary := summarizeChecks(result.NewGateChecks)
	output, err := runRole(ctx, pipeline.RoleReleaseManager,
		"Decide whether this build is production-ready given the check run below.\n\n${CHECK_SUMMARY}",
		map[string]string{"CHECK_SUMMARY": summary})
	if err != nil {
		return Result{}, fmt.Errorf("running release manager: %w", err)
	}
	verdictEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactProductionReadiness, output, pipeline.PhaseProductionGate, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing production_readiness verdict: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, verdictEntry)

	return result, nil
}
