package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/check"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// QAValidation runs the resolved build/test/lint/typecheck/migration checks,
// stores each as a typed artifact, and asks the QA role to summarize the
// run as a qa_validation artifact.
func QAValidation(ctx *Context) (Result, error) {
	if ctx.State.ResolvedCommands == nil {
		return Result{}, fmt.Errorf("qa_validation: no resolved commands; run IMPLEMENTATION first")
	}

	checkResults := check.RunAll(ctx, *ctx.State.ResolvedCommands, ctx.ProjectDir, 0)

	var result Result
	result.NewGateChecks = checkResults

	checkEntries, err := check.StoreCheckResults(ctx.Store, checkResults, pipeline.PhaseQAValidation)
	if err != nil {
		return Result{}, fmt.Errorf("storing check results: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, checkEntries...)

	summary := summarizeChecks(checkResults)
	output, err := runRole(ctx, pipeline.RoleQATester,
		"Summarize the check run and flag anything that needs manual verification.\n\n${CHECK_SUMMARY}",
		map[string]string{"CHECK_SUMMARY": summary})
	if err != nil {
		return Result{}, fmt.Errorf("running QA tester: %w", err)
	}
	qaEntry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactQAValidation, output, pipeline.PhaseQAValidation, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing qa_validation artifact: %w", err)
	}
	result.NewArtifacts = append(result.NewArtifacts, qaEntry)

	return result, nil
}

func summarizeChecks(results []pipeline.GateCheckResult) string {
	summary := ""
	for _, r := range results {
		summary += fmt.Sprintf("%s: %s (exit %d)\n", r.CheckType, r.Status, r.ExitCode)
	}
	return summary
}
