package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// runRole resolves role's skill definition and invokes the executor with a
// rendered prompt, returning the raw output text.
func runRole(ctx *Context, role pipeline.Role, promptTemplate string, vars map[string]string) (string, error) {
	if ctx.Executor == nil {
		return "", fmt.Errorf("phase %s: no executor configured for role %s", ctx.State.PipelinePhase, role)
	}
	if ctx.Skills == nil {
		return "", fmt.Errorf("phase %s: no skill loader configured", ctx.State.PipelinePhase)
	}
	def, err := ctx.Skills.Load(role)
	if err != nil {
		return "", fmt.Errorf("loading skill for %s: %w", role, err)
	}
	resp, err := ctx.Executor.Execute(ctx, ExecutionRequest{
		Role:           def.Role,
		SystemPrompt:   def.SystemPrompt,
		Prompt:         expandVars(promptTemplate, vars),
		Vars:           vars,
		Constraints:    def.Constraints,
		AllowedPaths:   def.AllowedPaths,
		ForbiddenPaths: def.ForbiddenPaths,
	})
	if err != nil {
		return "", err
	}
	return resp.Output, nil
}
