// Package phase implements the per-phase dispatch table: one Handler per
// pipeline.Phase, each translating a phase's contract into artifact-store
// writes, consensus rounds, check runs, or role-executor calls.
package phase

import (
	"context"

	"github.com/popeye-dev/popeye/internal/consensus"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/skill"
)

// Store is the artifact-manager contract phase handlers write through.
type Store interface {
	CreateAndStoreText(t pipeline.ArtifactType, markdown string, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error)
	CreateAndStoreJson(t pipeline.ArtifactType, obj any, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error)
	ReadArtifact(e pipeline.ArtifactEntry) ([]byte, error)
}

// ExecutionRequest is what a phase handler hands to an Executor to produce
// one role's output for the current phase.
type ExecutionRequest struct {
	Role           pipeline.Role
	SystemPrompt   string
	Prompt         string
	Vars           map[string]string
	Constraints    []string
	AllowedPaths   []string
	ForbiddenPaths []string
}

// ExecutionResponse is an Executor's rendered output for one request.
type ExecutionResponse struct {
	Output string
}

// Executor is the out-of-scope collaborator that actually invokes a role's
// reasoning backend (an LLM provider, typically) and returns its rendered
// output. No concrete implementation lives in this module; phase handlers
// depend only on this interface.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (ExecutionResponse, error)
}

// SkillLoader is the loader contract handlers use to resolve a role's
// system prompt and constraints.
type SkillLoader interface {
	Load(role pipeline.Role) (skill.Definition, error)
}

// ConsensusRunner is the consensus-engine contract handlers use to run a
// structured consensus round over a plan packet.
type ConsensusRunner interface {
	RunStructuredConsensus(ctx context.Context, packet pipeline.PlanPacket, rules pipeline.ConsensusRules, planRef pipeline.ArtifactRef) (pipeline.ConsensusPacket, error)
}

// Deps bundles every collaborator a phase handler may need. Not every
// handler uses every field.
type Deps struct {
	Store      Store
	Executor   Executor
	Skills     SkillLoader
	Consensus  ConsensusRunner
	ProjectDir string
}

// Context carries one phase invocation's state and collaborators. Handlers
// read State but never mutate it in place; requested mutations travel back
// to the orchestrator on Result.
type Context struct {
	context.Context
	Deps
	State *pipeline.PipelineState
}

// consensusDefaultRules returns the rules a consensus phase runs under,
// read from the gate definition's threshold and minimum reviewer count.
func consensusDefaultRules(threshold float64, minReviewers int) pipeline.ConsensusRules {
	return pipeline.ConsensusRules{
		Threshold:    threshold,
		Quorum:       minReviewers,
		MinReviewers: minReviewers,
	}
}

var _ ConsensusRunner = (*consensus.Runner)(nil)
