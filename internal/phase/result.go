package phase

import (
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/resolvecmd"
)

// Result is a handler's requested mutation to PipelineState. The
// orchestrator applies it after the handler returns and before evaluating
// the phase's gate; a handler never mutates State directly.
type Result struct {
	NewArtifacts          []pipeline.ArtifactEntry
	NewGateChecks         []pipeline.GateCheckResult
	Score                 *float64
	ConsensusScore        *float64
	ConstitutionHash      string
	LatestRepoSnapshot    *pipeline.RepoSnapshot
	ResolvedCommands      *resolvecmd.ResolvedCommands
	NewChangeRequests     []pipeline.PendingChangeRequest
	RCA                   *pipeline.RCAPacket
	RequiresPhaseRewindTo pipeline.Phase
	Notes                 string
}

// Handler runs one phase's contract and reports what it produced. It must
// not panic on missing optional collaborators in Deps; it should instead
// return an error naming the missing one.
type Handler func(ctx *Context) (Result, error)
