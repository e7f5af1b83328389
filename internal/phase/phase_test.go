package phase

import (
	"context"
	"testing"

	"github.com/popeye-dev/popeye/internal/artifact"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/skill"
)

// fakeConsensusRunner returns a scripted ConsensusPacket without running
// any real reviewer fan-out.
type fakeConsensusRunner struct {
	packet pipeline.ConsensusPacket
	err    error
}

func (f *fakeConsensusRunner) RunStructuredConsensus(ctx context.Context, packet pipeline.PlanPacket, rules pipeline.ConsensusRules, planRef pipeline.ArtifactRef) (pipeline.ConsensusPacket, error) {
	return f.packet, f.err
}

// capturingConsensusRunner records the packet it was invoked with, for
// assertions on what Consensus built before handing it off.
type capturingConsensusRunner struct {
	packet   pipeline.ConsensusPacket
	err      error
	captured *pipeline.PlanPacket
}

func (f *capturingConsensusRunner) RunStructuredConsensus(ctx context.Context, packet pipeline.PlanPacket, rules pipeline.ConsensusRules, planRef pipeline.ArtifactRef) (pipeline.ConsensusPacket, error) {
	*f.captured = packet
	return f.packet, f.err
}

func newTestDeps(t *testing.T, executor Executor, consensusRunner ConsensusRunner) (Deps, *artifact.Manager) {
	t.Helper()
	dir := t.TempDir()
	mgr := artifact.New(dir)
	if err := mgr.EnsureDocsStructure(); err != nil {
		t.Fatalf("EnsureDocsStructure: %v", err)
	}
	return Deps{
		Store:      mgr,
		Executor:   executor,
		Skills:     skill.NewLoader(dir),
		Consensus:  consensusRunner,
		ProjectDir: dir,
	}, mgr
}

func newTestContext(t *testing.T, state *pipeline.PipelineState, executor Executor, consensusRunner ConsensusRunner) *Context {
	t.Helper()
	deps, _ := newTestDeps(t, executor, consensusRunner)
	return &Context{Context: context.Background(), Deps: deps, State: state}
}
