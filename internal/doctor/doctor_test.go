package doctor

import (
	"context"
	"testing"

	"github.com/popeye-dev/popeye/internal/artifact"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

func TestRun_NoFailureIsANoop(t *testing.T) {
	dir := t.TempDir()
	mgr := artifact.New(dir)
	state := pipeline.NewState()

	if err := Run(context.Background(), mgr, state, dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_PrintsLatestRCAReport(t *testing.T) {
	dir := t.TempDir()
	mgr := artifact.New(dir)
	if err := mgr.EnsureDocsStructure(); err != nil {
		t.Fatalf("EnsureDocsStructure: %v", err)
	}

	packet := pipeline.RCAPacket{
		IncidentSummary:       "qa check failed",
		RootCause:             "test script exits 1",
		ResponsibleLayer:      "implementation",
		OriginPhase:           pipeline.PhaseQAValidation,
		RequiresPhaseRewindTo: pipeline.PhaseImplementation,
	}
	if _, err := mgr.CreateAndStoreJson(pipeline.ArtifactRCAReport, packet, pipeline.PhaseRecoveryLoop, ""); err != nil {
		t.Fatalf("storing rca_report: %v", err)
	}

	state := pipeline.NewState()
	state.FailedPhase = pipeline.PhaseQAValidation

	if err := Run(context.Background(), mgr, state, dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_PrintsStuckReport(t *testing.T) {
	dir := t.TempDir()
	mgr := artifact.New(dir)
	if err := mgr.EnsureDocsStructure(); err != nil {
		t.Fatalf("EnsureDocsStructure: %v", err)
	}

	if _, err := mgr.CreateAndStoreText(pipeline.ArtifactStuckReport, "stuck on QA_VALIDATION", pipeline.PhaseStuck, ""); err != nil {
		t.Fatalf("storing stuck_report: %v", err)
	}

	state := pipeline.NewState()
	state.PipelinePhase = pipeline.PhaseStuck

	if err := Run(context.Background(), mgr, state, dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
