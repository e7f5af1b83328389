package phase

import (
	"testing"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

func storeSnapshot(t *testing.T, ctx *Context, phase pipeline.Phase, snap pipeline.RepoSnapshot) pipeline.ArtifactEntry {
	t.Helper()
	entry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactRepoSnapshot, snap, phase, "")
	if err != nil {
		t.Fatalf("storing snapshot: %v", err)
	}
	return entry
}

func TestReviewRaisesChangeRequestOnConfigDrift(t *testing.T) {
	state := pipeline.NewState()
	ctx := newTestContext(t, state, NewScriptedExecutor(map[pipeline.Role]string{
		pipeline.RoleReviewer: "Looks fine overall.",
	}), nil)

	before := storeSnapshot(t, ctx, pipeline.PhaseConsensusRolePlans, pipeline.RepoSnapshot{
		ConfigFiles: []string{"package.json"}, TotalLines: 100,
	})
	after := storeSnapshot(t, ctx, pipeline.PhaseImplementation, pipeline.RepoSnapshot{
		ConfigFiles: []string{"package.json", "docker-compose.yml"}, TotalLines: 120,
	})
	state.Artifacts = append(state.Artifacts, before, after)

	result, err := Review(ctx)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(result.NewChangeRequests) != 1 {
		t.Fatalf("expected one change request from config drift, got %d", len(result.NewChangeRequests))
	}
	if result.NewChangeRequests[0].TargetPhase != pipeline.PhaseQAValidation {
		t.Errorf("expected config CR routed to QA_VALIDATION, got %s", result.NewChangeRequests[0].TargetPhase)
	}
}

func TestReviewRaisesChangeRequestOnLargeLineDelta(t *testing.T) {
	state := pipeline.NewState()
	ctx := newTestContext(t, state, NewScriptedExecutor(nil), nil)

	before := storeSnapshot(t, ctx, pipeline.PhaseConsensusRolePlans, pipeline.RepoSnapshot{TotalLines: 100})
	after := storeSnapshot(t, ctx, pipeline.PhaseImplementation, pipeline.RepoSnapshot{TotalLines: 100 + lineDeltaThreshold + 1})
	state.Artifacts = append(state.Artifacts, before, after)

	result, err := Review(ctx)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(result.NewChangeRequests) != 1 {
		t.Fatalf("expected one change request from line delta, got %d", len(result.NewChangeRequests))
	}
}

func TestReviewNoChangeRequestWhenStable(t *testing.T) {
	state := pipeline.NewState()
	ctx := newTestContext(t, state, NewScriptedExecutor(nil), nil)

	before := storeSnapshot(t, ctx, pipeline.PhaseConsensusRolePlans, pipeline.RepoSnapshot{ConfigFiles: []string{"go.mod"}, TotalLines: 100})
	after := storeSnapshot(t, ctx, pipeline.PhaseImplementation, pipeline.RepoSnapshot{ConfigFiles: []string{"go.mod"}, TotalLines: 150})
	state.Artifacts = append(state.Artifacts, before, after)

	result, err := Review(ctx)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(result.NewChangeRequests) != 0 {
		t.Errorf("expected no change request, got %d", len(result.NewChangeRequests))
	}
	if len(result.NewArtifacts) != 1 {
		t.Errorf("expected only the review_decision artifact, got %d", len(result.NewArtifacts))
	}
}
