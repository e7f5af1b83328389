package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/changerequest"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// lineDeltaThreshold is the heuristic past which REVIEW treats the
// implementation as a scope change worth re-consent, independent of
// whether any config file changed. Calibration is left as-is per the
// open question in spec.md — do not guess a per-language threshold.
const lineDeltaThreshold = 1000

// Review diffs the snapshot taken once role plans cleared consensus
// against the latest one (taken after implementation). A changed config
// file or a line-delta past lineDeltaThreshold raises a config change
// request and pushes it onto the pipeline's pending list; either way it
// records a review_decision.
func Review(ctx *Context) (Result, error) {
	beforeEntries := ctx.State.ArtifactsOfTypeInPhase(pipeline.ArtifactRepoSnapshot, pipeline.PhaseConsensusRolePlans)
	if len(beforeEntries) == 0 {
		return Result{}, fmt.Errorf("review: no repo snapshot captured at consensus_role_plans")
	}
	before := beforeEntries[len(beforeEntries)-1]

	snapshots := ctx.State.ArtifactsOfType(pipeline.ArtifactRepoSnapshot)
	if len(snapshots) == 0 {
		return Result{}, fmt.Errorf("review: no repo snapshot recorded")
	}
	after := snapshots[len(snapshots)-1]

	var beforeSnap, afterSnap pipeline.RepoSnapshot
	if err := ctx.readSnapshot(before, &beforeSnap); err != nil {
		return Result{}, fmt.Errorf("review: reading pre-implementation snapshot: %w", err)
	}
	if err := ctx.readSnapshot(after, &afterSnap); err != nil {
		return Result{}, fmt.Errorf("review: reading post-implementation snapshot: %w", err)
	}

	configsChanged := !sameStringSet(beforeSnap.ConfigFiles, afterSnap.ConfigFiles)
	lineDelta := afterSnap.TotalLines - beforeSnap.TotalLines
	if lineDelta < 0 {
		lineDelta = -lineDelta
	}

	output, err := runRole(ctx, pipeline.RoleReviewer,
		"Review the implementation diff against the plans approved before role planning.",
		map[string]string{"BEFORE_SNAPSHOT": before.Path, "AFTER_SNAPSHOT": after.Path})
	if err != nil {
		return Result{}, fmt.Errorf("running reviewer: %w", err)
	}

	entry, err := ctx.Store.CreateAndStoreText(pipeline.ArtifactReviewDecision, output, pipeline.PhaseReview, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing review decision: %w", err)
	}

	result := Result{NewArtifacts: []pipeline.ArtifactEntry{entry}}

	if configsChanged || lineDelta > lineDeltaThreshold {
		description := fmt.Sprintf("config files changed=%v, line delta=%d", configsChanged, lineDelta)
		cr := changerequest.Build(pipeline.PhaseReview, pipeline.RoleReviewer, pipeline.ChangeConfig, description, "snapshot drift detected at review", pipeline.ImpactAnalysis{
			RiskLevel: pipeline.RiskMedium,
		})
		result.NewChangeRequests = append(result.NewChangeRequests, changerequest.ToPending(cr))
		crEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactChangeRequest, cr, pipeline.PhaseReview, "")
		if err != nil {
			return Result{}, fmt.Errorf("storing change request: %w", err)
		}
		result.NewArtifacts = append(result.NewArtifacts, crEntry)
	}

	return result, nil
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}
	return true
}
