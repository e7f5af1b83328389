package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/gate"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/planpacket"
	"github.com/popeye-dev/popeye/internal/snapshot"
)

// consensusSource names, for each consensus phase, the artifact type the
// plan packet is built from and the phase that produced it.
var consensusSource = map[pipeline.Phase]struct {
	artifactType pipeline.ArtifactType
	sourcePhase  pipeline.Phase
}{
	pipeline.PhaseConsensusMasterPlan:   {pipeline.ArtifactMasterPlan, pipeline.PhaseIntake},
	pipeline.PhaseConsensusArchitecture: {pipeline.ArtifactArchitecture, pipeline.PhaseArchitecture},
	pipeline.PhaseConsensusRolePlans:    {pipeline.ArtifactRolePlan, pipeline.PhaseRolePlanning},
}

// Consensus runs a structured consensus round over whichever plan artifact
// the current consensus phase reviews, and stores the resulting packet. It
// handles all three CONSENSUS_* phases; which one is current is read from
// ctx.State.PipelinePhase.
func Consensus(ctx *Context) (Result, error) {
	phase := ctx.State.PipelinePhase
	src, ok := consensusSource[phase]
	if !ok {
		return Result{}, fmt.Errorf("consensus handler invoked for non-consensus phase %s", phase)
	}

	planEntry, found := ctx.State.LatestArtifactOfType(src.artifactType)
	if !found {
		return Result{}, fmt.Errorf("no %s artifact to review for %s", src.artifactType, phase)
	}
	planRef := pipeline.ArtifactRef{
		ArtifactID: planEntry.ID,
		Path:       planEntry.Path,
		SHA256:     planEntry.SHA256,
		Version:    planEntry.Version,
		Type:       planEntry.Type,
	}

	raw, err := ctx.Store.ReadArtifact(planEntry)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s for review: %w", src.artifactType, err)
	}
	sections := planpacket.Extract(string(raw))

	packet := pipeline.PlanPacket{
		Phase:                phase,
		SubmittedBy:          pipeline.RoleArchitect,
		Version:              planEntry.Version,
		ProposedArtifacts:    []pipeline.ArtifactRef{planRef},
		AcceptanceCriteria:   sections.AcceptanceCriteria,
		Constraints:          sections.Constraints,
		ArtifactDependencies: sections.ArtifactDependencies,
		OpenQuestions:        sections.OpenQuestions,
	}

	// References.MasterPlan cites the master plan as approved context for
	// later rounds; the master plan's own round has nothing to cite since
	// it IS the artifact under review.
	if phase != pipeline.PhaseConsensusMasterPlan {
		if masterPlan, found := ctx.State.LatestArtifactOfType(pipeline.ArtifactMasterPlan); found {
			packet.References.MasterPlan = &pipeline.ArtifactRef{
				ArtifactID: masterPlan.ID,
				Path:       masterPlan.Path,
				SHA256:     masterPlan.SHA256,
				Version:    masterPlan.Version,
				Type:       masterPlan.Type,
			}
		}
	}

	def := gate.DefinitionFor(phase)
	threshold := 0.0
	if def.ConsensusThreshold != nil {
		threshold = *def.ConsensusThreshold
	}
	rules := consensusDefaultRules(threshold, def.MinReviewers)

	if ctx.Consensus == nil {
		return Result{}, fmt.Errorf("phase %s: no consensus runner configured", phase)
	}
	packetResult, err := ctx.Consensus.RunStructuredConsensus(ctx, packet, rules, planRef)
	if err != nil {
		return Result{}, fmt.Errorf("running consensus: %w", err)
	}

	entry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactConsensus, packetResult, phase, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing consensus packet: %w", err)
	}

	var result Result
	result.NewArtifacts = append(result.NewArtifacts, entry)
	result.Score = floatPtr(packetResult.Result.WeightedScore)
	result.ConsensusScore = floatPtr(packetResult.Result.Score)

	// REVIEW diffs against the repo as it stood once role plans cleared
	// consensus, so that phase's gate needs a snapshot tagged here.
	if phase == pipeline.PhaseConsensusRolePlans {
		snap, err := snapshot.Generate(ctx.ProjectDir)
		if err != nil {
			return Result{}, fmt.Errorf("snapshotting repo at consensus_role_plans: %w", err)
		}
		snapEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactRepoSnapshot, snap, phase, "")
		if err != nil {
			return Result{}, fmt.Errorf("storing consensus_role_plans snapshot: %w", err)
		}
		result.NewArtifacts = append(result.NewArtifacts, snapEntry)
	}

	return result, nil
}

func floatPtr(v float64) *float64 { return &v }
