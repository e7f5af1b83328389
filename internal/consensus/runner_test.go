package consensus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/reviewer"
)

func testPacket() pipeline.PlanPacket {
	return pipeline.PlanPacket{
		Phase:              pipeline.PhaseConsensusMasterPlan,
		SubmittedBy:        pipeline.Role("architect"),
		AcceptanceCriteria: []string{"covers auth flow"},
		Constraints:        []string{"no new dependencies"},
	}
}

func TestRunStructuredConsensusApproved(t *testing.T) {
	client := reviewer.NewFixtureClient()
	client.Responses["r1"] = reviewer.Response{Vote: pipeline.VoteApprove, Confidence: 1.0}
	client.Responses["r2"] = reviewer.Response{Vote: pipeline.VoteApprove, Confidence: 1.0}

	r := &Runner{
		Reviewers: []reviewer.Config{{ReviewerID: "r1"}, {ReviewerID: "r2"}},
		Client:    client,
	}

	packet, err := r.RunStructuredConsensus(context.Background(), testPacket(), pipeline.ConsensusRules{Threshold: 0.95, Quorum: 2}, pipeline.ArtifactRef{})
	if err != nil {
		t.Fatalf("RunStructuredConsensus: %v", err)
	}
	if packet.FinalStatus != pipeline.FinalStatusApproved {
		t.Errorf("expected APPROVED, got %v", packet.FinalStatus)
	}
	if len(packet.Votes) != 2 {
		t.Errorf("expected 2 votes, got %d", len(packet.Votes))
	}
}

func TestRunStructuredConsensusReviewerFailureProducesSyntheticReject(t *testing.T) {
	client := reviewer.NewFixtureClient()
	client.Responses["r1"] = reviewer.Response{Vote: pipeline.VoteApprove, Confidence: 1.0}
	client.Errs["r2"] = errors.New("provider unreachable")

	r := &Runner{
		Reviewers: []reviewer.Config{{ReviewerID: "r1"}, {ReviewerID: "r2"}},
		Client:    client,
	}

	packet, err := r.RunStructuredConsensus(context.Background(), testPacket(), pipeline.ConsensusRules{Threshold: 0.95, Quorum: 2}, pipeline.ArtifactRef{})
	if err != nil {
		t.Fatalf("RunStructuredConsensus: %v", err)
	}
	if packet.Votes[1].Vote != pipeline.VoteReject {
		t.Fatalf("expected synthetic REJECT vote for failing reviewer, got %v", packet.Votes[1].Vote)
	}
	if len(packet.Votes[1].BlockingIssues) == 0 {
		t.Error("expected synthetic vote to carry a blocking issue naming the failure")
	}
	if packet.FinalStatus == pipeline.FinalStatusApproved {
		t.Error("expected rejection given one failed reviewer with no arbitrator configured")
	}
}

func TestRunStructuredConsensusArbitratesWhenNotApproved(t *testing.T) {
	client := reviewer.NewFixtureClient()
	client.Responses["r1"] = reviewer.Response{Vote: pipeline.VoteReject, Confidence: 1.0}
	client.Responses["r2"] = reviewer.Response{Vote: pipeline.VoteReject, Confidence: 1.0}

	arb := &reviewer.FixtureArbitrator{Result: pipeline.ArbitratorResult{
		Provider: "arb-provider", Verdict: pipeline.VoteApprove, Rationale: "overridden after review",
	}}

	r := &Runner{
		Reviewers:  []reviewer.Config{{ReviewerID: "r1"}, {ReviewerID: "r2"}},
		Client:     client,
		Arbitrator: arb,
	}

	packet, err := r.RunStructuredConsensus(context.Background(), testPacket(), pipeline.ConsensusRules{Threshold: 0.95, Quorum: 2}, pipeline.ArtifactRef{})
	if err != nil {
		t.Fatalf("RunStructuredConsensus: %v", err)
	}
	if packet.FinalStatus != pipeline.FinalStatusArbitrated {
		t.Errorf("expected ARBITRATED, got %v", packet.FinalStatus)
	}
	if packet.ArbitratorResult == nil || packet.ArbitratorResult.Verdict != pipeline.VoteApprove {
		t.Errorf("expected arbitrator result to be carried, got %+v", packet.ArbitratorResult)
	}
}

func TestRunStructuredConsensusReviewerTimeout(t *testing.T) {
	client := reviewer.NewFixtureClient()
	client.Responses["r1"] = reviewer.Response{Vote: pipeline.VoteApprove, Confidence: 1.0}
	client.Delays["r2"] = make(chan struct{}) // never closes: simulates a reviewer that never answers

	r := &Runner{
		Reviewers:          []reviewer.Config{{ReviewerID: "r1"}, {ReviewerID: "r2"}},
		Client:             client,
		PerReviewerTimeout: 20 * time.Millisecond,
	}

	packet, err := r.RunStructuredConsensus(context.Background(), testPacket(), pipeline.ConsensusRules{Threshold: 0.95, Quorum: 2}, pipeline.ArtifactRef{})
	if err != nil {
		t.Fatalf("RunStructuredConsensus: %v", err)
	}
	if packet.Votes[1].Vote != pipeline.VoteReject {
		t.Fatalf("expected synthetic REJECT vote on timeout, got %v", packet.Votes[1].Vote)
	}
}
