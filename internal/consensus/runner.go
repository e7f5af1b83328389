package consensus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/reviewer"
)

// DefaultPerReviewerTimeout bounds how long the aggregator waits for any one
// reviewer before recording a synthetic REJECT for it.
const DefaultPerReviewerTimeout = 2 * time.Minute

// Runner fans a plan packet out to a fixed set of reviewers and aggregates
// their votes into a ConsensusPacket. It never invokes providers directly —
// all provider calls go through reviewer.Client/reviewer.Arbitrator.
type Runner struct {
	Reviewers          []reviewer.Config
	Client             reviewer.Client
	Arbitrator         reviewer.Arbitrator
	ArbitratorConfig   reviewer.Config
	PerReviewerTimeout time.Duration
}

func (r *Runner) perReviewerTimeout() time.Duration {
	if r.PerReviewerTimeout > 0 {
		return r.PerReviewerTimeout
	}
	return DefaultPerReviewerTimeout
}

// RunStructuredConsensus builds one prompt from packet, fans it out to every
// configured reviewer in parallel, scores the round, optionally arbitrates,
// and returns the aggregated packet.
func (r *Runner) RunStructuredConsensus(ctx context.Context, packet pipeline.PlanPacket, rules pipeline.ConsensusRules, planRef pipeline.ArtifactRef) (pipeline.ConsensusPacket, error) {
	prompt := BuildPrompt(packet)
	promptHash := PromptHash(prompt)

	votes := r.fanOut(ctx, prompt, promptHash)
	result := Score(votes, rules)

	out := pipeline.ConsensusPacket{
		PlanRef: planRef,
		Votes:   votes,
		Rules:   rules,
		Result:  result,
	}

	if r.Arbitrator != nil && !result.Approved {
		arbResult, err := r.Arbitrator.Arbitrate(ctx, r.ArbitratorConfig, prompt, votes)
		if err != nil {
			return pipeline.ConsensusPacket{}, fmt.Errorf("arbitration failed: %w", err)
		}
		out.ArbitratorResult = &arbResult
		out.FinalStatus = pipeline.FinalStatusArbitrated
		return out, nil
	}

	if result.Approved {
		out.FinalStatus = pipeline.FinalStatusApproved
	} else {
		out.FinalStatus = pipeline.FinalStatusRejected
	}
	return out, nil
}

type voteOutcome struct {
	idx  int
	vote pipeline.ReviewerVote
}

// fanOut invokes every reviewer concurrently, each under its own derived
// timeout context, and returns votes in reviewer-declaration order. A
// reviewer that errors or times out contributes a synthetic REJECT vote
// naming the failure as a blocking issue.
func (r *Runner) fanOut(parentCtx context.Context, prompt, promptHash string) []pipeline.ReviewerVote {
	total := len(r.Reviewers)
	results := make(chan voteOutcome, total)

	var wg sync.WaitGroup
	wg.Add(total)

	for i, cfg := range r.Reviewers {
		go func(idx int, cfg reviewer.Config) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(parentCtx, r.perReviewerTimeout())
			defer cancel()

			resp, err := r.Client.Review(ctx, cfg, prompt)
			if err != nil {
				results <- voteOutcome{idx: idx, vote: syntheticRejectVote(cfg, promptHash, err)}
				return
			}
			results <- voteOutcome{idx: idx, vote: pipeline.ReviewerVote{
				ReviewerID:     cfg.ReviewerID,
				Provider:       cfg.Provider,
				Model:          cfg.Model,
				Temperature:    cfg.Temperature,
				PromptHash:     promptHash,
				Vote:           resp.Vote,
				Confidence:     resp.Confidence,
				BlockingIssues: resp.BlockingIssues,
				Suggestions:    resp.Suggestions,
				EvidenceRefs:   resp.EvidenceRefs,
			}}
		}(i, cfg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	votes := make([]pipeline.ReviewerVote, total)
	for outcome := range results {
		votes[outcome.idx] = outcome.vote
	}
	return votes
}

func syntheticRejectVote(cfg reviewer.Config, promptHash string, cause error) pipeline.ReviewerVote {
	return pipeline.ReviewerVote{
		ReviewerID:     cfg.ReviewerID,
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		PromptHash:     promptHash,
		Vote:           pipeline.VoteReject,
		Confidence:     1.0,
		BlockingIssues: []string{fmt.Sprintf("reviewer %q failed: %s", cfg.ReviewerID, cause.Error())},
	}
}
