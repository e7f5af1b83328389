package consensus

import "github.com/popeye-dev/popeye/internal/pipeline"

// voteWeight maps each vote to its contribution in the weighted-score
// formula.
var voteWeight = map[pipeline.Vote]float64{
	pipeline.VoteApprove:     1.0,
	pipeline.VoteConditional: 0.5,
	pipeline.VoteReject:      0.0,
}

// Score aggregates a round's votes into simple and weighted scores and
// decides approval. Quorum and threshold come from the gate's consensus
// rules, not from the votes themselves.
func Score(votes []pipeline.ReviewerVote, rules pipeline.ConsensusRules) pipeline.ConsensusResult {
	if len(votes) == 0 {
		return pipeline.ConsensusResult{ParticipatingReviewers: 0}
	}

	approveCount := 0
	var weightedSum, confidenceSum float64
	hasBlockingIssue := false

	for _, v := range votes {
		if v.Vote == pipeline.VoteApprove {
			approveCount++
		}
		weightedSum += voteWeight[v.Vote] * v.Confidence
		confidenceSum += v.Confidence
		if len(v.BlockingIssues) > 0 {
			hasBlockingIssue = true
		}
	}

	score := float64(approveCount) / float64(len(votes))

	var weightedScore float64
	if confidenceSum > 0 {
		weightedScore = weightedSum / confidenceSum
	}
	if hasBlockingIssue {
		weightedScore = 0
	}

	approved := score >= rules.Threshold && len(votes) >= rules.Quorum

	return pipeline.ConsensusResult{
		Approved:               approved,
		Score:                  score,
		WeightedScore:          weightedScore,
		ParticipatingReviewers: len(votes),
	}
}
