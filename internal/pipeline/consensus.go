package pipeline

// Vote is the closed enum of reviewer decisions.
type Vote string

const (
	VoteApprove     Vote = "APPROVE"
	VoteConditional Vote = "CONDITIONAL"
	VoteReject      Vote = "REJECT"
)

// ReviewerVote is one reviewer's structured response to a plan packet.
type ReviewerVote struct {
	ReviewerID    string   `json:"reviewer_id"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	Temperature   float64  `json:"temperature"`
	PromptHash    string   `json:"prompt_hash"`
	Vote          Vote     `json:"vote"`
	Confidence    float64  `json:"confidence"`
	BlockingIssues []string `json:"blocking_issues"`
	Suggestions   []string `json:"suggestions"`
	EvidenceRefs  []string `json:"evidence_refs"`
}

// ConsensusRules configures approval thresholds for one consensus round.
type ConsensusRules struct {
	Threshold    float64 `json:"threshold"`
	Quorum       int     `json:"quorum"`
	MinReviewers int     `json:"min_reviewers"`
}

// ConsensusResult is the scored outcome of aggregating votes.
type ConsensusResult struct {
	Approved                bool    `json:"approved"`
	Score                   float64 `json:"score"`
	WeightedScore           float64 `json:"weighted_score"`
	ParticipatingReviewers  int     `json:"participating_reviewers"`
}

// FinalStatus is the closed enum a consensus packet settles on.
type FinalStatus string

const (
	FinalStatusApproved  FinalStatus = "APPROVED"
	FinalStatusRejected  FinalStatus = "REJECTED"
	FinalStatusArbitrated FinalStatus = "ARBITRATED"
)

// ArbitratorResult is the arbitrator's verdict when invoked.
type ArbitratorResult struct {
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Verdict  Vote    `json:"verdict"`
	Rationale string `json:"rationale"`
}

// ConsensusPacket is the aggregated record of one consensus round.
type ConsensusPacket struct {
	PlanRef         ArtifactRef       `json:"plan_ref"`
	Votes           []ReviewerVote    `json:"votes"`
	Rules           ConsensusRules    `json:"rules"`
	Result          ConsensusResult   `json:"result"`
	ArbitratorResult *ArbitratorResult `json:"arbitrator_result,omitempty"`
	FinalStatus     FinalStatus       `json:"final_status"`
}
