// Package reviewer defines the contract a consensus round uses to reach an
// external reasoning provider. No concrete provider is implemented here —
// providers are named out-of-scope collaborators; only the interface and a
// test double live in this module.
package reviewer

import (
	"context"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Config identifies one reviewer seat for a consensus round.
type Config struct {
	ReviewerID   string
	Provider     string
	Model        string
	Temperature  float64
	SystemPrompt string
}

// Response is a reviewer's structured answer to one prompt.
type Response struct {
	Vote           pipeline.Vote
	Confidence     float64
	BlockingIssues []string
	Suggestions    []string
	EvidenceRefs   []string
}

// Client reviews one rendered prompt under one reviewer configuration.
type Client interface {
	Review(ctx context.Context, cfg Config, prompt string) (Response, error)
}

// Arbitrator resolves a round that failed to reach consensus by reading the
// full vote set and rendering a final verdict.
type Arbitrator interface {
	Arbitrate(ctx context.Context, cfg Config, prompt string, votes []pipeline.ReviewerVote) (pipeline.ArbitratorResult, error)
}
