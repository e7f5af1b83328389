package reviewer

import (
	"context"
	"fmt"
	"sync"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// FixtureClient is a test double that returns a scripted Response per
// reviewer ID, optionally delaying or failing. It is safe for concurrent use
// since the consensus runner fans out reviewers in parallel.
type FixtureClient struct {
	mu sync.Mutex

	// Responses maps reviewer ID to the response it should return.
	Responses map[string]Response
	// Errs maps reviewer ID to an error to return instead of a response.
	Errs map[string]error
	// Delays maps reviewer ID to a channel the call blocks on before
	// returning; used to simulate a reviewer that never answers so the
	// caller's timeout/cancellation path can be exercised.
	Delays map[string]<-chan struct{}

	calls []string
}

// NewFixtureClient returns a FixtureClient with empty scripted tables.
func NewFixtureClient() *FixtureClient {
	return &FixtureClient{
		Responses: make(map[string]Response),
		Errs:      make(map[string]error),
		Delays:    make(map[string]<-chan struct{}),
	}
}

// Review implements Client.
func (f *FixtureClient) Review(ctx context.Context, cfg Config, prompt string) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cfg.ReviewerID)
	delay, hasDelay := f.Delays[cfg.ReviewerID]
	f.mu.Unlock()

	if hasDelay {
		select {
		case <-delay:
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.Errs[cfg.ReviewerID]; ok {
		return Response{}, err
	}
	if resp, ok := f.Responses[cfg.ReviewerID]; ok {
		return resp, nil
	}
	return Response{}, fmt.Errorf("fixture: no scripted response for reviewer %q", cfg.ReviewerID)
}

// Calls returns the reviewer IDs Review was invoked for, in call order.
func (f *FixtureClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// FixtureArbitrator is a scripted Arbitrator test double.
type FixtureArbitrator struct {
	Result pipeline.ArbitratorResult
	Err    error
}

// Arbitrate implements Arbitrator.
func (f *FixtureArbitrator) Arbitrate(ctx context.Context, cfg Config, prompt string, votes []pipeline.ReviewerVote) (pipeline.ArbitratorResult, error) {
	if f.Err != nil {
		return pipeline.ArbitratorResult{}, f.Err
	}
	return f.Result, nil
}
