package phase

import (
	"context"
	"fmt"
	"sync"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// ScriptedExecutor is a test double for Executor. It returns a scripted
// output per role, falling back to a generic default, and records every
// request it received for assertions. Grounded on the teacher's
// render-prompt/invoke/capture-output shape, without any subprocess or
// stream parsing since the real executor is an out-of-scope collaborator.
type ScriptedExecutor struct {
	mu       sync.Mutex
	Outputs  map[pipeline.Role]string
	Err      error
	requests []ExecutionRequest
}

// NewScriptedExecutor returns a ScriptedExecutor with the given per-role
// scripted outputs.
func NewScriptedExecutor(outputs map[pipeline.Role]string) *ScriptedExecutor {
	return &ScriptedExecutor{Outputs: outputs}
}

// Execute records req and returns the scripted output for req.Role, or a
// generic placeholder if none was scripted.
func (s *ScriptedExecutor) Execute(ctx context.Context, req ExecutionRequest) (ExecutionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.Err != nil {
		return ExecutionResponse{}, s.Err
	}
	if out, ok := s.Outputs[req.Role]; ok {
		return ExecutionResponse{Output: out}, nil
	}
	return ExecutionResponse{Output: fmt.Sprintf("(%s) scripted output for: %s", req.Role, req.Prompt)}, nil
}

// Requests returns a copy of every request this executor has received.
func (s *ScriptedExecutor) Requests() []ExecutionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ExecutionRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
