package pipeline

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/popeye-dev/popeye/internal/fsutil"
)

func statePath(projectDir string) string {
	return filepath.Join(projectDir, ".popeye", "state.json")
}

// Load reads the persisted PipelineState from <projectDir>/.popeye/state.json.
// A missing file yields a fresh state (pre-INTAKE). A malformed document is
// a SchemaViolation per spec.md §7: Load returns (nil, nil) rather than an
// error, and the caller is expected to initialize a fresh state.
func Load(projectDir string) (*PipelineState, error) {
	path := statePath(projectDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewState(), nil
		}
		return nil, err
	}
	var s PipelineState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	if s.GateResults == nil {
		s.GateResults = make(map[Phase]GateResult)
	}
	if s.GateChecks == nil {
		s.GateChecks = make(map[Phase][]GateCheckResult)
	}
	if s.MaxRecoveryIterations == 0 {
		s.MaxRecoveryIterations = DefaultMaxRecoveryIterations
	}
	return &s, nil
}

// Save writes the PipelineState atomically to
// <projectDir>/.popeye/state.json.
func Save(projectDir string, s *PipelineState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteAtomic(statePath(projectDir), data, 0644)
}
