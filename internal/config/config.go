// Package config loads and validates the YAML project configuration at
// <projectDir>/.popeye/config.yaml: reviewer seats, skills directory,
// recovery budget, and consensus minimum reviewers. The CLI wires only the
// reviewer seats into a run; the other fields are validated but not applied
// (the skill loader reads <projectDir>/skills, the recovery budget comes
// from PipelineState, and the reviewer minimum from the gate definitions).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReviewerSeat configures one consensus reviewer seat.
type ReviewerSeat struct {
	ID          string  `yaml:"id"`
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// Config is the project-level configuration for a popeye run.
type Config struct {
	ProjectName            string         `yaml:"project"`
	SkillsDir              string         `yaml:"skills-dir"`
	MaxRecoveryIterations  int            `yaml:"max-recovery-iterations"`
	ConsensusMinReviewers  int            `yaml:"consensus-min-reviewers"`
	Reviewers              []ReviewerSeat `yaml:"reviewers"`
}

// DefaultPath is where Load looks relative to a project root.
func DefaultPath(projectDir string) string {
	return filepath.Join(projectDir, ".popeye", "config.yaml")
}

// Load reads and validates the YAML config at path. A missing file yields
// Default() rather than an error, matching PipelineState's tolerant Load.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration a fresh project starts with.
func Default() *Config {
	return &Config{
		SkillsDir:             "skills",
		MaxRecoveryIterations: 5,
		ConsensusMinReviewers: 2,
		Reviewers: []ReviewerSeat{
			{ID: "reviewer-1", Provider: "claude", Model: "opus", Temperature: 0.2},
			{ID: "reviewer-2", Provider: "claude", Model: "sonnet", Temperature: 0.2},
		},
	}
}
