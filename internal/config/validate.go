package config

import "fmt"

// Validate checks a loaded Config for internally-inconsistent values and
// fills in defaults it tolerates being left zero.
func Validate(cfg *Config) error {
	if cfg.MaxRecoveryIterations < 0 {
		return fmt.Errorf("config: max-recovery-iterations must be >= 0")
	}
	if cfg.MaxRecoveryIterations == 0 {
		cfg.MaxRecoveryIterations = Default().MaxRecoveryIterations
	}

	if cfg.ConsensusMinReviewers < 1 {
		return fmt.Errorf("config: consensus-min-reviewers must be >= 1")
	}

	if len(cfg.Reviewers) < cfg.ConsensusMinReviewers {
		return fmt.Errorf("config: %d reviewer seat(s) configured but consensus-min-reviewers is %d",
			len(cfg.Reviewers), cfg.ConsensusMinReviewers)
	}

	seen := make(map[string]bool, len(cfg.Reviewers))
	for _, r := range cfg.Reviewers {
		if r.ID == "" {
			return fmt.Errorf("config: reviewers: 'id' is required")
		}
		if seen[r.ID] {
			return fmt.Errorf("config: reviewers: duplicate id %q", r.ID)
		}
		seen[r.ID] = true
		if r.Temperature < 0 || r.Temperature > 2 {
			return fmt.Errorf("config: reviewers: %q: temperature must be in [0, 2]", r.ID)
		}
	}

	return nil
}
