package config

import "testing"

func TestValidate_DefaultsArePrefilled(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}
}

func TestValidate_NegativeRecoveryIterationsRejected(t *testing.T) {
	cfg := Default()
	cfg.MaxRecoveryIterations = -1
	if err := Validate(cfg); err == nil {
		t.Error("expected an error for negative max-recovery-iterations")
	}
}

func TestValidate_ZeroRecoveryIterationsFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.MaxRecoveryIterations = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.MaxRecoveryIterations != Default().MaxRecoveryIterations {
		t.Errorf("expected default recovery iterations, got %d", cfg.MaxRecoveryIterations)
	}
}

func TestValidate_TooFewReviewerSeats(t *testing.T) {
	cfg := Default()
	cfg.ConsensusMinReviewers = 3
	cfg.Reviewers = cfg.Reviewers[:1]
	if err := Validate(cfg); err == nil {
		t.Error("expected an error when fewer reviewer seats than consensus-min-reviewers are configured")
	}
}

func TestValidate_DuplicateReviewerID(t *testing.T) {
	cfg := Default()
	cfg.Reviewers = []ReviewerSeat{
		{ID: "dup"}, {ID: "dup"},
	}
	cfg.ConsensusMinReviewers = 1
	if err := Validate(cfg); err == nil {
		t.Error("expected an error for duplicate reviewer id")
	}
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Reviewers[0].Temperature = 5
	if err := Validate(cfg); err == nil {
		t.Error("expected an error for out-of-range temperature")
	}
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(DefaultPath(dir))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxRecoveryIterations != Default().MaxRecoveryIterations {
		t.Errorf("expected default config for a missing file, got %+v", cfg)
	}
}
