package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/popeye-dev/popeye/internal/config"
)

func TestInit_CreatesDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, path := range []string{
		".popeye",
		filepath.Join(".popeye", "config.yaml"),
		"skills",
		filepath.Join("skills", "POPEYE_CONSTITUTION.md"),
		"docs",
	} {
		full := filepath.Join(dir, path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if !info.IsDir() && info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestInit_GeneratedConfigIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	configPath := filepath.Join(dir, ".popeye", "config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config.Load failed on generated config: %v", err)
	}
	if len(cfg.Reviewers) < cfg.ConsensusMinReviewers {
		t.Fatalf("generated config has fewer reviewers (%d) than consensus-min-reviewers (%d)",
			len(cfg.Reviewers), cfg.ConsensusMinReviewers)
	}
}

func TestInit_FailsIfDirExists(t *testing.T) {
	dir := t.TempDir()
	popeyeDir := filepath.Join(dir, ".popeye")
	if err := os.MkdirAll(popeyeDir, 0755); err != nil {
		t.Fatal(err)
	}

	err := Init(dir)
	if err == nil {
		t.Fatal("expected error when .popeye already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}

func TestInit_WritesNonEmptyConstitution(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "skills", "POPEYE_CONSTITUTION.md"))
	if err != nil {
		t.Fatalf("reading constitution: %v", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		t.Fatal("constitution file is empty")
	}
}
