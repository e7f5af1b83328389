package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

func TestRunRejectsSanitizedCommand(t *testing.T) {
	result := Run(context.Background(), pipeline.CheckTest, "sudo rm -rf /", t.TempDir(), time.Second)
	if result.Status != pipeline.CheckStatusFail {
		t.Fatalf("expected fail status, got %v", result.Status)
	}
	if result.ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", result.ExitCode)
	}
	if !strings.Contains(strings.ToLower(result.StderrSummary), "rejected") {
		t.Errorf("expected summary to mention rejection, got %q", result.StderrSummary)
	}
}

func TestRunSurfacesNonZeroExit(t *testing.T) {
	result := Run(context.Background(), pipeline.CheckTest, "exit 1", t.TempDir(), 5*time.Second)
	if result.Status != pipeline.CheckStatusFail {
		t.Fatalf("expected fail status, got %v", result.Status)
	}
	if result.ExitCode == 0 {
		t.Error("expected non-zero exit code")
	}
}

func TestRunPassesOnZeroExit(t *testing.T) {
	result := Run(context.Background(), pipeline.CheckBuild, "exit 0", t.TempDir(), 5*time.Second)
	if result.Status != pipeline.CheckStatusPass {
		t.Fatalf("expected pass status, got %v", result.Status)
	}
}

func TestRunSkipsEmptyCommand(t *testing.T) {
	result := Run(context.Background(), pipeline.CheckLint, "", t.TempDir(), time.Second)
	if result.Status != pipeline.CheckStatusSkip {
		t.Errorf("expected skip status for empty command, got %v", result.Status)
	}
}

func TestRunStartCheckPassesWhenStillAlivePastDeadline(t *testing.T) {
	result := RunStartCheck(context.Background(), "sleep 10", t.TempDir(), StartCheckOptions{Timeout: 200 * time.Millisecond})
	if result.Status != pipeline.CheckStatusPass {
		t.Fatalf("expected pass for process alive past deadline, got %v", result.Status)
	}
}

func TestRunStartCheckFailsOnEarlyNonZeroExit(t *testing.T) {
	result := RunStartCheck(context.Background(), "exit 1", t.TempDir(), StartCheckOptions{Timeout: 3 * time.Second})
	if result.Status != pipeline.CheckStatusFail {
		t.Fatalf("expected fail for early non-zero exit, got %v", result.Status)
	}
}

func TestRunEnvCheckFlagsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.example"), "API_KEY=\nDB_URL=\n")
	writeFile(t, filepath.Join(dir, ".env"), "API_KEY=k\n")

	result := RunEnvCheck(dir)
	if result.Status != pipeline.CheckStatusFail {
		t.Fatalf("expected fail status, got %v", result.Status)
	}
	if !strings.Contains(result.StderrSummary, "DB_URL") {
		t.Errorf("expected summary to mention DB_URL, got %q", result.StderrSummary)
	}
}

func TestRunEnvCheckPassesWithoutExampleFile(t *testing.T) {
	result := RunEnvCheck(t.TempDir())
	if result.Status != pipeline.CheckStatusPass {
		t.Fatalf("expected pass when .env.example is absent, got %v", result.Status)
	}
}

func TestRunPlaceholderScanFlagsTODO(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main\n// TODO: implement\n")

	result := RunPlaceholderScan(dir)
	if result.Status != pipeline.CheckStatusFail {
		t.Fatalf("expected fail status on TODO hit, got %v", result.Status)
	}
}

func TestRunPlaceholderScanHonorsAllowlist(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main\n// TODO: implement\n")
	writeFile(t, filepath.Join(dir, allowlistFilename), "src/main.go\n")

	result := RunPlaceholderScan(dir)
	if result.Status != pipeline.CheckStatusPass {
		t.Fatalf("expected pass when offending file is allowlisted, got %v", result.Status)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
