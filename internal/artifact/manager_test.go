package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	m := New(dir)
	if err := m.EnsureDocsStructure(); err != nil {
		t.Fatalf("EnsureDocsStructure: %v", err)
	}
	return m
}

func TestEnsureDocsStructureCreatesFixedSubtree(t *testing.T) {
	m := newTestManager(t)
	for _, d := range docsSubdirs {
		if info, err := os.Stat(filepath.Join(m.docsDir(), d)); err != nil || !info.IsDir() {
			t.Errorf("expected docs subdir %q to exist", d)
		}
	}
	if _, err := os.Stat(m.sidecarDir()); err != nil {
		t.Errorf("expected sidecar dir to exist: %v", err)
	}
}

func TestCreateAndStoreTextRoundTrips(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "# Plan\n", pipeline.PhaseIntake, "")
	if err != nil {
		t.Fatalf("CreateAndStoreText: %v", err)
	}
	if entry.Version != 1 {
		t.Errorf("expected version 1, got %d", entry.Version)
	}
	if entry.GroupID == "" {
		t.Error("expected a generated group id")
	}

	ok, err := m.VerifyArtifact(entry)
	if err != nil {
		t.Fatalf("VerifyArtifact: %v", err)
	}
	if !ok {
		t.Error("expected newly written artifact to verify")
	}

	data, err := os.ReadFile(filepath.Join(m.docsDir(), entry.Path))
	if err != nil {
		t.Fatalf("reading artifact file: %v", err)
	}
	if string(data) != "# Plan\n" {
		t.Errorf("unexpected artifact contents: %q", data)
	}
}

func TestCreateAndStoreJsonUsesJSONExtension(t *testing.T) {
	m := newTestManager(t)
	payload := map[string]string{"hello": "world"}
	entry, err := m.CreateAndStoreJson(pipeline.ArtifactRepoSnapshot, payload, pipeline.PhaseIntake, "")
	if err != nil {
		t.Fatalf("CreateAndStoreJson: %v", err)
	}
	if filepath.Ext(entry.Path) != ".json" {
		t.Errorf("expected .json extension, got %q", entry.Path)
	}
	if entry.ContentType != pipeline.ContentJSON {
		t.Errorf("expected ContentJSON, got %v", entry.ContentType)
	}
}

var filenamePattern = regexp.MustCompile(`^[a-z_]+_[a-f0-9]{8}_v\d+_\d{4}-\d{2}-\d{2}\.(md|json)$`)

func TestArtifactFilenameMatchesPattern(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.CreateAndStoreText(pipeline.ArtifactArchitecture, "doc", pipeline.PhaseArchitecture, "")
	if err != nil {
		t.Fatalf("CreateAndStoreText: %v", err)
	}
	name := filepath.Base(entry.Path)
	if !filenamePattern.MatchString(name) {
		t.Errorf("filename %q does not match expected pattern", name)
	}
}

func TestVersionChainHasNoGaps(t *testing.T) {
	m := newTestManager(t)
	first, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "v1", pipeline.PhaseIntake, "")
	if err != nil {
		t.Fatalf("create v1: %v", err)
	}
	second, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "v2", pipeline.PhaseIntake, first.GroupID)
	if err != nil {
		t.Fatalf("create v2: %v", err)
	}
	third, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "v3", pipeline.PhaseIntake, first.GroupID)
	if err != nil {
		t.Fatalf("create v3: %v", err)
	}

	if second.Version != 2 || third.Version != 3 {
		t.Fatalf("expected versions 2 and 3, got %d and %d", second.Version, third.Version)
	}
	if second.PreviousID != first.ID {
		t.Errorf("expected second.PreviousID == first.ID")
	}
	if third.PreviousID != second.ID {
		t.Errorf("expected third.PreviousID == second.ID")
	}

	latest, ok, err := m.GetLatestArtifact(pipeline.ArtifactMasterPlan)
	if err != nil {
		t.Fatalf("GetLatestArtifact: %v", err)
	}
	if !ok {
		t.Fatal("expected a latest artifact")
	}
	if latest.ID != third.ID {
		t.Errorf("expected latest artifact to be v3, got version %d", latest.Version)
	}
}

func TestListArtifactsFiltersByType(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "plan", pipeline.PhaseIntake, ""); err != nil {
		t.Fatalf("create master plan: %v", err)
	}
	if _, err := m.CreateAndStoreText(pipeline.ArtifactArchitecture, "arch", pipeline.PhaseArchitecture, ""); err != nil {
		t.Fatalf("create architecture: %v", err)
	}

	archType := pipeline.ArtifactArchitecture
	entries, err := m.ListArtifacts(&archType)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != pipeline.ArtifactArchitecture {
		t.Errorf("expected exactly one architecture artifact, got %+v", entries)
	}

	all, err := m.ListArtifacts(nil)
	if err != nil {
		t.Fatalf("ListArtifacts(nil): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 artifacts total, got %d", len(all))
	}
}

func TestVerifyArtifactDetectsTamper(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "original", pipeline.PhaseIntake, "")
	if err != nil {
		t.Fatalf("CreateAndStoreText: %v", err)
	}
	if err := os.WriteFile(filepath.Join(m.docsDir(), entry.Path), []byte("tampered"), 0644); err != nil {
		t.Fatalf("tampering with artifact: %v", err)
	}
	ok, err := m.VerifyArtifact(entry)
	if err != nil {
		t.Fatalf("VerifyArtifact: %v", err)
	}
	if ok {
		t.Error("expected tampered artifact to fail verification")
	}
}

func TestUpdateIndexWritesFile(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.CreateAndStoreText(pipeline.ArtifactMasterPlan, "plan", pipeline.PhaseIntake, "")
	if err != nil {
		t.Fatalf("CreateAndStoreText: %v", err)
	}
	if err := m.UpdateIndex([]pipeline.ArtifactEntry{entry}); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(m.docsDir(), "INDEX.md"))
	if err != nil {
		t.Fatalf("reading INDEX.md: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty INDEX.md")
	}
}
