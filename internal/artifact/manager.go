// Package artifact implements the immutable, versioned, content-addressed
// artifact store: docs/ subtree, metadata sidecars under docs/.artifacts,
// version chains by group, and integrity verification.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/popeye-dev/popeye/internal/fsutil"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// docsSubdirs is the fixed subtree ensureDocsStructure creates, derived from
// every value pipeline.Subdir can return.
var docsSubdirs = []string{
	"master-plan", "architecture", "role-plans", "consensus", "arbitration",
	"audit", "incidents", "production", "release", "snapshots", "checks",
	"journal", "governance",
}

// Manager is the artifact store for one project directory.
type Manager struct {
	ProjectDir string
}

// New returns a Manager rooted at projectDir. Callers must call
// EnsureDocsStructure before first use.
func New(projectDir string) *Manager {
	return &Manager{ProjectDir: projectDir}
}

func (m *Manager) docsDir() string     { return filepath.Join(m.ProjectDir, "docs") }
func (m *Manager) sidecarDir() string  { return filepath.Join(m.docsDir(), ".artifacts") }
func (m *Manager) sidecarPath(id string) string {
	return filepath.Join(m.sidecarDir(), id+".json")
}

// EnsureDocsStructure creates the fixed docs/ subtree and the metadata
// sidecar directory, generalizing the teacher's state.EnsureDir.
func (m *Manager) EnsureDocsStructure() error {
	dirs := []string{m.docsDir(), m.sidecarDir()}
	for _, d := range docsSubdirs {
		dirs = append(dirs, filepath.Join(m.docsDir(), d))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating docs dir %s: %w", d, err)
		}
	}
	return nil
}

// CreateAndStoreText writes markdown content as a new artifact and returns
// its entry.
func (m *Manager) CreateAndStoreText(t pipeline.ArtifactType, markdown string, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error) {
	return m.store(t, []byte(markdown), phase, groupID, pipeline.ContentMarkdown, "md")
}

// CreateAndStoreJson marshals obj and writes it as a new artifact.
func (m *Manager) CreateAndStoreJson(t pipeline.ArtifactType, obj any, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error) {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("marshaling artifact %s: %w", t, err)
	}
	return m.store(t, data, phase, groupID, pipeline.ContentJSON, "json")
}

func (m *Manager) store(t pipeline.ArtifactType, data []byte, phase pipeline.Phase, groupID string, ct pipeline.ContentType, ext string) (pipeline.ArtifactEntry, error) {
	if groupID == "" {
		groupID = uuid.New().String()
	}

	version := 1
	var previousID string
	existing, err := m.listGroup(groupID)
	if err != nil {
		return pipeline.ArtifactEntry{}, err
	}
	if len(existing) > 0 {
		sort.Slice(existing, func(i, j int) bool { return existing[i].Version < existing[j].Version })
		latest := existing[len(existing)-1]
		version = latest.Version + 1
		previousID = latest.ID
	}

	id := uuid.New().String()
	shortID := strings.ReplaceAll(id, "-", "")[:8]
	date := time.Now().UTC().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_v%d_%s.%s", t, shortID, version, date, ext)
	path := filepath.Join(pipeline.Subdir(t), filename)
	absPath := filepath.Join(m.docsDir(), path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("creating artifact dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("writing artifact %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	entry := pipeline.ArtifactEntry{
		ID:          id,
		Type:        t,
		Phase:       phase,
		Version:     version,
		Path:        path,
		SHA256:      hex.EncodeToString(sum[:]),
		Timestamp:   time.Now(),
		Immutable:   true,
		ContentType: ct,
		GroupID:     groupID,
		PreviousID:  previousID,
	}

	// Metadata sidecar is written after the artifact file on purpose: a
	// crash between the two leaves an orphan artifact file, which the
	// restart path tolerates by ignoring it during enumeration (sidecars
	// are the only thing listed).
	sidecarData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("marshaling sidecar for %s: %w", id, err)
	}
	if err := fsutil.WriteAtomic(m.sidecarPath(id), sidecarData, 0644); err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("writing sidecar for %s: %w", id, err)
	}

	all, err := m.listAll()
	if err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("listing artifacts for index: %w", err)
	}
	if err := m.UpdateIndex(all); err != nil {
		return pipeline.ArtifactEntry{}, fmt.Errorf("updating INDEX.md: %w", err)
	}

	return entry, nil
}

// ListArtifacts returns every artifact entry, optionally filtered by type,
// ordered by timestamp ascending. Malformed sidecars are silently skipped.
func (m *Manager) ListArtifacts(t *pipeline.ArtifactType) ([]pipeline.ArtifactEntry, error) {
	entries, err := m.listAll()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return entries, nil
	}
	var filtered []pipeline.ArtifactEntry
	for _, e := range entries {
		if e.Type == *t {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// GetLatestArtifact returns the most recently written artifact of type t, or
// false if none exists.
func (m *Manager) GetLatestArtifact(t pipeline.ArtifactType) (pipeline.ArtifactEntry, bool, error) {
	entries, err := m.ListArtifacts(&t)
	if err != nil {
		return pipeline.ArtifactEntry{}, false, err
	}
	if len(entries) == 0 {
		return pipeline.ArtifactEntry{}, false, nil
	}
	return entries[len(entries)-1], true, nil
}

// ReadArtifact returns an artifact's stored bytes.
func (m *Manager) ReadArtifact(e pipeline.ArtifactEntry) ([]byte, error) {
	return os.ReadFile(filepath.Join(m.docsDir(), e.Path))
}

// VerifyArtifact re-reads the artifact's bytes off disk and compares their
// hash to the recorded SHA256.
func (m *Manager) VerifyArtifact(e pipeline.ArtifactEntry) (bool, error) {
	data, err := os.ReadFile(filepath.Join(m.docsDir(), e.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == e.SHA256, nil
}

// ToArtifactRef converts an entry to its weak reference.
func (m *Manager) ToArtifactRef(e pipeline.ArtifactEntry) pipeline.ArtifactRef {
	return e.ToRef()
}

// UpdateIndex regenerates docs/INDEX.md, grouping artifacts by their docs/
// subdirectory and listing each subdirectory's entries oldest first (by
// timestamp).
func (m *Manager) UpdateIndex(artifacts []pipeline.ArtifactEntry) error {
	bySubdir := make(map[string][]pipeline.ArtifactEntry)
	for _, e := range artifacts {
		d := pipeline.Subdir(e.Type)
		bySubdir[d] = append(bySubdir[d], e)
	}

	var sb strings.Builder
	sb.WriteString("# Artifact Index\n\n")
	sb.WriteString("Generated automatically. Do not edit by hand.\n\n")

	dirs := make([]string, 0, len(bySubdir))
	for d := range bySubdir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	for _, d := range dirs {
		entries := bySubdir[d]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.Before(entries[j].Timestamp) })
		fmt.Fprintf(&sb, "## %s\n\n", d)
		for _, e := range entries {
			fmt.Fprintf(&sb, "- `%s` — %s v%d (%s, phase %s)\n", e.Path, e.Type, e.Version, e.ID, e.Phase)
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(filepath.Join(m.docsDir(), "INDEX.md"), []byte(sb.String()), 0644)
}

func (m *Manager) listGroup(groupID string) ([]pipeline.ArtifactEntry, error) {
	all, err := m.listAll()
	if err != nil {
		return nil, err
	}
	var out []pipeline.ArtifactEntry
	for _, e := range all {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

// listAll reads every sidecar in docs/.artifacts, skipping malformed ones,
// and returns the entries sorted by timestamp ascending.
func (m *Manager) listAll() ([]pipeline.ArtifactEntry, error) {
	dirEntries, err := os.ReadDir(m.sidecarDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []pipeline.ArtifactEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.sidecarDir(), de.Name()))
		if err != nil {
			continue
		}
		var e pipeline.ArtifactEntry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
