// Package constitution implements the governance-document integrity check:
// hash the constitution file at INTAKE, then verify it hasn't drifted at
// every subsequent gate.
package constitution

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// fileName is the constitution's fixed location under the project's skills
// directory.
const fileName = "POPEYE_CONSTITUTION.md"

// Path returns the fixed path to the constitution file under projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, "skills", fileName)
}

// Status is the result of verifying the constitution's integrity.
type Status struct {
	Valid  bool
	Reason string
}

// ComputeHash returns the hex sha256 of the constitution file's bytes, or
// the empty string if the file is missing.
func ComputeHash(projectDir string) (string, error) {
	data, err := os.ReadFile(Path(projectDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ArtifactStore is the artifact-manager contract CreateArtifact needs.
type ArtifactStore interface {
	CreateAndStoreText(t pipeline.ArtifactType, markdown string, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error)
}

// CreateArtifact stores the constitution file as an immutable artifact
// during INTAKE and returns both the entry and the file's hash, which the
// caller records on pipeline state.
func CreateArtifact(store ArtifactStore, projectDir string) (pipeline.ArtifactEntry, string, error) {
	data, err := os.ReadFile(Path(projectDir))
	if err != nil {
		return pipeline.ArtifactEntry{}, "", fmt.Errorf("reading constitution: %w", err)
	}
	entry, err := store.CreateAndStoreText(pipeline.ArtifactConstitution, string(data), pipeline.PhaseIntake, "")
	if err != nil {
		return pipeline.ArtifactEntry{}, "", err
	}
	hash, err := ComputeHash(projectDir)
	if err != nil {
		return pipeline.ArtifactEntry{}, "", err
	}
	return entry, hash, nil
}

// Verify checks the constitution file's current hash against
// state.ConstitutionHash. An empty recorded hash means INTAKE hasn't run
// yet, so verification is skipped (valid=true). Any drift — including the
// file disappearing — is reported with a reason naming it as modified.
func Verify(state *pipeline.PipelineState, projectDir string) (Status, error) {
	if state.ConstitutionHash == "" {
		return Status{Valid: true}, nil
	}

	current, err := ComputeHash(projectDir)
	if err != nil {
		return Status{}, err
	}
	if current == "" {
		return Status{Valid: false, Reason: "constitution file is missing (modified)"}, nil
	}
	if current != state.ConstitutionHash {
		return Status{Valid: false, Reason: "constitution file has been modified"}, nil
	}
	return Status{Valid: true}, nil
}
