// Package scaffold bootstraps a fresh popeye project: .popeye/config.yaml,
// a skills/ directory with a starter constitution, and the docs/ artifact
// tree. It writes a fixed deterministic template rather than generating one,
// since AI-driven scaffold generation is an out-of-scope collaborator; only
// the teacher's fallback-template idiom (writeFallbackConfig) is adapted
// here, not its AI-generation path.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/popeye-dev/popeye/internal/artifact"
	"github.com/popeye-dev/popeye/internal/ux"
)

const defaultConfig = `project: my-project

skills-dir: skills
max-recovery-iterations: 5
consensus-min-reviewers: 2

reviewers:
  - id: reviewer-1
    provider: claude
    model: opus
    temperature: 0.2
  - id: reviewer-2
    provider: claude
    model: sonnet
    temperature: 0.2
`

const starterConstitution = `# Project Constitution

State the non-negotiable rules this project's pipeline must enforce:
scope boundaries, required approvals, architectural constraints, and
anything AUDIT and PRODUCTION_GATE should hold every change to.

Edit this file before the first INTAKE run. Once INTAKE hashes it,
any later edit is treated as drift and blocks every subsequent gate.
`

// Init creates .popeye/config.yaml, skills/POPEYE_CONSTITUTION.md, and the
// docs/ artifact tree under targetDir. Fails if .popeye already exists.
func Init(targetDir string) error {
	popeyeDir := filepath.Join(targetDir, ".popeye")
	if _, err := os.Stat(popeyeDir); err == nil {
		return fmt.Errorf(".popeye directory already exists in %s", targetDir)
	}

	if err := os.MkdirAll(popeyeDir, 0755); err != nil {
		return fmt.Errorf("creating .popeye: %w", err)
	}
	configPath := filepath.Join(popeyeDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("writing .popeye/config.yaml: %w", err)
	}

	skillsDir := filepath.Join(targetDir, "skills")
	if err := os.MkdirAll(skillsDir, 0755); err != nil {
		return fmt.Errorf("creating skills: %w", err)
	}
	constitutionPath := filepath.Join(skillsDir, "POPEYE_CONSTITUTION.md")
	if err := os.WriteFile(constitutionPath, []byte(starterConstitution), 0644); err != nil {
		return fmt.Errorf("writing constitution: %w", err)
	}

	mgr := artifact.New(targetDir)
	if err := mgr.EnsureDocsStructure(); err != nil {
		return fmt.Errorf("creating docs structure: %w", err)
	}

	written := []string{".popeye/config.yaml", "skills/POPEYE_CONSTITUTION.md", "docs/"}
	fmt.Printf("\n%s%s  Initialized popeye project%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	for _, path := range written {
		fmt.Printf("    %s%s%s\n", ux.Cyan, path, ux.Reset)
	}
	fmt.Printf("\n  Edit skills/POPEYE_CONSTITUTION.md, then: %spopeye run%s\n\n", ux.Cyan, ux.Reset)
	return nil
}
