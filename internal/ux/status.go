package ux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// RenderStatus prints the full status display for a project's pipeline
// state: current phase, recovery budget, pending change requests, and the
// artifact tree under docs/.
func RenderStatus(state *pipeline.PipelineState, projectDir string) {
	fmt.Printf("%sProject:%s  %s\n", Bold, Reset, projectDir)
	if state.PipelinePhase.IsTerminal() {
		color := Green
		if state.PipelinePhase == pipeline.PhaseStuck {
			color = Red
		}
		fmt.Printf("%sPhase:%s    %s%s%s\n", Bold, Reset, color, state.PipelinePhase, Reset)
	} else {
		fmt.Printf("%sPhase:%s    %s\n", Bold, Reset, state.PipelinePhase)
	}
	fmt.Printf("%sRecovery:%s %d/%d\n", Bold, Reset, state.RecoveryCount, state.MaxRecoveryIterations)

	if len(state.PendingChangeRequests) > 0 {
		fmt.Printf("\n%sChange requests:%s\n", Bold, Reset)
		for _, cr := range state.PendingChangeRequests {
			fmt.Printf("  %s  %-10s %-10s -> %s\n", cr.CRID, cr.ChangeType, cr.Status, cr.TargetPhase)
		}
	}

	fmt.Printf("\n%sArtifacts:%s\n", Bold, Reset)
	if len(state.Artifacts) == 0 {
		fmt.Printf("  %s(none)%s\n", Dim, Reset)
		return
	}
	for _, a := range state.Artifacts {
		fmt.Printf("  %s%-20s%s %s (v%d) %s\n", Dim, a.Type, Reset, filepath.Join(projectDir, "docs", a.Path), a.Version, a.Phase)
	}
	fmt.Println()
}

// ListDocsDir is a thin wrapper for callers that just want a raw directory
// listing of the docs tree (used by the doctor/status CLI commands).
func ListDocsDir(projectDir string) ([]os.DirEntry, error) {
	return os.ReadDir(filepath.Join(projectDir, "docs"))
}
