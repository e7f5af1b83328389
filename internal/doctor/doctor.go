// Package doctor prints whatever diagnosis the pipeline itself already
// recorded for a failing run — the latest rca_report and stuck_report
// artifacts — rather than invoking a reasoning provider, since diagnosing a
// failure is RECOVERY_LOOP's job; doctor only surfaces what it wrote.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/ux"
)

// ArtifactReader is the read-side of the artifact store doctor needs.
type ArtifactReader interface {
	GetLatestArtifact(t pipeline.ArtifactType) (pipeline.ArtifactEntry, bool, error)
	ReadArtifact(e pipeline.ArtifactEntry) ([]byte, error)
}

// Run prints the most recent RCA and STUCK reports for state, or says there
// is nothing to diagnose if the run never failed.
func Run(ctx context.Context, store ArtifactReader, state *pipeline.PipelineState, projectDir string) error {
	if state.FailedPhase == "" && state.PipelinePhase != pipeline.PhaseStuck {
		fmt.Println("No failed phase on record; nothing to diagnose.")
		return nil
	}

	fmt.Printf("\n%s%s== Doctor ==%s\n\n", ux.Bold, ux.Cyan, ux.Reset)

	printedAny := false
	if rca, ok, err := loadLatest(store, pipeline.ArtifactRCAReport); err != nil {
		return fmt.Errorf("doctor: reading rca_report: %w", err)
	} else if ok {
		var packet pipeline.RCAPacket
		if err := json.Unmarshal(rca, &packet); err != nil {
			return fmt.Errorf("doctor: decoding rca_report: %w", err)
		}
		printRCA(packet)
		printedAny = true
	}

	if stuck, ok, err := loadLatest(store, pipeline.ArtifactStuckReport); err != nil {
		return fmt.Errorf("doctor: reading stuck_report: %w", err)
	} else if ok {
		fmt.Println(string(stuck))
		printedAny = true
	}

	if !printedAny {
		fmt.Println("(no rca_report or stuck_report artifact found yet)")
	}

	fmt.Println()
	ux.ResumeHint(projectDir)
	return nil
}

func loadLatest(store ArtifactReader, t pipeline.ArtifactType) ([]byte, bool, error) {
	entry, ok, err := store.GetLatestArtifact(t)
	if err != nil || !ok {
		return nil, ok, err
	}
	data, err := store.ReadArtifact(entry)
	return data, true, err
}

func printRCA(p pipeline.RCAPacket) {
	fmt.Printf("Origin phase: %s\n", p.OriginPhase)
	fmt.Printf("Summary: %s\n", p.IncidentSummary)
	fmt.Printf("Root cause: %s\n", p.RootCause)
	fmt.Printf("Responsible layer: %s\n", p.ResponsibleLayer)
	if p.GovernanceGap != "" {
		fmt.Printf("Governance gap: %s\n", p.GovernanceGap)
	}
	for _, s := range p.Symptoms {
		fmt.Printf("  symptom: %s\n", s)
	}
	for _, a := range p.CorrectiveActions {
		fmt.Printf("  corrective action: %s\n", a)
	}
	if p.RequiresPhaseRewindTo != "" {
		fmt.Printf("Rewinding to: %s\n", p.RequiresPhaseRewindTo)
	}
	fmt.Println()
}
