package phase

import (
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/rca"
)

// RecoveryLoop loads the debugger role over the failed phase's last check
// results and produces an rca_report with an explicit rewind target.
func RecoveryLoop(ctx *Context) (Result, error) {
	failedPhase := ctx.State.FailedPhase
	if failedPhase == "" {
		return Result{}, fmt.Errorf("recovery_loop: no failed phase recorded on state")
	}

	summary := summarizeChecks(ctx.State.GateChecks[failedPhase])
	output, err := runRole(ctx, pipeline.RoleDebugger,
		"Diagnose why ${FAILED_PHASE} failed given its check results below. Respond with labeled "+
			"lines: \"Summary: ...\", one or more \"Symptom: ...\" lines, \"Root cause: ...\", "+
			"\"Responsible layer: ...\", \"Governance gap: ...\", one or more \"Corrective action: ...\" "+
			"lines, and \"Prevention: ...\".\n\n${CHECK_SUMMARY}",
		map[string]string{"FAILED_PHASE": string(failedPhase), "CHECK_SUMMARY": summary})
	if err != nil {
		return Result{}, fmt.Errorf("running debugger: %w", err)
	}

	diagnosis := rca.ParseDiagnosis(output)
	incidentSummary := diagnosis.Summary
	if incidentSummary == "" {
		incidentSummary = output
	}
	rootCause := diagnosis.RootCause
	if rootCause == "" {
		rootCause = output
	}
	responsibleLayer := diagnosis.ResponsibleLayer
	if responsibleLayer == "" {
		responsibleLayer = "unknown"
	}

	packet := rca.Build(failedPhase, incidentSummary, diagnosis.Symptoms, rootCause,
		responsibleLayer, diagnosis.GovernanceGap, diagnosis.CorrectiveActions, diagnosis.Prevention)

	entry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactRCAReport, packet, pipeline.PhaseRecoveryLoop, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing rca_report: %w", err)
	}

	return Result{
		NewArtifacts:          []pipeline.ArtifactEntry{entry},
		RCA:                   &packet,
		RequiresPhaseRewindTo: packet.RequiresPhaseRewindTo,
	}, nil
}
