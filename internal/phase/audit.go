package phase

import (
	"fmt"
	"strings"

	"github.com/popeye-dev/popeye/internal/auditreport"
	"github.com/popeye-dev/popeye/internal/changerequest"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

// Audit runs the auditor role over the repo snapshot and accumulated
// findings, builds a structured audit_report artifact from its output, and
// stores it.
func Audit(ctx *Context) (Result, error) {
	if ctx.State.LatestRepoSnapshot == nil {
		return Result{}, fmt.Errorf("audit: no repo snapshot recorded")
	}

	output, err := runRole(ctx, pipeline.RoleAuditor,
		"Audit the implementation for outstanding risk before production. List each finding with a severity of P0, P1, P2, or P3.",
		map[string]string{})
	if err != nil {
		return Result{}, fmt.Errorf("running auditor: %w", err)
	}

	findings := auditreport.ParseFindings(output)
	report := auditreport.Build(*ctx.State.LatestRepoSnapshot, findings)

	entry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactAuditReport, report, pipeline.PhaseAudit, "")
	if err != nil {
		return Result{}, fmt.Errorf("storing audit report: %w", err)
	}

	result := Result{NewArtifacts: []pipeline.ArtifactEntry{entry}}

	for _, f := range findings {
		if !f.Blocking || !isArchitecturalOrSecurity(f.Category) {
			continue
		}
		cr := changerequest.Build(pipeline.PhaseAudit, pipeline.RoleAuditor, pipeline.ChangeArchitecture,
			fmt.Sprintf("%s: %s", f.Severity, f.Description), "blocking audit finding", pipeline.ImpactAnalysis{
				RiskLevel: pipeline.RiskHigh,
			})
		result.NewChangeRequests = append(result.NewChangeRequests, changerequest.ToPending(cr))
		crEntry, err := ctx.Store.CreateAndStoreJson(pipeline.ArtifactChangeRequest, cr, pipeline.PhaseAudit, "")
		if err != nil {
			return Result{}, fmt.Errorf("storing change request: %w", err)
		}
		result.NewArtifacts = append(result.NewArtifacts, crEntry)
	}

	return result, nil
}

// isArchitecturalOrSecurity reports whether a finding's category names one
// of the two kinds serious enough to force re-consent rather than just
// failing the gate.
func isArchitecturalOrSecurity(category string) bool {
	c := strings.ToLower(category)
	return strings.Contains(c, "architecture") || strings.Contains(c, "security")
}
