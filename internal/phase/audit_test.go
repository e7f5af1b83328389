package phase

import (
	"encoding/json"
	"testing"

	"github.com/popeye-dev/popeye/internal/auditreport"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

func TestAuditStoresReportWithParsedFindings(t *testing.T) {
	state := pipeline.NewState()
	state.LatestRepoSnapshot = &pipeline.RepoSnapshot{SnapshotID: "snap-1"}
	ctx := newTestContext(t, state, NewScriptedExecutor(map[pipeline.Role]string{
		pipeline.RoleAuditor: "P0: security: missing auth check [blocking]\nP3: style: nit\n",
	}), nil)

	result, err := Audit(ctx)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(result.NewArtifacts) != 2 || result.NewArtifacts[0].Type != pipeline.ArtifactAuditReport {
		t.Fatalf("expected an audit_report artifact plus a change request, got %+v", result.NewArtifacts)
	}
	if len(result.NewChangeRequests) != 1 || result.NewChangeRequests[0].ChangeType != pipeline.ChangeArchitecture {
		t.Fatalf("expected one architecture change request for the blocking security finding, got %+v", result.NewChangeRequests)
	}

	data, err := ctx.Store.ReadArtifact(result.NewArtifacts[0])
	if err != nil {
		t.Fatalf("reading stored report: %v", err)
	}
	var report auditreport.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("unmarshaling stored report: %v", err)
	}
	if report.OverallStatus != auditreport.StatusFail {
		t.Errorf("expected FAIL, got %s", report.OverallStatus)
	}
	if !report.RecoveryRequired {
		t.Error("expected recovery required for blocking P0")
	}
	if report.SystemRiskScore != 42 {
		t.Errorf("expected risk score 42 (40+2), got %d", report.SystemRiskScore)
	}
}

func TestAuditFailsWithoutRepoSnapshot(t *testing.T) {
	state := pipeline.NewState()
	ctx := newTestContext(t, state, NewScriptedExecutor(nil), nil)

	if _, err := Audit(ctx); err == nil {
		t.Error("expected an error when no repo snapshot is recorded")
	}
}
