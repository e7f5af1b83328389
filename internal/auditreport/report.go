// Package auditreport builds the audit phase's structured findings report
// from raw findings, as a pure function alongside the other packet
// builders (consensus, rca, changerequest).
package auditreport

import "github.com/popeye-dev/popeye/internal/pipeline"

// Severity is the closed enum of finding severities.
type Severity string

const (
	SeverityP0 Severity = "P0"
	SeverityP1 Severity = "P1"
	SeverityP2 Severity = "P2"
	SeverityP3 Severity = "P3"
)

// severityWeight is the system_risk_score contribution of one finding at a
// given severity.
var severityWeight = map[Severity]int{
	SeverityP0: 40,
	SeverityP1: 20,
	SeverityP2: 8,
	SeverityP3: 2,
}

// Finding is one issue the auditor role surfaced.
type Finding struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Blocking    bool     `json:"blocking"`
}

// OverallStatus is the closed enum an audit report settles on.
type OverallStatus string

const (
	StatusPass OverallStatus = "PASS"
	StatusFail OverallStatus = "FAIL"
)

// Report is the structured result of one audit pass.
type Report struct {
	SnapshotID      string        `json:"snapshot_id"`
	Findings        []Finding     `json:"findings"`
	OverallStatus   OverallStatus `json:"overall_status"`
	SystemRiskScore int           `json:"system_risk_score"`
	RecoveryRequired bool         `json:"recovery_required"`
}

// Build computes overall_status, system_risk_score, and recovery_required
// from a repo snapshot and its findings.
//
// overall_status is FAIL if any finding is blocking; system_risk_score is
// the sum of severity weights capped at 100; recovery_required is true iff
// a blocking finding has severity P0 or P1.
func Build(snapshot pipeline.RepoSnapshot, findings []Finding) Report {
	report := Report{
		SnapshotID:    snapshot.SnapshotID,
		Findings:      findings,
		OverallStatus: StatusPass,
	}

	score := 0
	for _, f := range findings {
		score += severityWeight[f.Severity]
		if f.Blocking {
			report.OverallStatus = StatusFail
			if f.Severity == SeverityP0 || f.Severity == SeverityP1 {
				report.RecoveryRequired = true
			}
		}
	}
	if score > 100 {
		score = 100
	}
	report.SystemRiskScore = score

	return report
}
