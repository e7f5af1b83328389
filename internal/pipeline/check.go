package pipeline

import "time"

// CheckType is the closed enum of check kinds the check runner produces.
type CheckType string

const (
	CheckBuild            CheckType = "build"
	CheckTest             CheckType = "test"
	CheckLint             CheckType = "lint"
	CheckTypecheck        CheckType = "typecheck"
	CheckMigration        CheckType = "migration"
	CheckPlaceholderScan  CheckType = "placeholder_scan"
	CheckStart            CheckType = "start"
	CheckEnv              CheckType = "env_check"
)

// CheckStatus is the closed outcome of a single check.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
	CheckStatusSkip CheckStatus = "skip"
)

// GateCheckResult is the outcome of running one resolved command (or a
// specialized check such as placeholder_scan/env_check/start).
type GateCheckResult struct {
	CheckType      CheckType   `json:"check_type"`
	Status         CheckStatus `json:"status"`
	Command        string      `json:"command"`
	ExitCode       int         `json:"exit_code"`
	StdoutArtifact string      `json:"stdout_artifact,omitempty"`
	StderrSummary  string      `json:"stderr_summary,omitempty"`
	DurationMs     int64       `json:"duration_ms"`
	Timestamp      time.Time   `json:"timestamp"`
}

// GateResult is the outcome of evaluating a phase's gate.
type GateResult struct {
	Phase             Phase     `json:"phase"`
	Pass              bool      `json:"pass"`
	Score             *float64  `json:"score,omitempty"`
	Blockers          []string  `json:"blockers"`
	MissingArtifacts  []string  `json:"missing_artifacts"`
	FailedChecks      []string  `json:"failed_checks"`
	ConsensusScore    *float64  `json:"consensus_score,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
