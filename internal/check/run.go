// Package check implements the sanitized subprocess check runner: build,
// test, lint, typecheck, migration, placeholder scan, env check, and start
// check.
package check

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/resolvecmd"
)

// DefaultTimeout bounds a check's wall-clock when the caller doesn't specify
// one.
const DefaultTimeout = 5 * time.Minute

// maxStderrSummary bounds how much of a failing check's stderr is carried
// into the GateCheckResult.
const maxStderrSummary = 4096

// Run executes one command under projectDir and returns its GateCheckResult.
// An empty command yields status=skip without spawning anything.
func Run(ctx context.Context, checkType pipeline.CheckType, command, projectDir string, timeout time.Duration) pipeline.GateCheckResult {
	start := time.Now()
	if command == "" {
		return pipeline.GateCheckResult{
			CheckType: checkType,
			Status:    pipeline.CheckStatusSkip,
			Timestamp: start,
		}
	}

	if !sanitize(command) {
		return pipeline.GateCheckResult{
			CheckType:     checkType,
			Status:        pipeline.CheckStatusFail,
			Command:       command,
			ExitCode:      -1,
			StderrSummary: "Command rejected",
			Timestamp:     start,
		}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-c", command)
	cmd.Dir = projectDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr)

	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	status := pipeline.CheckStatusPass
	if runCtx.Err() == context.DeadlineExceeded {
		exitCode = -1
		status = pipeline.CheckStatusFail
	} else if runErr != nil {
		status = pipeline.CheckStatusFail
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return pipeline.GateCheckResult{
		CheckType:     checkType,
		Status:        status,
		Command:       command,
		ExitCode:      exitCode,
		StderrSummary: summarize(stderr.String()),
		DurationMs:    duration.Milliseconds(),
		Timestamp:     start,
	}
}

func summarize(s string) string {
	if len(s) <= maxStderrSummary {
		return s
	}
	return s[:maxStderrSummary] + "... (truncated)"
}

// orderedCheckTypes is the stable order RunAll reports results in.
var orderedCheckTypes = []pipeline.CheckType{
	pipeline.CheckBuild,
	pipeline.CheckTest,
	pipeline.CheckLint,
	pipeline.CheckTypecheck,
	pipeline.CheckMigration,
}

// RunAll runs build, test, lint, typecheck, migration in the commands set,
// in a fixed order. Commands left empty in ResolvedCommands yield skip.
func RunAll(ctx context.Context, commands resolvecmd.ResolvedCommands, projectDir string, timeout time.Duration) []pipeline.GateCheckResult {
	byType := map[pipeline.CheckType]string{
		pipeline.CheckBuild:     commands.Build,
		pipeline.CheckTest:      commands.Test,
		pipeline.CheckLint:      commands.Lint,
		pipeline.CheckTypecheck: commands.Typecheck,
		pipeline.CheckMigration: commands.Migrate,
	}

	results := make([]pipeline.GateCheckResult, 0, len(orderedCheckTypes))
	for _, t := range orderedCheckTypes {
		results = append(results, Run(ctx, t, byType[t], projectDir, timeout))
	}
	return results
}

// artifactTypeFor maps a check type to the artifact type StoreCheckResults
// persists it under.
var artifactTypeFor = map[pipeline.CheckType]pipeline.ArtifactType{
	pipeline.CheckBuild:           pipeline.ArtifactBuildCheck,
	pipeline.CheckTest:            pipeline.ArtifactTestCheck,
	pipeline.CheckLint:            pipeline.ArtifactLintCheck,
	pipeline.CheckTypecheck:       pipeline.ArtifactTypecheckCheck,
	pipeline.CheckMigration:       pipeline.ArtifactMigrationCheck,
	pipeline.CheckPlaceholderScan: pipeline.ArtifactPlaceholderScan,
	pipeline.CheckEnv:             pipeline.ArtifactEnvCheck,
	pipeline.CheckStart:           pipeline.ArtifactStartCheck,
}

// ArtifactTypeFor exposes the check-type-to-artifact-type mapping so
// callers outside this package (phase handlers) can reuse
// it without duplicating the table.
func ArtifactTypeFor(t pipeline.CheckType) pipeline.ArtifactType {
	return artifactTypeFor[t]
}

// Store is the artifact-manager contract StoreCheckResults needs; satisfied
// by *artifact.Manager.
type Store interface {
	CreateAndStoreJson(t pipeline.ArtifactType, obj any, phase pipeline.Phase, groupID string) (pipeline.ArtifactEntry, error)
}

// StoreCheckResults persists each result as a typed artifact and returns the
// resulting entries in the same order as results.
func StoreCheckResults(store Store, results []pipeline.GateCheckResult, phase pipeline.Phase) ([]pipeline.ArtifactEntry, error) {
	entries := make([]pipeline.ArtifactEntry, 0, len(results))
	for _, r := range results {
		entry, err := store.CreateAndStoreJson(ArtifactTypeFor(r.CheckType), r, phase, "")
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
