package check

import (
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// StartCheckOptions configures RunStartCheck.
type StartCheckOptions struct {
	Timeout time.Duration
	Port    int
}

// RunStartCheck launches command and watches it for Timeout. A process
// still alive at the deadline is treated as a healthy long-running server
// and is killed via its process group; a process that exits early with a
// non-zero code fails.
func RunStartCheck(ctx context.Context, command, projectDir string, opts StartCheckOptions) pipeline.GateCheckResult {
	start := time.Now()

	if command == "" {
		return pipeline.GateCheckResult{
			CheckType: pipeline.CheckStart,
			Status:    pipeline.CheckStatusSkip,
			Timestamp: start,
		}
	}
	if !sanitize(command) {
		return pipeline.GateCheckResult{
			CheckType:     pipeline.CheckStart,
			Status:        pipeline.CheckStatusFail,
			Command:       command,
			ExitCode:      -1,
			StderrSummary: "Command rejected",
			Timestamp:     start,
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = projectDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return pipeline.GateCheckResult{
			CheckType:     pipeline.CheckStart,
			Status:        pipeline.CheckStatusFail,
			Command:       command,
			ExitCode:      -1,
			StderrSummary: "failed to start: " + err.Error(),
			DurationMs:    time.Since(start).Milliseconds(),
			Timestamp:     start,
		}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if err != nil {
			exitCode = -1
		}
		// A start command is expected to keep running; exiting before the
		// deadline fails the check regardless of exit code.
		return pipeline.GateCheckResult{
			CheckType:     pipeline.CheckStart,
			Status:        pipeline.CheckStatusFail,
			Command:       command,
			ExitCode:      exitCode,
			StderrSummary: "process exited before the health deadline",
			DurationMs:    time.Since(start).Milliseconds(),
			Timestamp:     start,
		}
	case <-time.After(timeout):
		killProcessGroup(cmd)
		return pipeline.GateCheckResult{
			CheckType:  pipeline.CheckStart,
			Status:     pipeline.CheckStatusPass,
			Command:    command,
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  start,
		}
	}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}
