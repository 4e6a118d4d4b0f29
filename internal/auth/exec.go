package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// commandResult holds the outcome of one subprocess invocation.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited zero.
func (r commandResult) Success() bool {
	return r.ExitCode == 0
}

// runCommand executes a CLI command with a bounded timeout and proper
// process group setup so a cancelled run leaves no orphaned children.
//
// A non-zero exit is not an error here; callers classify it from the
// captured stderr. An error return means the command could not be run at
// all or the deadline elapsed.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) (commandResult, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 - name is always the terminus CLI invoked from trusted
	// provider code, not user input.
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return commandResult{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", name, err)
	}

	err := cmd.Wait()

	// Kill the entire process group if the context expired mid-run.
	if runCtx.Err() != nil && cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, fmt.Errorf("%s timed out after %s", name, timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return result, nil
}
