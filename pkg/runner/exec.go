package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// WaitDelay bounds how long Run waits for the output pipes after the
// process group has been killed.
const WaitDelay = 2 * time.Second

// Executor abstracts command execution for testability.
type Executor interface {
	LookPath(file string) (string, error)
	RunCommandContext(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// RealExecutor implements Executor using actual OS commands.
type RealExecutor struct{}

// LookPath searches for an executable in PATH.
func (r *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunCommandContext executes a command in dir and returns its output.
// The process and everything it started are killed when ctx is done.
func (r *RealExecutor) RunCommandContext(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // intentional: build tool invocation
	cmd.Dir = dir
	setupProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = WaitDelay
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
