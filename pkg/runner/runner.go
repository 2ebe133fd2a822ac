// Package runner invokes external build commands with a timeout and
// classifies how they ended.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vertti/bspcheck/pkg/check"
)

const (
	// DefaultTimeout bounds one external command.
	DefaultTimeout = 300 * time.Second
	// DisplayLimit is the number of output characters shown per stream.
	DisplayLimit = 1000
)

// Kind classifies how a command ended.
type Kind int

const (
	KindOK Kind = iota
	KindTimeout
	KindExitFailure
	KindStartFailure
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindTimeout:
		return "timeout"
	case KindExitFailure:
		return "exit failure"
	case KindStartFailure:
		return "start failure"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is one external invocation.
type Command struct {
	Description string
	Dir         string
	Name        string
	Args        []string
	Timeout     time.Duration // DefaultTimeout when zero
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Outcome is the classified result of a Command.
type Outcome struct {
	Kind     Kind
	Stdout   string
	Stderr   string
	ExitCode int
	Timeout  time.Duration
	Err      error // wraps check.ErrProcessFailure unless Kind is KindOK
}

// OK returns true if the command exited with status 0.
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

// Message is the one-line description of the outcome.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindOK:
		return "succeeded"
	case KindTimeout:
		return fmt.Sprintf("timed out after %s", o.Timeout)
	case KindExitFailure:
		return fmt.Sprintf("failed with exit code %d", o.ExitCode)
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("could not run: %v", o.Err)
	}
}

// Runner runs Commands through an Executor.
type Runner struct {
	Exec Executor
	Log  *zap.Logger
}

// New returns a Runner using the real OS.
func New(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Exec: &RealExecutor{}, Log: log}
}

// LookPath reports where name resolves in PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return r.Exec.LookPath(name)
}

// Run executes cmd. It never returns a Go error: every failure is
// classified into the Outcome.
func (r *Runner) Run(ctx context.Context, cmd Command) Outcome {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := r.Exec.RunCommandContext(ctx, cmd.Dir, cmd.Name, cmd.Args...)
	out := Outcome{Stdout: stdout, Stderr: stderr, Timeout: timeout}

	switch {
	case err == nil:
		out.Kind = KindOK
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		out.Kind = KindTimeout
		out.Err = fmt.Errorf("%w: %s timed out after %s", check.ErrProcessFailure, cmd, timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		out.Kind = KindCanceled
		out.Err = fmt.Errorf("%w: %s canceled: %w", check.ErrProcessFailure, cmd, ctx.Err())
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Kind = KindExitFailure
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.Kind = KindStartFailure
		}
		out.Err = fmt.Errorf("%w: %s: %w", check.ErrProcessFailure, cmd, err)
	}

	r.Log.Debug("command finished",
		zap.String("command", cmd.String()),
		zap.String("dir", cmd.Dir),
		zap.Stringer("kind", out.Kind),
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("elapsed", time.Since(start)))
	return out
}
