// Package smoketest drives the ESP-IDF build tool against a temporary
// configuration to confirm that a board variant configures and compiles.
package smoketest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vertti/bspcheck/pkg/board"
	"github.com/vertti/bspcheck/pkg/check"
	"github.com/vertti/bspcheck/pkg/filecheck"
	"github.com/vertti/bspcheck/pkg/output"
	"github.com/vertti/bspcheck/pkg/runner"
	"github.com/vertti/bspcheck/pkg/sdkconfig"
	"github.com/vertti/bspcheck/pkg/version"
)

const (
	DefaultTool = "idf.py"

	// VersionTimeout bounds "idf.py --version" during the environment check.
	VersionTimeout = 30 * time.Second

	// GeneratedHeader is written by reconfigure and must mention the board symbol.
	GeneratedHeader = "build/config/sdkconfig.h"
)

// Step names, in run order.
const (
	StepEnvironment = "Environment"
	StepCreate      = "Create test configuration"
	StepParse       = "Configuration parsing"
	StepBuild       = "Build"
)

// Orchestrator runs the smoke test for one board profile.
type Orchestrator struct {
	Root    string
	Profile *board.Profile
	Runner  *runner.Runner
	Tool    string        // DefaultTool when empty
	Timeout time.Duration // per command, runner.DefaultTimeout when zero
	Out     io.Writer
	Log     *zap.Logger
}

// New returns an Orchestrator with the real runner writing to out.
func New(root string, p *board.Profile, out io.Writer, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		Root:    root,
		Profile: p,
		Runner:  runner.New(log),
		Tool:    DefaultTool,
		Out:     out,
		Log:     log,
	}
}

func (o *Orchestrator) tool() string {
	if o.Tool == "" {
		return DefaultTool
	}
	return o.Tool
}

// Run executes every step and prints a summary. Temporary configuration
// files are removed and the original sdkconfig restored on every return path.
func (o *Orchestrator) Run(ctx context.Context) (report check.Report) {
	fmt.Fprintf(o.Out, "Smoke test: %s configuration and build\n", o.Profile.Description)
	output.Rule(o.Out, '=')

	if recovered, err := sdkconfig.Recover(o.Root, o.Log); err != nil {
		o.Log.Warn("recovering sdkconfig failed", zap.Error(err))
	} else if recovered {
		output.Warn(o.Out, "restored sdkconfig left behind by an interrupted run")
	}

	defer func() {
		if err := sdkconfig.Cleanup(o.Root, o.Log); err != nil {
			output.Warn(o.Out, fmt.Sprintf("cleanup: %v", err))
			o.Log.Error("cleanup failed", zap.Error(err))
		}
	}()

	env := o.checkEnvironment(ctx)
	output.FprintResult(o.Out, env)
	if !env.OK() {
		return check.Report{Results: []check.Result{env}}
	}

	steps := []struct {
		name string
		run  func(context.Context) check.Result
	}{
		{StepCreate, o.createTestConfig},
		{StepParse, o.parseConfig},
		{StepBuild, o.build},
	}
	for _, s := range steps {
		output.Section(o.Out, s.name)
		r := s.run(ctx)
		r.Name = s.name
		output.FprintResult(o.Out, r)
		report.Results = append(report.Results, r)
	}

	fmt.Fprintln(o.Out)
	output.PrintReport(o.Out, "Summary", report, o.Profile.SmokeNextSteps)
	return report
}

func (o *Orchestrator) checkEnvironment(ctx context.Context) check.Result {
	result := check.Result{Name: StepEnvironment}

	info, err := os.Stat(filepath.Join(o.Root, filepath.FromSlash(o.Profile.Dir)))
	if err != nil || !info.IsDir() {
		return result.FailKind(check.ErrMissingFile, fmt.Sprintf("%s does not exist", o.Profile.Dir))
	}

	path, err := o.Runner.LookPath(o.tool())
	if err != nil {
		return result.FailKind(check.ErrProcessFailure,
			fmt.Sprintf("%s not found in PATH; set up ESP-IDF first: . $IDF_PATH/export.sh", o.tool()))
	}

	versionDetail := ""
	if o.Profile.MinToolVersion != "" {
		out := o.Runner.Run(ctx, runner.Command{Dir: o.Root, Name: o.tool(), Args: []string{"--version"}, Timeout: VersionTimeout})
		if !out.OK() {
			versionDetail = fmt.Sprintf("version: unknown (%s)", out.Message())
		} else {
			v, ok, err := version.Satisfies(out.Stdout+out.Stderr, o.Profile.MinToolVersion)
			switch {
			case err != nil:
				versionDetail = fmt.Sprintf("version: unknown (%v)", err)
			case !ok:
				result.FailKind(check.ErrProcessFailure,
					fmt.Sprintf("ESP-IDF %s does not satisfy %s", v, o.Profile.MinToolVersion))
				result.AddDetailf("tool: %s", path)
				return result
			default:
				versionDetail = fmt.Sprintf("version: %s", v)
			}
		}
	}

	result.Pass(fmt.Sprintf("tool: %s", path))
	if versionDetail != "" {
		result.AddDetail(versionDetail)
	}
	return result
}

func (o *Orchestrator) createTestConfig(context.Context) check.Result {
	var result check.Result

	defaults, err := sdkconfig.ReadDefaults(o.Root)
	if err != nil {
		return result.Fail(err.Error(), err)
	}
	var manifest *board.Manifest
	if m, ok := board.ReadManifest(&filecheck.RealFileSystem{Root: o.Root}, o.Profile.Dir); ok {
		manifest = &m
	}

	path, err := sdkconfig.WriteTest(o.Root, sdkconfig.Compose(defaults, o.Profile, manifest))
	if err != nil {
		return result.Fail(err.Error(), err)
	}
	result.Pass(fmt.Sprintf("created %s", filepath.Base(path)))
	if manifest != nil {
		result.AddDetailf("manifest: %d lines appended from %s", len(manifest.SdkconfigAppend), board.ManifestFile)
	}
	return result
}

func (o *Orchestrator) parseConfig(ctx context.Context) check.Result {
	return o.withOverride(func() check.Result {
		result := o.command(ctx, "Reconfigure project", "reconfigure")
		if !result.OK() {
			return result
		}
		data, err := os.ReadFile(filepath.Join(o.Root, filepath.FromSlash(GeneratedHeader))) //nolint:gosec // build output
		if err != nil {
			output.Warn(o.Out, fmt.Sprintf("%s not generated, board selection not verified", GeneratedHeader))
			result.AddDetailf("header: %s not generated", GeneratedHeader)
			return result
		}
		if !strings.Contains(string(data), o.Profile.ConfigSymbol()) {
			failed := check.Result{Name: result.Name}
			failed.FailKind(check.ErrMissingToken,
				fmt.Sprintf("%s not found in %s", o.Profile.ConfigSymbol(), GeneratedHeader))
			failed.Details = append(failed.Details, result.Details...)
			return failed
		}
		result.AddDetailf("parsed: %s", o.Profile.ConfigSymbol())
		return result
	})
}

func (o *Orchestrator) build(ctx context.Context) check.Result {
	return o.withOverride(func() check.Result {
		result := o.command(ctx, "Build main component", "build", "--component", "main")
		if !result.OK() {
			return result
		}
		objDir := o.Profile.ObjectDir()
		if info, err := os.Stat(filepath.Join(o.Root, filepath.FromSlash(objDir))); err == nil && info.IsDir() {
			result.AddDetailf("objects: %s", objDir)
		} else {
			output.Warn(o.Out, fmt.Sprintf("%s not found, but the build succeeded", objDir))
			result.AddDetailf("objects: %s not found", objDir)
		}
		return result
	})
}

// withOverride runs fn with sdkconfig.test installed as sdkconfig.
func (o *Orchestrator) withOverride(fn func() check.Result) (result check.Result) {
	ov, err := sdkconfig.Acquire(o.Root, o.Log)
	if err != nil {
		return result.Fail(fmt.Sprintf("installing test configuration: %v", err), err)
	}
	defer func() {
		if err := ov.Release(); err != nil {
			result.AddDetailf("restore: %v", err)
			result.Status = check.StatusFail
			result.Err = errors.Join(result.Err, err)
		}
	}()
	return fn()
}

// command runs the build tool and echoes its truncated output.
func (o *Orchestrator) command(ctx context.Context, desc string, args ...string) check.Result {
	cmd := runner.Command{Description: desc, Dir: o.Root, Name: o.tool(), Args: args, Timeout: o.Timeout}
	fmt.Fprintf(o.Out, "%s\nRunning: %s\n", desc, cmd)
	output.Rule(o.Out, '-')

	out := o.Runner.Run(ctx, cmd)
	result := check.Result{Name: desc}
	if !out.OK() {
		if out.Kind == runner.KindExitFailure && strings.TrimSpace(out.Stderr) != "" {
			fmt.Fprintf(o.Out, "stderr:\n%s\n", output.Truncate(out.Stderr, runner.DisplayLimit))
		}
		return result.Fail(fmt.Sprintf("%s: %s", cmd, out.Message()), out.Err)
	}
	if s := strings.TrimSpace(out.Stdout); s != "" {
		fmt.Fprintf(o.Out, "output:\n%s\n", output.Truncate(s, runner.DisplayLimit))
	}
	return result.Pass(fmt.Sprintf("%s: %s", cmd, out.Message()))
}
