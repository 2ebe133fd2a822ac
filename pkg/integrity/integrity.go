// Package integrity checks that a board variant is wired into the project's
// build configuration. It never writes to the project tree.
package integrity

import (
	"go.uber.org/zap"

	"github.com/vertti/bspcheck/pkg/board"
	"github.com/vertti/bspcheck/pkg/check"
	"github.com/vertti/bspcheck/pkg/dircheck"
	"github.com/vertti/bspcheck/pkg/filecheck"
)

// Check names, in run order.
const (
	NameKconfig    = "Kconfig"
	NameCMake      = "CMake"
	NameBoardFiles = "board files"
	NameIncludes   = "includes"
)

// Checker runs the fixed sequence of integration checks for one profile.
type Checker struct {
	Profile *board.Profile
	FS      filecheck.FileSystem
	Log     *zap.Logger
}

// New returns a Checker reading the project below root.
func New(root string, profile *board.Profile, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		Profile: profile,
		FS:      &filecheck.RealFileSystem{Root: root},
		Log:     log,
	}
}

// Checks returns the checks in their fixed order.
func (c *Checker) Checks() []check.Named {
	p := c.Profile
	return []check.Named{
		{Name: NameKconfig, Checker: filecheck.ForArtifact(NameKconfig, p.Kconfig, c.FS)},
		{Name: NameCMake, Checker: filecheck.ForArtifact(NameCMake, p.CMake, c.FS)},
		{Name: NameBoardFiles, Checker: &dircheck.Check{Name: NameBoardFiles, Dir: p.Dir, Files: p.Files, FS: c.FS}},
		{Name: NameIncludes, Checker: filecheck.ForArtifact(NameIncludes, p.Source, c.FS)},
	}
}

// RunAll runs every check, regardless of earlier failures, and returns the report.
func (c *Checker) RunAll() check.Report {
	report := check.Run(c.Checks())
	for _, r := range report.Results {
		c.Log.Debug("check finished",
			zap.String("check", r.Name),
			zap.String("status", string(r.Status)),
			zap.Strings("details", r.Details))
	}
	c.Log.Debug("integrity run complete",
		zap.String("board", c.Profile.Board),
		zap.Bool("ok", report.OK()),
		zap.Int("failed", len(report.Failed())))
	return report
}

// WatchPaths lists the artifacts whose changes can alter the report.
func (c *Checker) WatchPaths() []string {
	p := c.Profile
	return []string{p.Kconfig.Path, p.CMake.Path, p.Dir, p.Source.Path}
}
