package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vertti/bspcheck/pkg/board"
	"github.com/vertti/bspcheck/pkg/logging"
	"github.com/vertti/bspcheck/pkg/project"
)

// ErrCheckFailed is returned when a check fails.
// The returned error causes main to exit with code 1.
var ErrCheckFailed = errors.New("check failed")

// env is what every subcommand needs before it can run.
type env struct {
	root    string
	profile *board.Profile
	log     *zap.Logger
}

func setup() (*env, error) {
	log := logging.Must(verbose)

	p := board.Default()
	if profilePath != "" {
		var err error
		if p, err = board.Load(profilePath); err != nil {
			return nil, err
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := project.FindRoot(wd, rootDir)
	if err != nil {
		return nil, err
	}

	log.Debug("setup",
		zap.String("root", root),
		zap.String("board", p.Board),
		zap.String("profile", profilePath))
	return &env{root: root, profile: p, log: log}, nil
}
