// Package board describes what a board integration must contain: which
// artifacts carry which tokens, which files the board directory holds and
// what the build smoke test feeds into the test configuration.
package board

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Token is a literal substring that must appear in an artifact.
type Token struct {
	Text  string `yaml:"text"`
	Label string `yaml:"label"`
}

// Name returns the label, or the text when no label is set.
func (t Token) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Text
}

// Artifact is a file, relative to the project root, and the tokens it must contain.
type Artifact struct {
	Path   string  `yaml:"path"`
	Tokens []Token `yaml:"tokens"`
}

// Profile is the declarative description of one board variant.
type Profile struct {
	Board       string `yaml:"board"`       // directory name, e.g. desktop-sparkbot
	Symbol      string `yaml:"symbol"`      // Kconfig symbol without the CONFIG_ prefix
	Description string `yaml:"description"` // menuconfig prompt

	Kconfig Artifact `yaml:"kconfig"`
	CMake   Artifact `yaml:"cmake"`
	Source  Artifact `yaml:"source"` // primary board source and its required includes

	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`

	Target             string   `yaml:"target"`
	SdkconfigOverrides []string `yaml:"sdkconfig_overrides"`
	MinToolVersion     string   `yaml:"min_tool_version"`

	NextSteps      []string `yaml:"next_steps"`
	SmokeNextSteps []string `yaml:"smoke_next_steps"`
}

var (
	ErrNoBoard    = errors.New("profile has no board name")
	ErrEmptyToken = errors.New("profile has an empty token")
)

// Validate reports structural problems that would make every check meaningless.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Board) == "" {
		return ErrNoBoard
	}
	for _, a := range []Artifact{p.Kconfig, p.CMake, p.Source} {
		for i, tok := range a.Tokens {
			if tok.Text == "" {
				return fmt.Errorf("%w: %s token %d", ErrEmptyToken, a.Path, i)
			}
		}
	}
	return nil
}

// ObjectDir is where the build puts the board's compiled objects.
func (p *Profile) ObjectDir() string {
	return path.Join("build/esp-idf/main/CMakeFiles/__idf_main.dir/boards", p.Board)
}

// ConfigSymbol returns the symbol as it appears in sdkconfig and sdkconfig.h.
func (p *Profile) ConfigSymbol() string {
	return "CONFIG_" + p.Symbol
}
