package filecheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/vertti/bspcheck/pkg/board"
	"github.com/vertti/bspcheck/pkg/check"
)

// Check verifies that a file exists and contains every required token.
type Check struct {
	Name   string        // check name shown in the report
	Path   string        // path relative to the project root
	Tokens []board.Token // literal substrings that must be present
	FS     FileSystem    // injected for testing
}

// ForArtifact builds a Check for a profile artifact.
func ForArtifact(name string, a board.Artifact, fsys FileSystem) *Check {
	return &Check{Name: name, Path: a.Path, Tokens: a.Tokens, FS: fsys}
}

// Run executes the file check. Missing files and tokens are reported as
// failed results, never as panics.
func (c *Check) Run() check.Result {
	result := check.Result{Name: c.Name}

	info, err := c.FS.Stat(c.Path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return result.FailKind(check.ErrMissingFile, fmt.Sprintf("%s does not exist", c.Path))
		case os.IsPermission(err):
			return result.Fail(fmt.Sprintf("%s: permission denied", c.Path), err)
		default:
			return result.Failf("stat %s failed: %v", c.Path, err)
		}
	}
	if info.IsDir() {
		return result.FailKind(check.ErrMissingFile, fmt.Sprintf("%s is a directory, expected a file", c.Path))
	}

	content, err := c.FS.ReadFile(c.Path)
	if err != nil {
		return result.Failf("failed to read %s: %v", c.Path, err)
	}

	if missing := missingTokens(string(content), c.Tokens); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, tok := range missing {
			names = append(names, tok.Name())
		}
		result.FailKind(check.ErrMissingToken, fmt.Sprintf("%s: missing %s", c.Path, strings.Join(names, ", ")))
		for _, tok := range missing {
			if tok.Label != "" {
				result.AddDetailf("missing %s: %s", tok.Label, tok.Text)
			}
		}
		return result
	}

	return result.Pass(fmt.Sprintf("%s: all %d tokens present", c.Path, len(c.Tokens)))
}

func missingTokens(content string, tokens []board.Token) []board.Token {
	var missing []board.Token
	for _, tok := range tokens {
		if !strings.Contains(content, tok.Text) {
			missing = append(missing, tok)
		}
	}
	return missing
}
