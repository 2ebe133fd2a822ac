// Package dircheck verifies that a directory exists and holds a fixed set of files.
package dircheck

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/vertti/bspcheck/pkg/check"
	"github.com/vertti/bspcheck/pkg/filecheck"
)

// Check verifies that Dir exists and every name in Files is present inside it.
type Check struct {
	Name  string
	Dir   string
	Files []string
	FS    filecheck.FileSystem
}

// Run executes the directory check.
func (c *Check) Run() check.Result {
	result := check.Result{Name: c.Name}

	info, err := c.FS.Stat(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result.FailKind(check.ErrMissingFile, fmt.Sprintf("%s does not exist", c.Dir))
		}
		return result.Failf("stat %s failed: %v", c.Dir, err)
	}
	if !info.IsDir() {
		return result.FailKind(check.ErrMissingFile, fmt.Sprintf("%s is not a directory", c.Dir))
	}

	var missing []string
	for _, name := range c.Files {
		if _, err := c.FS.Stat(path.Join(c.Dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return result.FailKind(check.ErrMissingFile, "missing files: "+strings.Join(missing, ", "))
	}

	return result.Pass(fmt.Sprintf("%s: all %d files present", c.Dir, len(c.Files)))
}
