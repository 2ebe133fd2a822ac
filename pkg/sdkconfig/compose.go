// Package sdkconfig builds the smoke-test configuration and swaps it in
// place of the project's sdkconfig for the duration of a build step.
package sdkconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertti/bspcheck/pkg/board"
)

// File names inside the project root.
const (
	FileConfig   = "sdkconfig"
	FileDefaults = "sdkconfig.defaults"
	FileTest     = "sdkconfig.test"
	FileBackup   = "sdkconfig.backup"
	FileJournal  = "sdkconfig.override"
	FileLock     = "sdkconfig.lock"
)

// Compose returns the test configuration: the project defaults followed by
// the board selection, target and overrides. manifest may be nil.
func Compose(defaults string, p *board.Profile, manifest *board.Manifest) string {
	target := p.Target
	if manifest != nil && manifest.Target != "" {
		target = manifest.Target
	}
	if target == "" {
		target = board.DefaultTarget
	}

	var b strings.Builder
	b.WriteString(defaults)
	if defaults != "" && !strings.HasSuffix(defaults, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n# %s smoke test configuration\n", p.Description)
	fmt.Fprintf(&b, "%s=y\n", p.ConfigSymbol())
	fmt.Fprintf(&b, "CONFIG_IDF_TARGET=%q\n", target)
	for _, line := range p.SdkconfigOverrides {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if manifest != nil && len(manifest.SdkconfigAppend) > 0 {
		b.WriteString("\n# from board config.json\n")
		for _, line := range manifest.SdkconfigAppend {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ReadDefaults returns the project's sdkconfig.defaults, or "" if there is none.
func ReadDefaults(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, FileDefaults)) //nolint:gosec // project file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", FileDefaults, err)
	}
	return string(data), nil
}

// WriteTest writes content to sdkconfig.test and returns its path.
func WriteTest(root, content string) (string, error) {
	path := filepath.Join(root, FileTest)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // build config is not secret
		return "", fmt.Errorf("writing %s: %w", FileTest, err)
	}
	return path, nil
}
