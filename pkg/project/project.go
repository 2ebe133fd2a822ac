// Package project locates the root of an ESP-IDF project.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Markers are files that identify an ESP-IDF project root.
var Markers = []string{
	filepath.Join("main", "CMakeLists.txt"),
	"sdkconfig.defaults",
}

// FindRoot returns explicitRoot when given. Otherwise it walks up from
// startDir to the first directory holding one of Markers, stopping at a git
// repository root or the home directory. When nothing is found, startDir is
// the root and the checks report what is missing.
func FindRoot(startDir, explicitRoot string) (string, error) {
	if explicitRoot != "" {
		info, err := os.Stat(explicitRoot)
		if err != nil {
			return "", fmt.Errorf("project root not found: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project root %s is not a directory", explicitRoot)
		}
		return filepath.Abs(explicitRoot)
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	homeDir, _ := os.UserHomeDir()

	currentDir := start
	for {
		if hasMarker(currentDir) {
			return currentDir, nil
		}
		if currentDir == homeDir {
			break
		}
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	return start, nil
}

func hasMarker(dir string) bool {
	for _, m := range Markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}
