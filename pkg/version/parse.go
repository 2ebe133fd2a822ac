package version

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// versionRegex matches version patterns like v5.4.1, 5.3, v6.0-dev, etc.
var versionRegex = regexp.MustCompile(`v?\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.-]+)?`)

// Extract finds and parses the first version number in a string, such as
// the output of "idf.py --version" ("ESP-IDF v5.4.1-dirty").
func Extract(s string) (*semver.Version, error) {
	match := versionRegex.FindString(s)
	if match == "" {
		return nil, fmt.Errorf("no version found in: %q", s)
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", match, err)
	}
	return v, nil
}

// Satisfies reports whether the version found in output meets constraint.
// It returns the parsed version for display.
func Satisfies(output, constraint string) (*semver.Version, bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	v, err := Extract(output)
	if err != nil {
		return nil, false, err
	}
	// Local builds report pre-release suffixes like -dirty; compare the release.
	release := semver.New(v.Major(), v.Minor(), v.Patch(), "", "")
	return v, c.Check(release), nil
}
