package toolchain

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?)`)

// ParseVersion extracts the first version number from tool output such as
// "cargo 1.79.0 (ffa9cf99a 2024-06-03)" or "Python 3.12.1".
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", output)
	}
	return semver.NewVersion(m[1])
}

// Version runs "<tool> --version" and parses its output.
func Version(ctx context.Context, r Runner, tool string) (*semver.Version, error) {
	res, err := RunChecked(ctx, r, Command{Name: tool, Args: []string{"--version"}})
	if err != nil {
		return nil, err
	}
	out := res.Stdout
	if out == "" {
		out = res.Stderr
	}
	return ParseVersion(out)
}
