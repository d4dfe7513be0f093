package build

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, CommitSHA, BuildDate)
}

// SemVer parses v as a release version. A leading "v" is accepted.
// Development builds ("dev", "unknown") are rejected.
func SemVer(v string) (*semver.Version, error) {
	trimmed := strings.TrimPrefix(v, "v")
	if trimmed == "dev" || trimmed == "unknown" || trimmed == "" {
		return nil, fmt.Errorf("%q is not a release build", v)
	}
	sv, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", v, err)
	}
	return sv, nil
}
