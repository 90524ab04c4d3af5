// Package version holds the engine identity stamped into every backtest
// result and the compatibility rules for result consumers.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/quantframe-lab/quantframe/pkg/errors"
)

// EngineName identifies the engine in result metadata.
const EngineName = "quantframe-backtest"

// EngineVersion is the semantic version of the engine. Overridden at build
// time via -ldflags for release builds.
var EngineVersion = "1.0.0"

// CheckResultCompatibility checks whether a serialized result produced by
// resultVersion can be consumed by an engine at engineVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor and patch versions can differ
func CheckResultCompatibility(engineVersion, resultVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	resultVersion = strings.TrimPrefix(resultVersion, "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || resultVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid engine version '%s'", engineVersion)
	}

	resultSemver, err := semver.NewVersion(resultVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid result version '%s'", resultVersion)
	}

	if engineSemver.Major() != resultSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"result version %s is not compatible with engine version %s: major versions differ",
			resultVersion, engineVersion)
	}

	return nil
}
