package cc

import (
	semver "github.com/Masterminds/semver/v3"
)

// CoreVersion is this package's own semantic version, in the style of the
// teacher's package-manager registry, which resolves dependencies against
// *semver.Constraints rather than loose string comparisons. An embedding
// program that dynamically loads Tracer implementations from a plugin can
// call RequireCoreVersion to fail fast on a collector-protocol mismatch
// instead of discovering it as a mysterious runtime panic mid-trace.
const CoreVersion = "1.0.0"

// RequireCoreVersion reports whether constraint (a semver constraint
// expression, e.g. ">= 1.0.0, < 2.0.0") is satisfied by CoreVersion,
// mirroring InMemoryRegistry.Find's constraint.Check(version) pattern.
func RequireCoreVersion(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, &Error{Code: ErrInvalidConstraint, Message: err.Error()}
	}

	v, err := semver.NewVersion(CoreVersion)
	if err != nil {
		return false, &Error{Code: ErrInvalidConstraint, Message: err.Error()}
	}

	return c.Check(v), nil
}
