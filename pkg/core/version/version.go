// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management and compatibility checks
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version constants
const (
	// Application version
	App = "1.0.0"

	// HistorySchema is the version of the transcript store layout
	HistorySchema = "1.1.0"
)

// Commit and BuildDate are set through -ldflags at release time
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// String returns the full version line
func String() string {
	return fmt.Sprintf("galnotes %s (commit %s, built %s, history schema %s)", App, Commit, BuildDate, HistorySchema)
}

// Compatible reports whether a stored version can be read by current. Both
// must share the major version and stored must not be newer than current.
func Compatible(stored, current string) (bool, error) {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", current, err)
	}
	c, err := semver.NewConstraint(fmt.Sprintf(">= %d.0.0, <= %s", cur.Major(), cur.String()))
	if err != nil {
		return false, err
	}
	sv, err := semver.NewVersion(stored)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", stored, err)
	}
	return c.Check(sv), nil
}

// Satisfies reports whether the application version meets a constraint
// such as ">= 1.0, < 2"
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint: %w", err)
	}
	return c.Check(semver.MustParse(App)), nil
}
