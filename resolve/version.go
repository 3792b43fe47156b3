// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// A Version is a Python language version. Several scoping rules
// depend on it: comprehension scopes, deletion of closure variables,
// the implicit deletion of exception targets, and the legality of
// import * and exec inside functions.
type Version struct {
	Major, Minor int
}

// Commonly used versions.
var (
	Python27 = Version{2, 7}
	Python30 = Version{3, 0}
	Python32 = Version{3, 2}
	Python38 = Version{3, 8}
)

// ParseVersion parses a version of the form "3", "3.8" or "3.8.10".
// The micro component, if any, is ignored.
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 2 || major > 3 {
		return Version{}, fmt.Errorf("invalid Python version %q", s)
	}
	v := Version{Major: major}
	if len(parts) > 1 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil || minor < 0 {
			return Version{}, fmt.Errorf("invalid Python version %q", s)
		}
		v.Minor = minor
	}
	return v, nil
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// AtLeast reports whether v is the version major.minor or later.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// Is3x reports whether v is a Python 3 version.
func (v Version) Is3x() bool { return v.Major >= 3 }

// comprehensionScopes reports whether list, set and dict
// comprehensions introduce a scope. Generator expressions always do.
func (v Version) comprehensionScopes() bool { return v.Is3x() }

// canDeleteCells reports whether a variable captured by a nested
// scope may be deleted.
func (v Version) canDeleteCells() bool { return v.AtLeast(3, 2) }
