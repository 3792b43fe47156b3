// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"sort"

	"github.com/pyscope/pyscope/syntax"
)

// Severity classifies a Diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// A Diagnostic describes a violation of Python's scoping rules.
// Diagnostics never stop resolution.
type Diagnostic struct {
	Severity Severity
	Pos, End syntax.Position
	Msg      string
}

func (d Diagnostic) Error() string { return d.Pos.String() + ": " + d.Msg }

// A Sink receives diagnostics as the resolver finds them.
type Sink interface {
	Report(Diagnostic)
}

// A SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// An ErrorList is a list of diagnostics. It is a Sink, and when
// non-empty, an error.
type ErrorList []Diagnostic

func (e *ErrorList) Report(d Diagnostic) { *e = append(*e, d) }

func (e ErrorList) Error() string { return e[0].Error() }

// Errors returns the diagnostics of Error severity.
func (e ErrorList) Errors() ErrorList {
	var errs ErrorList
	for _, d := range e {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errs
}

// Sort sorts the list by position, stably.
func (e ErrorList) Sort() {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Pos.Before(e[j].Pos) })
}

type discard struct{}

func (discard) Report(Diagnostic) {}
