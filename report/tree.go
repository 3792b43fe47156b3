// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report presents the results of name resolution: as a scope
// tree for people, as JSON for tools, and as annotated diagnostics.
package report // import "github.com/pyscope/pyscope/report"

import (
	"fmt"
	"strings"

	asciitree "github.com/thediveo/go-asciitree"

	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/syntax"
)

// TreeOptions controls the rendering of a scope tree.
type TreeOptions struct {
	Flags   bool // show the flags of each scope
	Closure bool // show closure variables
}

type treeNode struct {
	Label    string     `asciitree:"label"`
	Props    []string   `asciitree:"properties"`
	Children []treeNode `asciitree:"children"`
}

// Tree renders the scope tree of res.
func Tree(res *resolve.Resolution, opts TreeOptions) string {
	return asciitree.RenderFancy(scopeNode(res.Module, opts))
}

func scopeNode(s *resolve.Scope, opts TreeOptions) treeNode {
	n := treeNode{Label: scopeLabel(s)}
	if len(s.Variables) > 0 {
		var vars []string
		for _, v := range s.Variables {
			vars = append(vars, variableLabel(s, v))
		}
		n.Props = append(n.Props, "variables: "+strings.Join(vars, ", "))
	}
	n.Props = appendNames(n.Props, "free", s.FreeVariables)
	n.Props = appendNames(n.Props, "cell", s.CellVariables)
	if opts.Closure {
		n.Props = appendNames(n.Props, "closure", s.ClosureVariables)
	}
	if len(s.ReferencedGlobals) > 0 {
		n.Props = append(n.Props, "globals: "+strings.Join(s.ReferencedGlobals, ", "))
	}
	if opts.Flags {
		if flags := ScopeFlags(s); len(flags) > 0 {
			n.Props = append(n.Props, "flags: "+strings.Join(flags, ", "))
		}
	}
	for _, child := range s.Children {
		n.Children = append(n.Children, scopeNode(child, opts))
	}
	return n
}

func scopeLabel(s *resolve.Scope) string {
	if s.Kind == resolve.Module {
		if f, ok := s.Node.(*syntax.File); ok && f.Path != "" {
			return "module " + f.Path
		}
		return "module"
	}
	return fmt.Sprintf("%s %s (%s)", s.Kind, s.Name, syntax.Start(s.Node))
}

// variableLabel describes v as an entry of the table of s.
func variableLabel(s *resolve.Scope, v *resolve.Variable) string {
	var notes []string
	if v.Kind != resolve.Local {
		notes = append(notes, v.Kind.String())
	}
	if v.Deleted {
		notes = append(notes, "deleted")
	}
	if v.Implicit {
		notes = append(notes, "implicit")
	}
	if len(notes) == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s (%s)", v.Name, strings.Join(notes, ", "))
}

func appendNames(props []string, key string, vars []*resolve.Variable) []string {
	if len(vars) == 0 {
		return props
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return append(props, key+": "+strings.Join(names, ", "))
}

// ScopeFlags returns the names of the flags set on s.
func ScopeFlags(s *resolve.Scope) []string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{s.ContainsNestedFreeVariables, "nested-free"},
		{s.NeedsLocalsDictionary, "locals-dict"},
		{s.HasLateBoundVariableSets, "late-bound"},
		{s.ContainsImportStar, "import-star"},
		{s.ContainsUnqualifiedExec, "exec"},
		{s.ContainsExceptionHandling, "exceptions"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return flags
}
