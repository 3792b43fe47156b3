// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uniquename chooses names for new variables and functions
// that do not collide with the names of a resolved module.
package uniquename // import "github.com/pyscope/pyscope/uniquename"

import (
	"strconv"

	"github.com/pyscope/pyscope/resolve"
)

// Python 3 keywords and soft keywords, which are never suitable names.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "exec": true,
	"finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true,
	"print": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// ModuleWide returns base if no scope of the module uses it, or else
// the first of base1, base2, ... that is unused. A name is used if it
// is in any variable table, is a referenced global, or occurs anywhere.
func ModuleWide(res *resolve.Resolution, base string) string {
	used := make(map[string]bool)
	for _, s := range res.Scopes {
		addNames(used, s)
	}
	for _, ref := range res.References() {
		used[ref.Name] = true
	}
	return pick(used, base)
}

// InScope returns a name for a new variable of scope s that neither
// shadows nor is shadowed by any name visible where it would be used.
// It considers every scope on a path from a leaf scope beneath s up
// to the module, so names used by sibling subtrees of s's ancestors
// are available.
func InScope(res *resolve.Resolution, s *resolve.Scope, base string) string {
	path := make(map[*resolve.Scope]bool)
	for _, leaf := range LeafScopes(s) {
		for x := leaf; x != nil && !path[x]; x = x.Parent {
			path[x] = true
		}
	}
	used := make(map[string]bool)
	for x := range path {
		addNames(used, x)
	}
	for _, ref := range res.References() {
		if path[ref.Scope] {
			used[ref.Name] = true
		}
	}
	return pick(used, base)
}

// LeafScopes returns the scopes beneath s, including s itself, that
// have no children, in pre-order.
func LeafScopes(s *resolve.Scope) []*resolve.Scope {
	if len(s.Children) == 0 {
		return []*resolve.Scope{s}
	}
	var leaves []*resolve.Scope
	for _, child := range s.Children {
		leaves = append(leaves, LeafScopes(child)...)
	}
	return leaves
}

func addNames(used map[string]bool, s *resolve.Scope) {
	for _, v := range s.Variables {
		used[v.Name] = true
	}
	for _, v := range s.FreeVariables {
		used[v.Name] = true
	}
	for _, name := range s.ReferencedGlobals {
		used[name] = true
	}
}

func pick(used map[string]bool, base string) string {
	if base == "" {
		base = "name"
	}
	if !used[base] && !keywords[base] {
		return base
	}
	for i := 1; ; i++ {
		if name := base + strconv.Itoa(i); !used[name] {
			return name
		}
	}
}
