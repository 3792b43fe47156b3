// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"

	"github.com/pyscope/pyscope/syntax"
)

// bindAll resolves each name used in each scope. All occurrences of a
// name within a scope share the result. It runs after the definition
// pass, so every scope's table is complete.
func (r *resolver) bindAll() {
	for _, s := range r.scopes {
		pol := policyOf(s)
		for _, name := range s.names {
			v := pol.bindReference(r, s, name)
			if debug {
				fmt.Printf("bind %s in %s = %v\n", name, s, v)
			}

			var dict *Variable
			if v == nil && s.Kind == Class {
				dict = s.LookupLocal(name)
			}
			for _, ref := range s.refs[name] {
				ref.Variable = v
				ref.dict = dict
			}

			if v != nil && v.Deleted && v.Scope != s && !v.IsGlobal() && !r.version.canDeleteCells() {
				r.errorf(r.site(s, name), "can not delete variable '%s' referenced in nested scope", name)
			}
		}
	}
}

// site returns a node at which to report a problem with the use of
// name in s: its first occurrence, or the scope itself.
func (r *resolver) site(s *Scope, name string) syntax.Node {
	if id := s.first[name]; id != nil {
		return id
	}
	return s.Node
}

// finish completes each scope, innermost first: every capture made
// on behalf of a scope is recorded before its ancestors are finished.
func (r *resolver) finish() {
	for _, s := range r.scopes {
		for _, id := range s.nonlocals {
			if r.lookupNonlocal(s, id.Name) == nil {
				r.errorf(id, "no binding for nonlocal '%s' found", id.Name)
			}
		}

		pol := policyOf(s)
		var closure []*Variable
		closure = append(closure, s.FreeVariables...)
		for _, v := range s.Variables {
			if v.Scope != s || v.Kind == Nonlocal || v.IsGlobal() {
				continue
			}
			if (v.AccessedInNestedScope || pol.exposesLocalVariable(s, v)) && !contains(closure, v) {
				closure = append(closure, v)
			}
		}
		s.ClosureVariables = closure

		r.checkLateBinding(s)

		// Occurrences have been resolved.
		s.refs = nil
	}
}

// checkLateBinding reports the Python 2 restrictions on import * and
// unqualified exec in functions that take part in closures.
func (r *resolver) checkLateBinding(s *Scope) {
	if s.Kind != Function {
		return
	}
	check := func(stmt syntax.Node, what string) {
		switch {
		case s.IsClosure():
			r.errorf(stmt, "%s is not allowed in function '%s' because it is a nested function", what, s.Name)
		case s.ContainsNestedFreeVariables:
			r.errorf(stmt, "%s is not allowed in function '%s' because it contains a nested function with free variables", what, s.Name)
		}
	}
	if s.importStar != nil && !r.version.Is3x() {
		check(s.importStar, "import *")
	}
	if s.exec != nil {
		check(s.exec, "unqualified exec")
	}
}
