// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "fmt"

// A policy implements the binding rules of one kind of scope.
// Policies are stateless; the scope is passed explicitly.
type policy interface {
	// exposesLocalVariable reports whether inner scopes may see
	// the local v of scope s.
	exposesLocalVariable(s *Scope, v *Variable) bool

	// tryBindOuter is called on an enclosing scope s when the scope
	// from cannot resolve name itself. It reports whether s supplies
	// a binding; a false result means the search continues outward.
	tryBindOuter(r *resolver, s, from *Scope, name string, allowGlobals bool) (*Variable, bool)

	// bindReference resolves a name that occurs in s.
	bindReference(r *resolver, s *Scope, name string) *Variable
}

var policies = [...]policy{
	Module:        modulePolicy{},
	Class:         classPolicy{},
	Function:      functionPolicy{},
	Comprehension: functionPolicy{},
}

func policyOf(s *Scope) policy { return policies[s.Kind] }

// lookupOuter resolves name, which s does not bind, in the
// ancestors of s.
func (r *resolver) lookupOuter(s *Scope, name string, allowGlobals bool) *Variable {
	for p := s.Parent; p != nil; p = p.Parent {
		if v, ok := policyOf(p).tryBindOuter(r, p, s, name, allowGlobals); ok {
			return v
		}
	}
	return nil
}

// lookupNonlocal resolves the nonlocal name declared in s to a
// variable of an enclosing function, or returns nil.
func (r *resolver) lookupNonlocal(s *Scope, name string) *Variable {
	if v := r.lookupOuter(s, name, false); v != nil && !v.IsGlobal() {
		return v
	}
	return nil
}

// The module scope is the global namespace.
type modulePolicy struct{}

func (modulePolicy) exposesLocalVariable(s *Scope, v *Variable) bool { return true }

func (modulePolicy) tryBindOuter(r *resolver, s, from *Scope, name string, allowGlobals bool) (*Variable, bool) {
	if !allowGlobals {
		return nil, false
	}
	from.addReferencedGlobal(name)
	// import * or exec anywhere along the chain may supply the
	// name at run time.
	for x := from; x != s; x = x.Parent {
		if x.HasLateBoundVariableSets {
			return nil, false
		}
	}
	v := s.ensure(name, Global)
	if from != s {
		v.AccessedInNestedScope = true
	}
	return v, true
}

func (modulePolicy) bindReference(r *resolver, s *Scope, name string) *Variable {
	return s.ensure(name, Local)
}

// A class body executes in its own namespace, which is invisible
// to the functions nested within it.
type classPolicy struct{}

func (classPolicy) exposesLocalVariable(s *Scope, v *Variable) bool { return true }

func (classPolicy) tryBindOuter(r *resolver, s, from *Scope, name string, allowGlobals bool) (*Variable, bool) {
	if name != "__class__" || !r.version.Is3x() {
		return nil, false
	}
	if s.classCell == nil {
		s.classCell = &Variable{Name: name, Kind: Local, Scope: s, Implicit: true}
		s.Variables = append(s.Variables, s.classCell)
	}
	capture(s, from, s.classCell)
	return s.classCell, true
}

func (classPolicy) bindReference(r *resolver, s *Scope, name string) *Variable {
	if v := s.LookupLocal(name); v != nil {
		switch v.Kind {
		case Global:
			s.addReferencedGlobal(name)
			return v
		case Nonlocal:
			if outer := r.lookupNonlocal(s, name); outer != nil {
				return outer
			}
			return v
		}
		// Looked up in the class namespace at run time.
		return nil
	}
	return r.lookupOuter(s, name, true)
}

// Functions, lambdas and comprehensions.
type functionPolicy struct{}

func (functionPolicy) exposesLocalVariable(s *Scope, v *Variable) bool {
	return s.NeedsLocalsDictionary
}

func (functionPolicy) tryBindOuter(r *resolver, s, from *Scope, name string, allowGlobals bool) (*Variable, bool) {
	v := s.LookupLocal(name)
	if v == nil {
		return nil, false
	}
	switch v.Kind {
	case Local, Parameter:
		capture(s, from, v)
		return v, true
	case Global:
		if allowGlobals {
			from.addReferencedGlobal(name)
		}
		return v, true
	}
	// A nonlocal placeholder: the binding lies further out.
	return nil, false
}

func (functionPolicy) bindReference(r *resolver, s *Scope, name string) *Variable {
	if v := s.LookupLocal(name); v != nil {
		switch v.Kind {
		case Global:
			s.addReferencedGlobal(name)
			return v
		case Nonlocal:
			if outer := r.lookupNonlocal(s, name); outer != nil {
				return outer
			}
			return v
		}
		return v
	}
	return r.lookupOuter(s, name, true)
}

// capture records that from (a descendant of s) uses v, a variable
// of s: v becomes a cell of s and a free variable of every scope
// from from up to, but not including, s.
func capture(s, from *Scope, v *Variable) {
	if debug {
		fmt.Printf("capture %s from %s\n", v, from)
	}
	s.ContainsNestedFreeVariables = true
	v.AccessedInNestedScope = true
	for x := from; x != s; x = x.Parent {
		x.addFree(v)
	}
	s.addCell(v)
}
