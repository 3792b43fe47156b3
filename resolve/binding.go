// Copyright 2019 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"

	"github.com/pyscope/pyscope/syntax"
)

// This file defines the resolver's data types: scopes, variables
// and references. They are recorded in a Resolution; the syntax tree
// itself is never modified.

// The ScopeKind of a Scope selects its binding rules.
type ScopeKind uint8

const (
	Module        ScopeKind = iota // the module (global namespace)
	Class                          // a class body
	Function                       // a def or lambda
	Comprehension                  // a comprehension or generator expression
)

var scopeKindNames = [...]string{
	Module:        "module",
	Class:         "class",
	Function:      "function",
	Comprehension: "comprehension",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// A VariableKind records how a variable was declared.
// Cell and free are not kinds: they are properties of a variable
// relative to a scope (see Scope.IsCell and Scope.IsFree).
type VariableKind uint8

const (
	Local     VariableKind = iota // assigned (or deleted) in its scope
	Parameter                     // a function parameter
	Global                        // declared global, or created by a lookup in the global namespace
	Nonlocal                      // a nonlocal placeholder
)

var variableKindNames = [...]string{
	Local:     "local",
	Parameter: "parameter",
	Global:    "global",
	Nonlocal:  "nonlocal",
}

func (k VariableKind) String() string { return variableKindNames[k] }

// A Variable is a name declared in some scope.
// Two scopes may map a name to the same Variable: a global
// declaration aliases the module's variable into the function.
type Variable struct {
	Name  string
	Kind  VariableKind
	Scope *Scope // owning scope

	First *syntax.Ident // first declaring identifier; nil if created by a lookup

	Deleted               bool // target of a del statement (or, in 3.x, an except clause)
	AccessedInNestedScope bool // captured or looked up by an inner scope
	Implicit              bool // created by a lookup, never declared
}

// IsGlobal reports whether the variable lives in the module namespace.
func (v *Variable) IsGlobal() bool { return v.Kind == Global || v.Scope.IsGlobal }

func (v *Variable) String() string {
	return fmt.Sprintf("%s %s in %s", v.Kind, v.Name, v.Scope)
}

// A Reference is one occurrence of a name.
type Reference struct {
	Name  string        // the bound name; for "import a.b" this is "a"
	Ident *syntax.Ident // the occurrence
	Scope *Scope        // scope in which the occurrence appears

	// Variable is the statically resolved variable, or nil if the name
	// is late-bound, unresolvable, or looked up in a class namespace.
	Variable *Variable

	dict *Variable // class namespace entry for a nil Variable
}

// Target returns the variable the reference denotes for navigation
// purposes: the resolved Variable, or for a name looked up in a class
// body's namespace, the class's own entry.
func (r *Reference) Target() *Variable {
	if r.Variable != nil {
		return r.Variable
	}
	return r.dict
}

func (r *Reference) String() string {
	return fmt.Sprintf("%s: %s -> %v", r.Ident.NamePos, r.Name, r.Variable)
}

// A Scope is one lexical scope: the module, a class body, a function
// or lambda, or a comprehension.
type Scope struct {
	Kind     ScopeKind
	Node     syntax.Node // *syntax.File, *ClassStmt, *DefStmt, *LambdaExpr or *Comprehension
	Name     string      // def or class name, or "<module>", "<lambda>", "<genexpr>", ...
	Parent   *Scope      // nil for the module
	Children []*Scope
	IsGlobal bool // module scope only

	// Variables lists the scope's table in declaration order.
	// Global aliases appear here but are owned by the module.
	Variables []*Variable

	FreeVariables     []*Variable     // captured from enclosing scopes, including pass-through
	CellVariables     []*Variable     // own variables captured by inner scopes
	ClosureVariables  []*Variable     // free variables plus own variables visible to inner scopes
	ReferencedGlobals []string        // names looked up in the global namespace
	NonlocalNames     []*syntax.Ident // names declared nonlocal

	ContainsNestedFreeVariables bool // an inner scope captures one of our variables
	NeedsLocalsDictionary       bool // locals(), vars(), dir(), eval, unqualified exec, or import *
	HasLateBoundVariableSets    bool // import * or unqualified exec may bind unknown names
	ContainsImportStar          bool
	ContainsUnqualifiedExec     bool
	ContainsExceptionHandling   bool

	table map[string]*Variable

	// Analysis state, discarded by Resolution.Reduce.
	names     []string                 // referenced names, first-seen order
	first     map[string]*syntax.Ident // first occurrence of each name (nil if implicit)
	refs      map[string][]*Reference  // occurrences, until the finishing pass
	nonlocals []*syntax.Ident          // pending nonlocal declarations
	iterVars  map[string]bool          // comprehension iteration variables
	classCell *Variable                // implicit __class__ cell of a class body

	importStar syntax.Node // first import * statement
	exec       syntax.Node // first unqualified exec statement
}

func newScope(kind ScopeKind, node syntax.Node, name string) *Scope {
	return &Scope{
		Kind:  kind,
		Node:  node,
		Name:  name,
		table: make(map[string]*Variable),
		first: make(map[string]*syntax.Ident),
		refs:  make(map[string][]*Reference),
	}
}

func (s *Scope) String() string {
	if s.Kind == Module {
		return "module"
	}
	return fmt.Sprintf("%s %s at %s", s.Kind, s.Name, syntax.Start(s.Node))
}

// LookupLocal returns the variable this scope's table maps name to,
// or nil. It never consults enclosing scopes.
func (s *Scope) LookupLocal(name string) *Variable { return s.table[name] }

// HasBeenReferenced reports whether name has occurred in this scope.
// During the definition pass it reports only prior occurrences.
func (s *Scope) HasBeenReferenced(name string) bool {
	_, ok := s.first[name]
	return ok
}

// IsFree reports whether v is a free variable of s.
func (s *Scope) IsFree(v *Variable) bool { return contains(s.FreeVariables, v) }

// IsCell reports whether v is a cell variable of s.
func (s *Scope) IsCell(v *Variable) bool { return contains(s.CellVariables, v) }

// IsClosure reports whether the scope captures variables of enclosing scopes.
func (s *Scope) IsClosure() bool { return len(s.FreeVariables) > 0 }

// declare returns the variable for name in s, creating it with the
// specified kind if absent.
func (s *Scope) declare(id *syntax.Ident, name string, kind VariableKind) *Variable {
	if v, ok := s.table[name]; ok {
		if v.First == nil && v.Scope == s {
			v.First = id
		}
		return v
	}
	v := &Variable{Name: name, Kind: kind, Scope: s, First: id}
	s.table[name] = v
	s.Variables = append(s.Variables, v)
	return v
}

// alias maps name in s to v, a variable owned by another scope,
// replacing any previous entry in place.
func (s *Scope) alias(name string, v *Variable) {
	if old, ok := s.table[name]; ok {
		for i, x := range s.Variables {
			if x == old {
				s.Variables[i] = v
			}
		}
	} else {
		s.Variables = append(s.Variables, v)
	}
	s.table[name] = v
}

// ensure returns the module variable for name, creating an implicit
// one of the specified kind if absent.
func (s *Scope) ensure(name string, kind VariableKind) *Variable {
	v, ok := s.table[name]
	if !ok {
		v = s.declare(nil, name, kind)
		v.Implicit = true
	}
	return v
}

func (s *Scope) addFree(v *Variable) {
	if !contains(s.FreeVariables, v) {
		s.FreeVariables = append(s.FreeVariables, v)
	}
}

func (s *Scope) addCell(v *Variable) {
	if !contains(s.CellVariables, v) {
		s.CellVariables = append(s.CellVariables, v)
	}
}

func (s *Scope) addReferencedGlobal(name string) {
	for _, g := range s.ReferencedGlobals {
		if g == name {
			return
		}
	}
	s.ReferencedGlobals = append(s.ReferencedGlobals, name)
}

// isFunctionLike reports whether s follows function binding rules.
func (s *Scope) isFunctionLike() bool { return s.Kind == Function || s.Kind == Comprehension }

func contains(vars []*Variable, v *Variable) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}
