// Copyright 2019 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "github.com/pyscope/pyscope/syntax"

// A Resolution holds the result of resolving one file: its tree of
// scopes, their variables, and the variable denoted by each
// occurrence of a name. It is a side table keyed by syntax nodes.
type Resolution struct {
	File    *syntax.File
	Version Version
	Module  *Scope   // the root scope
	Scopes  []*Scope // all scopes in pre-order, Module first

	// Variables lists every variable, grouped by owning scope in
	// the order of Scopes.
	Variables []*Variable

	references []*Reference // in order of occurrence
	refs       map[*syntax.Ident]*Reference
	scopes     map[syntax.Node]*Scope
}

func newResolution(file *syntax.File, version Version, module *Scope) *Resolution {
	return &Resolution{
		File:    file,
		Version: version,
		Module:  module,
		Scopes:  []*Scope{module},
		refs:    make(map[*syntax.Ident]*Reference),
		scopes:  map[syntax.Node]*Scope{file: module},
	}
}

func (res *Resolution) addScope(s *Scope) {
	res.Scopes = append(res.Scopes, s)
	res.scopes[s.Node] = s
}

func (res *Resolution) addReference(ref *Reference) {
	res.refs[ref.Ident] = ref
	res.references = append(res.references, ref)
}

func (res *Resolution) collectVariables() {
	res.Variables = res.Variables[:0]
	for _, s := range res.Scopes {
		for _, v := range s.Variables {
			if v.Scope == s {
				res.Variables = append(res.Variables, v)
			}
		}
	}
}

// Reference returns the reference recorded for the identifier id,
// or nil if id is not a name occurrence or references were skipped.
func (res *Resolution) Reference(id *syntax.Ident) *Reference { return res.refs[id] }

// References returns all references, in order of occurrence.
func (res *Resolution) References() []*Reference { return res.references }

// Scope returns the scope introduced by n, which must be the File,
// a DefStmt, ClassStmt, LambdaExpr or scoped Comprehension; otherwise
// it returns nil.
func (res *Resolution) Scope(n syntax.Node) *Scope { return res.scopes[n] }

// Reduce discards the analysis state held by each scope. Resolved
// references, variable tables, the free, cell and closure lists, and
// HasBeenReferenced are unaffected.
func (res *Resolution) Reduce() {
	for _, s := range res.Scopes {
		s.names = nil
		s.refs = nil
		s.nonlocals = nil
		s.iterVars = nil
		s.importStar = nil
		s.exec = nil
	}
}
