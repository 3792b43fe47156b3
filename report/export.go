// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/syntax"
)

// Export encodes res as a protocol buffer Struct.
//
// Scopes are listed in pre-order and referred to by index; the module
// is scope 0 and has parent -1. A variable is denoted by the index of
// its owning scope, its name and its kind.
func Export(res *resolve.Resolution) (*structpb.Struct, error) {
	index := make(map[*resolve.Scope]int, len(res.Scopes))
	for i, s := range res.Scopes {
		index[s] = i
	}
	varRef := func(v *resolve.Variable) interface{} {
		if v == nil {
			return nil
		}
		return map[string]interface{}{
			"scope": int64(index[v.Scope]),
			"name":  v.Name,
			"kind":  v.Kind.String(),
		}
	}

	scopes := make([]interface{}, len(res.Scopes))
	for i, s := range res.Scopes {
		parent := -1
		if s.Parent != nil {
			parent = index[s.Parent]
		}
		var vars []interface{}
		for _, v := range s.Variables {
			m := map[string]interface{}{
				"name":         v.Name,
				"kind":         v.Kind.String(),
				"owner":        int64(index[v.Scope]),
				"deleted":      v.Deleted,
				"nestedAccess": v.AccessedInNestedScope,
				"implicit":     v.Implicit,
			}
			if v.First != nil {
				addPos(m, v.First.NamePos)
			}
			vars = append(vars, m)
		}
		m := map[string]interface{}{
			"index":             int64(i),
			"parent":            int64(parent),
			"kind":              s.Kind.String(),
			"name":              s.Name,
			"variables":         list(vars),
			"free":              names(s.FreeVariables),
			"cell":              names(s.CellVariables),
			"closure":           names(s.ClosureVariables),
			"referencedGlobals": strs(s.ReferencedGlobals),
			"flags":             strs(ScopeFlags(s)),
		}
		addPos(m, syntax.Start(s.Node))
		scopes[i] = m
	}

	refs := make([]interface{}, 0, len(res.References()))
	for _, ref := range res.References() {
		m := map[string]interface{}{
			"name":     ref.Name,
			"scope":    int64(index[ref.Scope]),
			"variable": varRef(ref.Variable),
		}
		if ref.Variable == nil && ref.Target() != nil {
			m["target"] = varRef(ref.Target())
		}
		addPos(m, ref.Ident.NamePos)
		refs = append(refs, m)
	}

	st, err := structpb.NewStruct(map[string]interface{}{
		"path":       res.File.Path,
		"version":    res.Version.String(),
		"scopes":     scopes,
		"references": refs,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", res.File.Path, err)
	}
	return st, nil
}

// MarshalJSON returns the JSON encoding of Export(res).
func MarshalJSON(res *resolve.Resolution, multiline bool) ([]byte, error) {
	st, err := Export(res)
	if err != nil {
		return nil, err
	}
	opts := protojson.MarshalOptions{Multiline: multiline}
	if multiline {
		opts.Indent = "  "
	}
	return opts.Marshal(st)
}

func addPos(m map[string]interface{}, pos syntax.Position) {
	if pos.IsValid() {
		m["line"] = pos.Line
		m["col"] = pos.Col
	}
}

// list returns a non-nil list, so that empty lists encode as [].
func list(x []interface{}) []interface{} {
	if x == nil {
		return []interface{}{}
	}
	return x
}

func names(vars []*resolve.Variable) []interface{} {
	out := make([]interface{}, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}

func strs(x []string) []interface{} {
	out := make([]interface{}, len(x))
	for i, s := range x {
		out[i] = s
	}
	return out
}
