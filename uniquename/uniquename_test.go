// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniquename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/syntax"
	"github.com/pyscope/pyscope/uniquename"
)

// def f():
//     tmp = 1
//     def g():
//         return tmp1
// def h():
//     x = tmp2
// lambda: tmp3
const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: tmp}]
    value: {_type: Constant, value: 1}
  - _type: FunctionDef
    name: g
    args: {_type: arguments}
    body:
    - _type: Return
      value: {_type: Name, id: tmp1}
- _type: FunctionDef
  name: h
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Name, id: tmp2}
- _type: Expr
  value:
    _type: Lambda
    args: {_type: arguments}
    body: {_type: Name, id: tmp3}
`

func resolveSrc(t *testing.T) *resolve.Resolution {
	t.Helper()
	f, err := syntax.Decode("m.yaml", []byte(src))
	require.NoError(t, err)
	return resolve.File(f, resolve.Python38, nil, 0)
}

func scopeNamed(res *resolve.Resolution, name string) *resolve.Scope {
	for _, s := range res.Scopes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestModuleWide(t *testing.T) {
	res := resolveSrc(t)
	assert.Equal(t, "tmp4", uniquename.ModuleWide(res, "tmp"))
	assert.Equal(t, "y", uniquename.ModuleWide(res, "y"))
	assert.Equal(t, "x1", uniquename.ModuleWide(res, "x"))
	assert.Equal(t, "class1", uniquename.ModuleWide(res, "class"))
	assert.Equal(t, "name", uniquename.ModuleWide(res, ""))
}

func TestInScope(t *testing.T) {
	res := resolveSrc(t)

	// Within h, only h's subtree and its ancestors matter:
	// tmp and tmp1 belong to f and g, and tmp3 to the lambda.
	h := scopeNamed(res, "h")
	require.NotNil(t, h)
	assert.Equal(t, "tmp", uniquename.InScope(res, h, "tmp"))
	assert.Equal(t, "x1", uniquename.InScope(res, h, "x"))
	assert.Equal(t, "tmp21", uniquename.InScope(res, h, "tmp2"))

	// Within f, g's names are visible, as are the module's
	// implicit globals.
	f := scopeNamed(res, "f")
	assert.Equal(t, "tmp4", uniquename.InScope(res, f, "tmp"))

	// Module-level names are seen from everywhere.
	assert.Equal(t, "f1", uniquename.InScope(res, h, "f"))
}

func TestLeafScopes(t *testing.T) {
	res := resolveSrc(t)
	var names []string
	for _, s := range uniquename.LeafScopes(res.Module) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"g", "h", "<lambda>"}, names)

	h := scopeNamed(res, "h")
	assert.Equal(t, []*resolve.Scope{h}, uniquename.LeafScopes(h))
}
