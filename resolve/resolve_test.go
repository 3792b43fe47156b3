// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyscope/pyscope/internal/chunkedfile"
	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/syntax"
)

var optionRx = regexp.MustCompile(`option:py(\d)(\d+)`)

// chunkVersion returns the language version selected by an
// "option:pyMN" comment in src, or 3.8.
func chunkVersion(src string) resolve.Version {
	if m := optionRx.FindStringSubmatch(src); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		return resolve.Version{Major: major, Minor: minor}
	}
	return resolve.Python38
}

func TestResolve(t *testing.T) {
	filename := filepath.Join("testdata", "resolve.yaml")
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Decode(filename, []byte(chunk.Source))
		if err != nil {
			t.Error(err)
			continue
		}

		var diags resolve.ErrorList
		resolve.File(f, chunkVersion(chunk.Source), &diags, 0)
		for _, d := range diags {
			if d.Severity == resolve.Warning {
				chunk.GotWarning(int(d.Pos.Line), d.Msg)
			} else {
				chunk.GotError(int(d.Pos.Line), d.Msg)
			}
		}
		chunk.Done()
	}
}

// resolveSrc decodes and resolves a module given as a YAML syntax tree.
func resolveSrc(t *testing.T, version resolve.Version, src string) (*resolve.Resolution, resolve.ErrorList) {
	t.Helper()
	f, err := syntax.Decode("test.yaml", []byte(src))
	require.NoError(t, err)
	var diags resolve.ErrorList
	return resolve.File(f, version, &diags, 0), diags
}

// scopeNamed returns the first scope, in pre-order, with the given name.
func scopeNamed(t *testing.T, res *resolve.Resolution, name string) *resolve.Scope {
	t.Helper()
	for _, s := range res.Scopes {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no scope named %s", name)
	return nil
}

// refsTo returns the references to name that occur in scope s.
func refsTo(res *resolve.Resolution, s *resolve.Scope, name string) []*resolve.Reference {
	var refs []*resolve.Reference
	for _, ref := range res.References() {
		if ref.Scope == s && ref.Name == name {
			refs = append(refs, ref)
		}
	}
	return refs
}

func varNames(vars []*resolve.Variable) []string {
	names := []string{}
	for _, v := range vars {
		names = append(names, v.Name)
	}
	return names
}

const everything = `
- _type: Import
  names: [{_type: alias, name: os.path}]
- _type: ImportFrom
  module: collections
  names: [{_type: alias, name: OrderedDict, asname: OD}]
  level: 0
- _type: FunctionDef
  name: f
  args:
    _type: arguments
    args: [{_type: arg, arg: a}]
    vararg: {_type: arg, arg: args}
    kwonlyargs: [{_type: arg, arg: b}]
    kw_defaults: [{_type: Constant, value: 1}]
    kwarg: {_type: arg, arg: kw}
  body:
  - _type: Assign
    targets: [{_type: Name, id: c}]
    value: {_type: BinOp, left: {_type: Name, id: a}, op: {_type: Add}, right: {_type: Name, id: b}}
  - _type: FunctionDef
    name: g
    args: {_type: arguments}
    body:
    - _type: Return
      value:
        _type: BinOp
        left: {_type: Name, id: c}
        op: {_type: Add}
        right: {_type: Call, func: {_type: Name, id: len}, args: [{_type: Name, id: args}]}
  - _type: Return
    value: {_type: Name, id: g}
- _type: ClassDef
  name: C
  bases: [{_type: Name, id: object}]
  body:
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Constant, value: 1}
  - _type: Assign
    targets: [{_type: Name, id: y}]
    value: {_type: BinOp, left: {_type: Name, id: x}, op: {_type: Add}, right: {_type: Constant, value: 1}}
  - _type: FunctionDef
    name: m
    args: {_type: arguments, args: [{_type: arg, arg: self}]}
    body:
    - _type: Return
      value:
        _type: ListComp
        elt: {_type: BinOp, left: {_type: Name, id: i}, op: {_type: Mult}, right: {_type: Attribute, value: {_type: Name, id: self}, attr: z}}
        generators:
        - {target: {_type: Name, id: i}, iter: {_type: Call, func: {_type: Name, id: range}, args: [{_type: Constant, value: 3}]}, ifs: []}
- _type: Assign
  targets: [{_type: Name, id: lam}]
  value:
    _type: Lambda
    args: {_type: arguments, args: [{_type: arg, arg: q}]}
    body: {_type: BinOp, left: {_type: Name, id: q}, op: {_type: Add}, right: {_type: Name, id: OD}}
`

// Without import * or exec, every occurrence of a name denotes a
// variable; in a class body, it may be the class's own entry.
func TestEveryReferenceResolved(t *testing.T) {
	for _, version := range []resolve.Version{resolve.Python27, resolve.Python38} {
		res, diags := resolveSrc(t, version, everything)
		assert.Empty(t, diags, "version %s", version)
		require.NotEmpty(t, res.References())
		for _, ref := range res.References() {
			assert.NotNil(t, ref.Target(), "%s (version %s)", ref, version)
			if ref.Scope.Kind != resolve.Class {
				assert.NotNil(t, ref.Variable, "%s (version %s)", ref, version)
			}
		}
	}

	res, _ := resolveSrc(t, resolve.Python38, everything)
	class := scopeNamed(t, res, "C")
	for _, ref := range refsTo(res, class, "x") {
		assert.Nil(t, ref.Variable)
		assert.Same(t, class.LookupLocal("x"), ref.Target())
	}

	// import os.path binds os.
	os := res.Module.LookupLocal("os")
	require.NotNil(t, os)
	assert.False(t, os.Implicit)
	assert.Nil(t, res.Module.LookupLocal("os.path"))

	f, g := scopeNamed(t, res, "f"), scopeNamed(t, res, "g")
	c := f.LookupLocal("c")
	require.NotNil(t, c)
	assert.Equal(t, resolve.Local, c.Kind)
	assert.Equal(t, resolve.Parameter, f.LookupLocal("args").Kind)
	assert.Equal(t, resolve.Parameter, f.LookupLocal("kw").Kind)
	assert.Equal(t, []string{"c", "args"}, varNames(g.FreeVariables))
	assert.Equal(t, []string{"c", "args"}, varNames(f.CellVariables))
	assert.True(t, f.ContainsNestedFreeVariables)

	for _, ref := range refsTo(res, g, "len") {
		assert.Same(t, res.Module, ref.Variable.Scope)
		assert.True(t, ref.Variable.Implicit)
		assert.Equal(t, resolve.Global, ref.Variable.Kind)
	}
	assert.Contains(t, g.ReferencedGlobals, "len")
}

func TestFreeVariableChain(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: a
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: v}]
    value: {_type: Constant, value: 1}
  - _type: FunctionDef
    name: b
    args: {_type: arguments}
    body:
    - _type: FunctionDef
      name: c
      args: {_type: arguments}
      body:
      - _type: Return
        value: {_type: Name, id: v}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	a, b, c := scopeNamed(t, res, "a"), scopeNamed(t, res, "b"), scopeNamed(t, res, "c")
	v := a.LookupLocal("v")
	require.NotNil(t, v)
	assert.True(t, v.AccessedInNestedScope)

	assert.True(t, c.IsFree(v))
	assert.True(t, b.IsFree(v), "pass-through scope must carry the free variable")
	assert.False(t, a.IsFree(v))

	// Exactly one scope declares the cell.
	var cells []string
	for _, s := range res.Scopes {
		if s.IsCell(v) {
			cells = append(cells, s.Name)
		}
	}
	assert.Equal(t, []string{"a"}, cells)
	assert.Equal(t, []*resolve.Variable{v}, a.ClosureVariables)
	assert.Equal(t, []*resolve.Variable{v}, b.ClosureVariables)

	for _, ref := range refsTo(res, c, "v") {
		assert.Same(t, v, ref.Variable)
	}
	assert.Nil(t, b.LookupLocal("v"))
}

func TestGlobalOrderIndependence(t *testing.T) {
	for _, test := range []struct {
		name, body string
		warnings   int
	}{
		{"declaration first", `
  - {_type: Global, names: [x]}
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Constant, value: 1}`, 0},
		{"assignment first", `
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Constant, value: 1}
  - {_type: Global, names: [x]}`, 1},
		{"use first", `
  - _type: Expr
    value: {_type: Name, id: x}
  - {_type: Global, names: [x]}
  - _type: AugAssign
    target: {_type: Name, id: x}
    op: {_type: Add}
    value: {_type: Constant, value: 1}`, 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			src := `
- _type: Assign
  targets: [{_type: Name, id: x}]
  value: {_type: Constant, value: 0}
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:` + test.body + "\n"
			res, diags := resolveSrc(t, resolve.Python38, src)
			assert.Empty(t, diags.Errors())
			assert.Len(t, diags, test.warnings)

			f := scopeNamed(t, res, "f")
			x := res.Module.LookupLocal("x")
			require.NotNil(t, x)
			assert.Equal(t, resolve.Global, x.Kind)
			assert.Same(t, x, f.LookupLocal("x"), "function table must alias the module variable")

			refs := refsTo(res, f, "x")
			require.NotEmpty(t, refs)
			for _, ref := range refs {
				assert.Same(t, x, ref.Variable)
			}
			// The alias is not a variable of f.
			for _, v := range res.Variables {
				assert.False(t, v.Name == "x" && v.Scope == f, "f owns a variable x")
			}
		})
	}
}

func TestGlobalCreatesModuleVariable(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:
  - {_type: Global, names: [g]}
  - _type: Assign
    targets: [{_type: Name, id: g}]
    value: {_type: Constant, value: 1}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	g := res.Module.LookupLocal("g")
	require.NotNil(t, g)
	assert.Equal(t, resolve.Global, g.Kind)
	assert.Same(t, res.Module, g.Scope)
	assert.True(t, g.IsGlobal())
	assert.Same(t, g, scopeNamed(t, res, "f").LookupLocal("g"))
	assert.Equal(t, []string{"f", "g"}, varNames(res.Module.Variables))
}

func TestNonlocalWithoutBinding(t *testing.T) {
	const src = `
- _type: Assign
  targets: [{_type: Name, id: y}]
  value: {_type: Constant, value: 0}
- _type: FunctionDef
  name: outer
  args: {_type: arguments}
  body:
  - _type: FunctionDef
    name: f
    args: {_type: arguments}
    body:
    - {_type: Nonlocal, names: [y]}
    - _type: Assign
      targets: [{_type: Name, id: y}]
      value: {_type: Constant, value: 1}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	require.Len(t, diags, 1)
	assert.Equal(t, resolve.Error, diags[0].Severity)
	assert.Equal(t, "no binding for nonlocal 'y' found", diags[0].Msg)
	assert.Equal(t, int32(13), diags[0].Pos.Line)

	// The module's y is never used as the binding.
	f := scopeNamed(t, res, "f")
	module := res.Module.LookupLocal("y")
	for _, ref := range refsTo(res, f, "y") {
		require.NotNil(t, ref.Variable)
		assert.NotSame(t, module, ref.Variable)
		assert.Equal(t, resolve.Nonlocal, ref.Variable.Kind)
		assert.Same(t, f, ref.Variable.Scope)
	}
	assert.Empty(t, f.FreeVariables)
}

func TestNonlocalRoundTrip(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: outer
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: v}]
    value: {_type: Constant, value: 1}
  - _type: FunctionDef
    name: inner
    args: {_type: arguments}
    body:
    - {_type: Nonlocal, names: [v]}
    - _type: Assign
      targets: [{_type: Name, id: v}]
      value: {_type: Constant, value: 2}
  - _type: Return
    value: {_type: Name, id: v}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	outer, inner := scopeNamed(t, res, "outer"), scopeNamed(t, res, "inner")
	v := outer.LookupLocal("v")
	require.NotNil(t, v)
	assert.Equal(t, resolve.Local, v.Kind)

	for _, s := range []*resolve.Scope{outer, inner} {
		refs := refsTo(res, s, "v")
		require.NotEmpty(t, refs)
		for _, ref := range refs {
			assert.Same(t, v, ref.Variable, "%s", ref)
		}
	}
	assert.Equal(t, []*resolve.Variable{v}, inner.FreeVariables)
	assert.Equal(t, []*resolve.Variable{v}, outer.CellVariables)
	require.Len(t, inner.NonlocalNames, 1)
	assert.Equal(t, "v", inner.NonlocalNames[0].Name)
}

func TestMethodDoesNotSeeClassAttribute(t *testing.T) {
	const src = `
- _type: ClassDef
  name: C
  bases: []
  body:
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Constant, value: 1}
  - _type: FunctionDef
    name: f
    args: {_type: arguments, args: [{_type: arg, arg: self}]}
    body:
    - _type: Return
      value: {_type: Name, id: x}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	class, f := scopeNamed(t, res, "C"), scopeNamed(t, res, "f")
	attr := class.LookupLocal("x")
	require.NotNil(t, attr)

	refs := refsTo(res, f, "x")
	require.Len(t, refs, 1)
	got := refs[0].Variable
	require.NotNil(t, got)
	assert.NotSame(t, attr, got)
	assert.Same(t, res.Module, got.Scope)
	assert.True(t, got.Implicit)
	assert.Empty(t, f.FreeVariables)
	assert.Empty(t, class.CellVariables)
}

func TestComprehensionScope(t *testing.T) {
	const src = `
- _type: Expr
  value:
    _type: ListComp
    elt: {_type: Name, id: x}
    generators:
    - {target: {_type: Name, id: x}, iter: {_type: Name, id: xs}, ifs: []}
`
	res, _ := resolveSrc(t, resolve.Python38, src)
	require.Len(t, res.Scopes, 2)
	comp := res.Scopes[1]
	assert.Equal(t, resolve.Comprehension, comp.Kind)
	assert.Equal(t, "<listcomp>", comp.Name)
	assert.Same(t, res.Module, comp.Parent)
	assert.Equal(t, resolve.Local, comp.LookupLocal("x").Kind)
	assert.Nil(t, res.Module.LookupLocal("x"))
	// The first iterable is evaluated in the enclosing scope.
	assert.Nil(t, comp.LookupLocal("xs"))
	assert.NotNil(t, res.Module.LookupLocal("xs"))

	// In Python 2, the list comprehension variable leaks.
	res, _ = resolveSrc(t, resolve.Python27, src)
	require.Len(t, res.Scopes, 1)
	assert.Equal(t, resolve.Local, res.Module.LookupLocal("x").Kind)
}

func TestGeneratorScopePython2(t *testing.T) {
	const src = `
- _type: Expr
  value:
    _type: GeneratorExp
    elt: {_type: Name, id: x}
    generators:
    - {target: {_type: Name, id: x}, iter: {_type: Name, id: xs}, ifs: []}
`
	res, _ := resolveSrc(t, resolve.Python27, src)
	require.Len(t, res.Scopes, 2)
	assert.Equal(t, "<genexpr>", res.Scopes[1].Name)
	assert.Nil(t, res.Module.LookupLocal("x"))
}

func TestNamedExprInComprehension(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments, args: [{_type: arg, arg: xs}]}
  body:
  - _type: Expr
    value:
      _type: ListComp
      elt:
        _type: NamedExpr
        target: {_type: Name, id: y}
        value: {_type: Name, id: i}
      generators:
      - {target: {_type: Name, id: i}, iter: {_type: Name, id: xs}, ifs: []}
  - _type: Return
    value: {_type: Name, id: y}
- _type: Expr
  value:
    _type: ListComp
    elt:
      _type: NamedExpr
      target: {_type: Name, id: z}
      value: {_type: Name, id: j}
    generators:
    - {target: {_type: Name, id: j}, iter: {_type: Name, id: js}, ifs: []}
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	f := scopeNamed(t, res, "f")
	y := f.LookupLocal("y")
	require.NotNil(t, y)
	assert.Equal(t, resolve.Local, y.Kind)

	comp := f.Children[0]
	assert.True(t, comp.IsFree(y))
	assert.True(t, f.IsCell(y))
	for _, ref := range refsTo(res, comp, "y") {
		assert.Same(t, y, ref.Variable)
	}

	// At module level the target is a global.
	z := res.Module.LookupLocal("z")
	require.NotNil(t, z)
	assert.Equal(t, resolve.Global, z.Kind)
	modComp := res.Module.Children[1]
	assert.Equal(t, resolve.Comprehension, modComp.Kind)
	assert.Same(t, z, modComp.LookupLocal("z"))
	for _, ref := range refsTo(res, modComp, "z") {
		assert.Same(t, z, ref.Variable)
	}
}

func TestSuperUsesClassCell(t *testing.T) {
	const src = `
- _type: ClassDef
  name: C
  bases: []
  body:
  - _type: FunctionDef
    name: f
    args: {_type: arguments, args: [{_type: arg, arg: self}]}
    body:
    - _type: Return
      value:
        _type: Call
        func:
          _type: Attribute
          value: {_type: Call, func: {_type: Name, id: super}, args: []}
          attr: f
        args: []
`
	res, diags := resolveSrc(t, resolve.Python38, src)
	assert.Empty(t, diags)

	class, f := scopeNamed(t, res, "C"), scopeNamed(t, res, "f")
	assert.Equal(t, []string{"__class__"}, varNames(f.FreeVariables))
	assert.Equal(t, []string{"__class__"}, varNames(class.CellVariables))
	cell := class.CellVariables[0]
	assert.True(t, cell.Implicit)
	assert.Same(t, class, cell.Scope)
	assert.Nil(t, res.Module.LookupLocal("__class__"))

	// Python 2 has no implicit class cell.
	res, _ = resolveSrc(t, resolve.Python27, src)
	assert.Empty(t, scopeNamed(t, res, "f").FreeVariables)
}

func TestLateBoundNames(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:
  - _type: ImportFrom
    module: os
    names: [{_type: alias, name: "*"}]
    level: 0
  - _type: FunctionDef
    name: g
    args: {_type: arguments}
    body:
    - _type: Return
      value: {_type: Name, id: sep}
  - _type: Return
    value: {_type: Name, id: path}
`
	res, diags := resolveSrc(t, resolve.Python27, src)
	assert.Empty(t, diags)

	f, g := scopeNamed(t, res, "f"), scopeNamed(t, res, "g")
	assert.True(t, f.ContainsImportStar)
	assert.True(t, f.HasLateBoundVariableSets)
	assert.True(t, f.NeedsLocalsDictionary)
	for _, ref := range append(refsTo(res, f, "path"), refsTo(res, g, "sep")...) {
		assert.Nil(t, ref.Variable, "%s", ref)
		assert.Nil(t, ref.Target())
	}
	assert.Nil(t, res.Module.LookupLocal("sep"))

	// The names are still looked up in the global namespace.
	assert.Contains(t, f.ReferencedGlobals, "path")
	assert.Contains(t, g.ReferencedGlobals, "sep")
}

func TestNeedsLocalsDictionary(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: x}]
    value: {_type: Constant, value: 1}
  - _type: Return
    value: {_type: Call, func: {_type: Name, id: locals}, args: []}
- _type: FunctionDef
  name: g
  args: {_type: arguments, args: [{_type: arg, arg: a}]}
  body:
  - _type: Return
    value: {_type: Call, func: {_type: Name, id: vars}, args: [{_type: Name, id: a}]}
- _type: FunctionDef
  name: h
  args: {_type: arguments, args: [{_type: arg, arg: a}]}
  body:
  - _type: Return
    value: {_type: Call, func: {_type: Name, id: dir}, args: [{_type: Starred, value: {_type: Name, id: a}}]}
`
	res, _ := resolveSrc(t, resolve.Python38, src)
	f := scopeNamed(t, res, "f")
	assert.True(t, f.NeedsLocalsDictionary)
	assert.Equal(t, []string{"x"}, varNames(f.ClosureVariables))

	g := scopeNamed(t, res, "g")
	assert.False(t, g.NeedsLocalsDictionary)
	assert.Empty(t, g.ClosureVariables)

	assert.True(t, scopeNamed(t, res, "h").NeedsLocalsDictionary)
}

// Missing names, as left by error recovery, are skipped.
func TestMissingNames(t *testing.T) {
	def := func(body ...syntax.Stmt) *syntax.File {
		return &syntax.File{Path: "m.py", Stmts: []syntax.Stmt{&syntax.DefStmt{
			Def:  syntax.MakePosition(1, 1),
			Name: &syntax.Ident{NamePos: syntax.MakePosition(1, 5), Name: "f"},
			Body: body,
		}}}
	}
	var nilIdent *syntax.Ident
	for name, file := range map[string]*syntax.File{
		"global nil":     def(&syntax.GlobalStmt{Names: []*syntax.Ident{nil}}),
		"nonlocal nil":   def(&syntax.NonlocalStmt{Names: []*syntax.Ident{nil}}),
		"expr nil":       def(&syntax.ExprStmt{X: nilIdent}),
		"global empty":   def(&syntax.GlobalStmt{Names: []*syntax.Ident{{}}}),
		"nonlocal empty": def(&syntax.NonlocalStmt{Names: []*syntax.Ident{{}}}),
		"expr empty":     def(&syntax.ExprStmt{X: &syntax.Ident{}}),
		"module expr":    {Path: "m.py", Stmts: []syntax.Stmt{&syntax.ExprStmt{X: nilIdent}}},
	} {
		var diags resolve.ErrorList
		var res *resolve.Resolution
		require.NotPanics(t, func() {
			res = resolve.File(file, resolve.Python38, &diags, 0)
		}, name)
		assert.Empty(t, diags, name)
		for _, s := range res.Scopes {
			for _, v := range s.Variables {
				assert.NotEmpty(t, v.Name, "%s: %s", name, v)
			}
		}
		for _, ref := range res.References() {
			assert.NotEmpty(t, ref.Name, name)
		}
	}
}

func TestExceptTarget(t *testing.T) {
	const src = `
- _type: Try
  body: [{_type: Pass}]
  handlers:
  - _type: ExceptHandler
    type: {_type: Name, id: ValueError}
    name: e
    body: [{_type: Pass}]
  orelse: []
  finalbody: []
`
	for _, test := range []struct {
		version resolve.Version
		deleted bool
	}{
		{resolve.Python27, false},
		{resolve.Python38, true},
	} {
		res, _ := resolveSrc(t, test.version, src)
		e := res.Module.LookupLocal("e")
		require.NotNil(t, e, "version %s", test.version)
		assert.Equal(t, test.deleted, e.Deleted, "version %s", test.version)
		assert.True(t, res.Module.ContainsExceptionHandling)
	}
}

func TestSkipReferences(t *testing.T) {
	f, err := syntax.Decode("test.yaml", []byte(everything))
	require.NoError(t, err)

	full := resolve.File(f, resolve.Python38, nil, 0)
	skip := resolve.File(f, resolve.Python38, nil, resolve.SkipReferences)
	assert.Empty(t, skip.References())
	assert.Empty(t, cmp.Diff(scopeSummary(full), scopeSummary(skip)))

	var id *syntax.Ident
	syntax.Walk(f, func(n syntax.Node) bool {
		if x, ok := n.(*syntax.Ident); ok && id == nil {
			id = x
		}
		return true
	})
	require.NotNil(t, id)
	assert.NotNil(t, full.Reference(id))
	assert.Nil(t, skip.Reference(id))
}

func TestReduce(t *testing.T) {
	f, err := syntax.Decode("test.yaml", []byte(everything))
	require.NoError(t, err)
	res := resolve.File(f, resolve.Python38, nil, 0)
	before := dump(res)

	g := scopeNamed(t, res, "g")
	assert.True(t, g.HasBeenReferenced("c"))
	res.Reduce()
	assert.True(t, g.HasBeenReferenced("c"))
	assert.False(t, g.HasBeenReferenced("nosuchname"))
	assert.Empty(t, cmp.Diff(before, dump(res)))
}

// Resolving the same tree twice yields the same result.
func TestIdempotent(t *testing.T) {
	f, err := syntax.Decode("test.yaml", []byte(everything))
	require.NoError(t, err)
	first := dump(resolve.File(f, resolve.Python38, nil, 0))
	second := dump(resolve.File(f, resolve.Python38, nil, 0))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second resolution differs (-first +second):\n%s", diff)
	}
}

func TestScopeOfNode(t *testing.T) {
	f, err := syntax.Decode("test.yaml", []byte(everything))
	require.NoError(t, err)
	res := resolve.File(f, resolve.Python38, nil, 0)

	assert.Same(t, res.Module, res.Scope(f))
	def := f.Stmts[2].(*syntax.DefStmt)
	assert.Same(t, scopeNamed(t, res, "f"), res.Scope(def))
	assert.Same(t, def, res.Scope(def).Node)
	assert.Nil(t, res.Scope(def.Body[0]))

	// Pre-order, module first.
	var names []string
	for _, s := range res.Scopes {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"<module>", "f", "g", "C", "m", "<listcomp>", "<lambda>"}, names)
}

func TestCheck(t *testing.T) {
	const src = `
- _type: FunctionDef
  name: f
  args: {_type: arguments}
  body:
  - _type: Expr
    value: {_type: Name, id: x}
  - {_type: Global, names: [x]}
  - {_type: Nonlocal, names: [y]}
- {_type: Nonlocal, names: [z]}
`
	f, err := syntax.Decode("test.yaml", []byte(src))
	require.NoError(t, err)
	res, err := resolve.Check(f, resolve.Python38)
	require.NotNil(t, res)
	require.Error(t, err)

	var errs resolve.ErrorList
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "no binding for nonlocal 'y' found", errs[0].Msg)
	assert.Equal(t, "nonlocal declaration not allowed at module level", errs[1].Msg)
	assert.True(t, errs[0].Pos.Before(errs[1].Pos))
	assert.Equal(t, "9:31: no binding for nonlocal 'y' found", err.Error())
}

func TestParseVersion(t *testing.T) {
	for _, test := range []struct {
		in   string
		want resolve.Version
		err  bool
	}{
		{"2.7", resolve.Python27, false},
		{"3", resolve.Python30, false},
		{"3.8.10", resolve.Python38, false},
		{" 3.2 ", resolve.Python32, false},
		{"4.0", resolve.Version{}, true},
		{"1.5", resolve.Version{}, true},
		{"three", resolve.Version{}, true},
		{"3.x", resolve.Version{}, true},
	} {
		got, err := resolve.ParseVersion(test.in)
		if test.err {
			assert.Error(t, err, "ParseVersion(%q)", test.in)
			continue
		}
		if assert.NoError(t, err, "ParseVersion(%q)", test.in) {
			assert.Equal(t, test.want, got)
		}
	}

	assert.True(t, resolve.Python38.AtLeast(3, 2))
	assert.False(t, resolve.Python27.AtLeast(3, 0))
	assert.True(t, resolve.Version{Major: 3, Minor: 10}.AtLeast(3, 8))
	assert.Equal(t, "3.8", resolve.Python38.String())
}

// scopeSummary describes the scope tree without references.
func scopeSummary(res *resolve.Resolution) []string {
	var out []string
	for _, s := range res.Scopes {
		out = append(out, fmt.Sprintf("%s %s vars=%v free=%v cell=%v closure=%v globals=%v flags=%t%t%t",
			s.Kind, s.Name,
			varNames(s.Variables), varNames(s.FreeVariables), varNames(s.CellVariables),
			varNames(s.ClosureVariables), s.ReferencedGlobals,
			s.ContainsNestedFreeVariables, s.NeedsLocalsDictionary, s.HasLateBoundVariableSets))
		for _, v := range s.Variables {
			out = append(out, fmt.Sprintf("  %s deleted=%t nested=%t implicit=%t", v, v.Deleted, v.AccessedInNestedScope, v.Implicit))
		}
	}
	return out
}

// dump describes the complete resolution.
func dump(res *resolve.Resolution) []string {
	out := scopeSummary(res)
	for _, ref := range res.References() {
		out = append(out, fmt.Sprintf("%s target=%v", ref, ref.Target()))
	}
	return out
}

func ExampleFile() {
	const src = `
- _type: FunctionDef
  name: outer
  args: {_type: arguments}
  body:
  - _type: Assign
    targets: [{_type: Name, id: v}]
    value: {_type: Constant, value: 1}
  - _type: FunctionDef
    name: inner
    args: {_type: arguments}
    body:
    - {_type: Nonlocal, names: [v]}
    - _type: AugAssign
      target: {_type: Name, id: v}
      op: {_type: Add}
      value: {_type: Constant, value: 1}
`
	f, err := syntax.Decode("example.yaml", []byte(src))
	if err != nil {
		panic(err)
	}
	res := resolve.File(f, resolve.Python38, nil, 0)
	for _, s := range res.Scopes {
		fmt.Printf("%s %s: free=%s cell=%s\n", s.Kind, s.Name, varNames(s.FreeVariables), varNames(s.CellVariables))
	}
	for _, ref := range res.References() {
		fmt.Println(ref)
	}

	// Output:
	// module <module>: free=[] cell=[]
	// function outer: free=[] cell=[v]
	// function inner: free=[v] cell=[]
	// 3:9: outer -> local outer in module
	// 7:15: v -> local v in function outer at 2:3
	// 10:11: inner -> local inner in function outer at 2:3
	// 13:33: v -> local v in function outer at 2:3
	// 15:15: v -> local v in function outer at 2:3
}
