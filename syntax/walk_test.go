// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/pyscope/pyscope/syntax"
)

// for x in y:
//   if x:
//     pass
//   else:
//     f([2*x for x in "abc"])
const walkSrc = `
_type: Module
body:
- _type: For
  target: {_type: Name, id: x}
  iter: {_type: Name, id: y}
  body:
  - _type: If
    test: {_type: Name, id: x}
    body:
    - {_type: Pass}
    orelse:
    - _type: Expr
      value:
        _type: Call
        func: {_type: Name, id: f}
        args:
        - _type: ListComp
          elt:
            _type: BinOp
            left: {_type: Constant, value: 2}
            op: {_type: Mult}
            right: {_type: Name, id: x}
          generators:
          - target: {_type: Name, id: x}
            iter: {_type: Constant, value: "abc"}
            ifs: []
`

func TestWalk(t *testing.T) {
	f, err := syntax.Decode("hello.json", []byte(walkSrc))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  ForStmt
    Ident
    Ident
    IfStmt
      Ident
      BranchStmt
      ExprStmt
        CallExpr
          Ident
          Arg
            Comprehension
              BinaryExpr
                Literal
                Ident
              ForClause
                Ident
                Literal`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	f, err := syntax.Decode("hello.json", []byte(walkSrc))
	if err != nil {
		t.Fatal(err)
	}
	// Returning false for the comprehension hides its children.
	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Comprehension:
			return false
		case *syntax.Ident:
			idents = append(idents, n.Name)
		}
		return true
	})
	if got, want := strings.Join(idents, " "), "x y x f"; got != want {
		t.Errorf("got idents %q, want %q", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in a Python module
// containing a nonsense program with varied grammar.
func ExampleWalk() {
	// from library import a
	//
	// def b(c, *, d=e):
	//     f += {g: h}
	//     i = -(j)
	//     return k.l[m + n]
	//
	// for o in [p for q, r in s if t]:
	//     u(lambda: v, w[x:y:z])
	const src = `
_type: Module
body:
- _type: ImportFrom
  module: library
  names: [{_type: alias, name: a}]
  level: 0
- _type: FunctionDef
  name: b
  args:
    _type: arguments
    args: [{_type: arg, arg: c}]
    kwonlyargs: [{_type: arg, arg: d}]
    kw_defaults: [{_type: Name, id: e}]
    defaults: []
  decorator_list: []
  body:
  - _type: AugAssign
    target: {_type: Name, id: f}
    op: {_type: Add}
    value: {_type: Dict, keys: [{_type: Name, id: g}], values: [{_type: Name, id: h}]}
  - _type: Assign
    targets: [{_type: Name, id: i}]
    value: {_type: UnaryOp, op: {_type: USub}, operand: {_type: Name, id: j}}
  - _type: Return
    value:
      _type: Subscript
      value: {_type: Attribute, value: {_type: Name, id: k}, attr: l}
      slice: {_type: BinOp, left: {_type: Name, id: m}, op: {_type: Add}, right: {_type: Name, id: n}}
- _type: For
  target: {_type: Name, id: o}
  iter:
    _type: ListComp
    elt: {_type: Name, id: p}
    generators:
    - target: {_type: Tuple, elts: [{_type: Name, id: q}, {_type: Name, id: r}]}
      iter: {_type: Name, id: s}
      ifs: [{_type: Name, id: t}]
  body:
  - _type: Expr
    value:
      _type: Call
      func: {_type: Name, id: u}
      args:
      - _type: Lambda
        args: {_type: arguments, args: []}
        body: {_type: Name, id: v}
      - _type: Subscript
        value: {_type: Name, id: w}
        slice: {_type: Slice, lower: {_type: Name, id: x}, upper: {_type: Name, id: y}, step: {_type: Name, id: z}}
`
	f, err := syntax.Decode("hello.json", []byte(src))
	if err != nil {
		log.Fatal(err)
	}

	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// a b c d e f g h i j k m n o p q r s t u v w x y z
}
