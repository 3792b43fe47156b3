// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file decodes the tree dumps produced by Python's ast module,
// in the conventional "_type"-tagged form:
//
//	{"_type": "Name", "id": "x", "ctx": {"_type": "Load"}, "lineno": 1, "col_offset": 0}
//
// Both Python 2.7 and Python 3 node shapes are accepted. Because JSON
// is a subset of YAML, the same decoder reads hand-written YAML
// fixtures; nodes without a lineno take their position from the YAML
// document itself.

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnknownNode is wrapped by a DecodeError for a node whose _type
// the decoder does not recognize.
var ErrUnknownNode = errors.New("unknown node type")

// A DecodeError reports a malformed node in an AST dump.
type DecodeError struct {
	Path string
	Line int // line of the offending node within the dump
	Msg  string
	Err  error // optional underlying error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode decodes the AST dump data of the module at path.
// The dump's root may be a Module (or Interactive/Expression) node,
// or a bare list of statements.
func Decode(path string, data []byte) (f *File, err error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d := &decoder{path: path}
	defer d.recover(&err)

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &File{Path: path}, nil
		}
		root = root.Content[0]
	}
	return d.file(root), nil
}

type decoder struct {
	path string
}

// recover converts a panic carrying a *DecodeError into an error result.
func (d *decoder) recover(err *error) {
	if e := recover(); e != nil {
		derr, ok := e.(*DecodeError)
		if !ok {
			panic(e)
		}
		*err = derr
	}
}

func (d *decoder) failf(n *yaml.Node, format string, args ...interface{}) {
	panic(&DecodeError{Path: d.path, Line: n.Line, Msg: fmt.Sprintf(format, args...)})
}

func (d *decoder) file(n *yaml.Node) *File {
	f := &File{Path: d.path}
	if n.Kind == yaml.SequenceNode {
		f.Stmts = d.stmtList(n)
		return f
	}
	switch t := d.typ(n); t {
	case "Module", "Interactive":
		f.Stmts = d.stmts(n, "body")
	case "Expression":
		if body := d.field(n, "body"); body != nil {
			f.Stmts = []Stmt{&ExprStmt{X: d.expr(body)}}
		}
	default:
		d.failf(n, "got %s, want Module", t)
	}
	return f
}

// -- field access --

// typ returns the _type tag of a mapping node.
func (d *decoder) typ(n *yaml.Node) string {
	if n.Kind != yaml.MappingNode {
		d.failf(n, "expected a node mapping, got %s", kindName(n.Kind))
	}
	t := d.field(n, "_type")
	if t == nil || t.Kind != yaml.ScalarNode {
		d.failf(n, "node has no _type")
	}
	return t.Value
}

// field returns the value of key in mapping n, or nil if it is
// absent or null.
func (d *decoder) field(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v := n.Content[i+1]
			if v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
				return nil
			}
			return v
		}
	}
	return nil
}

func (d *decoder) str(n *yaml.Node, key string) string {
	if v := d.field(n, key); v != nil {
		if v.Kind != yaml.ScalarNode {
			d.failf(v, "field %s: expected a string", key)
		}
		return v.Value
	}
	return ""
}

func (d *decoder) int(n *yaml.Node, key string) int {
	v := d.field(n, key)
	if v == nil {
		return 0
	}
	i, err := strconv.Atoi(v.Value)
	if err != nil {
		panic(&DecodeError{Path: d.path, Line: v.Line, Msg: fmt.Sprintf("field %s: %v", key, err), Err: err})
	}
	return i
}

func (d *decoder) bool(n *yaml.Node, key string) bool {
	v := d.field(n, key)
	if v == nil {
		return false
	}
	b, err := strconv.ParseBool(v.Value)
	if err != nil {
		// ast dumps encode is_async as 0/1.
		return v.Value != "0"
	}
	return b
}

// list returns the elements of the sequence at key; a missing or
// null field is an empty list.
func (d *decoder) list(n *yaml.Node, key string) []*yaml.Node {
	v := d.field(n, key)
	if v == nil {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.failf(v, "field %s: expected a list", key)
	}
	return v.Content
}

// pos returns the position of node n: its lineno/col_offset if present
// (col_offset is 0-based), otherwise its location in the dump.
func (d *decoder) pos(n *yaml.Node) Position {
	if d.field(n, "lineno") != nil {
		return MakePosition(int32(d.int(n, "lineno")), int32(d.int(n, "col_offset")+1))
	}
	return MakePosition(int32(n.Line), int32(n.Column))
}

// endPos returns the end_lineno/end_col_offset position of n, if any.
func (d *decoder) endPos(n *yaml.Node) Position {
	if d.field(n, "end_lineno") != nil {
		return MakePosition(int32(d.int(n, "end_lineno")), int32(d.int(n, "end_col_offset")+1))
	}
	return Position{}
}

// closePos returns the position of the closing bracket of n, which
// ends just before end_col_offset.
func (d *decoder) closePos(n *yaml.Node) Position {
	end := d.endPos(n)
	if end.IsValid() {
		end.Col--
	}
	return end
}

// nameAt returns an identifier for a string-valued field such as a
// def name or a global declaration. Python records no position for
// these, so the owner's position is used when it has one.
func (d *decoder) nameAt(owner, scalar *yaml.Node) *Ident {
	if scalar == nil {
		return nil
	}
	if scalar.Kind != yaml.ScalarNode {
		d.failf(scalar, "expected a name")
	}
	pos := MakePosition(int32(scalar.Line), int32(scalar.Column))
	if d.field(owner, "lineno") != nil {
		pos = d.pos(owner)
	}
	return &Ident{NamePos: pos, Name: scalar.Value}
}

// -- statements --

func (d *decoder) stmts(n *yaml.Node, key string) []Stmt {
	v := d.field(n, key)
	if v == nil {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.failf(v, "field %s: expected a statement list", key)
	}
	return d.stmtList(v)
}

func (d *decoder) stmtList(v *yaml.Node) []Stmt {
	stmts := make([]Stmt, 0, len(v.Content))
	for _, s := range v.Content {
		stmts = append(stmts, d.stmt(s))
	}
	return stmts
}

func (d *decoder) stmt(n *yaml.Node) Stmt {
	pos := d.pos(n)
	switch t := d.typ(n); t {
	case "Expr":
		return &ExprStmt{X: d.expr(d.field(n, "value"))}

	case "Assign":
		return &AssignStmt{
			Targets: d.exprs(n, "targets"),
			Value:   d.expr(d.field(n, "value")),
		}

	case "AugAssign":
		target := d.expr(d.field(n, "target"))
		return &AugAssignStmt{
			Target: target,
			OpPos:  End(target),
			Op:     d.op(n, "op") + "=",
			Value:  d.expr(d.field(n, "value")),
		}

	case "AnnAssign":
		return &AnnAssignStmt{
			Target:     d.expr(d.field(n, "target")),
			Annotation: d.expr(d.field(n, "annotation")),
			Value:      d.optExpr(n, "value"),
		}

	case "Delete":
		return &DelStmt{Del: pos, Targets: d.exprs(n, "targets")}

	case "Pass", "Break", "Continue":
		return &BranchStmt{Token: lower(t), TokenPos: pos}

	case "Return":
		return &ReturnStmt{Return: pos, Result: d.optExpr(n, "value")}

	case "Raise":
		if d.field(n, "type") != nil || d.field(n, "inst") != nil || d.field(n, "tback") != nil {
			return &RaiseStmt{
				Raise:     pos,
				Exc:       d.optExpr(n, "type"),
				Cause:     d.optExpr(n, "inst"),
				Traceback: d.optExpr(n, "tback"),
			}
		}
		return &RaiseStmt{Raise: pos, Exc: d.optExpr(n, "exc"), Cause: d.optExpr(n, "cause")}

	case "Assert":
		return &AssertStmt{Assert: pos, Test: d.expr(d.field(n, "test")), Msg: d.optExpr(n, "msg")}

	case "If":
		return &IfStmt{
			If:    pos,
			Cond:  d.expr(d.field(n, "test")),
			True:  d.stmts(n, "body"),
			False: d.stmts(n, "orelse"),
		}

	case "While":
		return &WhileStmt{
			While: pos,
			Cond:  d.expr(d.field(n, "test")),
			Body:  d.stmts(n, "body"),
			Else:  d.stmts(n, "orelse"),
		}

	case "For", "AsyncFor":
		return &ForStmt{
			For:    pos,
			Async:  t == "AsyncFor",
			Target: d.expr(d.field(n, "target")),
			Iter:   d.expr(d.field(n, "iter")),
			Body:   d.stmts(n, "body"),
			Else:   d.stmts(n, "orelse"),
		}

	case "With", "AsyncWith":
		w := &WithStmt{With: pos, Async: t == "AsyncWith", Body: d.stmts(n, "body")}
		if ctx := d.field(n, "context_expr"); ctx != nil {
			// Python 2: one item per statement.
			w.Items = []*WithItem{{Context: d.expr(ctx), Target: d.optExpr(n, "optional_vars")}}
		}
		for _, item := range d.list(n, "items") {
			w.Items = append(w.Items, &WithItem{
				Context: d.expr(d.field(item, "context_expr")),
				Target:  d.optExpr(item, "optional_vars"),
			})
		}
		return w

	case "Try", "TryStar", "TryExcept", "TryFinally":
		try := &TryStmt{
			Try:     pos,
			Body:    d.stmts(n, "body"),
			Else:    d.stmts(n, "orelse"),
			Finally: d.stmts(n, "finalbody"),
		}
		for _, h := range d.list(n, "handlers") {
			try.Handlers = append(try.Handlers, d.handler(h))
		}
		return try

	case "Import":
		return &ImportStmt{Import: pos, Names: d.aliases(n)}

	case "ImportFrom":
		return &ImportFromStmt{
			From:   pos,
			Module: d.str(n, "module"),
			Level:  d.int(n, "level"),
			Names:  d.aliases(n),
		}

	case "Global":
		return &GlobalStmt{Global: pos, Names: d.names(n)}

	case "Nonlocal":
		return &NonlocalStmt{Nonlocal: pos, Names: d.names(n)}

	case "Exec":
		return &ExecStmt{
			Exec:    pos,
			Code:    d.expr(d.field(n, "body")),
			Globals: d.optExpr(n, "globals"),
			Locals:  d.optExpr(n, "locals"),
		}

	case "Print":
		return &PrintStmt{Print: pos, Dest: d.optExpr(n, "dest"), Values: d.exprs(n, "values")}

	case "FunctionDef", "AsyncFunctionDef":
		return &DefStmt{
			Def:        pos,
			Async:      t == "AsyncFunctionDef",
			Decorators: d.exprs(n, "decorator_list"),
			Name:       d.nameAt(n, d.field(n, "name")),
			Params:     d.params(n, d.field(n, "args")),
			Returns:    d.optExpr(n, "returns"),
			Body:       d.stmts(n, "body"),
		}

	case "ClassDef":
		class := &ClassStmt{
			Class:      pos,
			Decorators: d.exprs(n, "decorator_list"),
			Name:       d.nameAt(n, d.field(n, "name")),
			Body:       d.stmts(n, "body"),
		}
		for _, base := range d.list(n, "bases") {
			class.Bases = append(class.Bases, d.arg(base))
		}
		for _, kw := range d.list(n, "keywords") {
			class.Bases = append(class.Bases, d.keyword(kw))
		}
		return class
	}
	panic(&DecodeError{Path: d.path, Line: n.Line, Msg: fmt.Sprintf("statement %s: %v", d.typ(n), ErrUnknownNode), Err: ErrUnknownNode})
}

func (d *decoder) handler(n *yaml.Node) *ExceptHandler {
	h := &ExceptHandler{
		Except: d.pos(n),
		Type:   d.optExpr(n, "type"),
		Body:   d.stmts(n, "body"),
	}
	if name := d.field(n, "name"); name != nil {
		if name.Kind == yaml.ScalarNode {
			h.Name = d.nameAt(n, name)
		} else if id, ok := d.expr(name).(*Ident); ok {
			// Python 2: except E, name
			h.Name = id
		} else {
			d.failf(name, "except target must be a name")
		}
	}
	return h
}

func (d *decoder) aliases(n *yaml.Node) []*ImportName {
	var names []*ImportName
	for _, a := range d.list(n, "names") {
		if a.Kind == yaml.ScalarNode {
			names = append(names, &ImportName{Name: d.nameAt(n, a)})
			continue
		}
		owner := a
		if d.field(a, "lineno") == nil {
			owner = n
		}
		names = append(names, &ImportName{
			Name:   d.nameAt(owner, d.field(a, "name")),
			AsName: d.nameAt(owner, d.field(a, "asname")),
		})
	}
	return names
}

func (d *decoder) names(n *yaml.Node) []*Ident {
	var ids []*Ident
	for _, s := range d.list(n, "names") {
		ids = append(ids, d.nameAt(n, s))
	}
	return ids
}

// params decodes an arguments node into parameters in source order:
// positional-only, normal, *args (or bare *), keyword-only, **kwargs.
func (d *decoder) params(owner, args *yaml.Node) []*Param {
	if args == nil {
		return nil
	}
	var params []*Param
	posonly := d.list(args, "posonlyargs")
	numPosOnly := len(posonly)
	positional := append(posonly[:numPosOnly:numPosOnly], d.list(args, "args")...)
	defaults := d.list(args, "defaults")
	firstDefault := len(positional) - len(defaults)
	for i, a := range positional {
		p := d.param(owner, a)
		if i < numPosOnly {
			p.Kind = PositionalOnlyParam
		}
		if i >= firstDefault && firstDefault >= 0 {
			p.Default = d.expr(defaults[i-firstDefault])
		}
		params = append(params, p)
	}

	kwonly := d.list(args, "kwonlyargs")
	if va := d.field(args, "vararg"); va != nil {
		p := d.param(owner, va)
		p.Kind = VarArgsParam
		params = append(params, p)
	} else if len(kwonly) > 0 {
		params = append(params, &Param{Kind: VarArgsParam})
	}

	kwDefaults := d.list(args, "kw_defaults")
	for i, a := range kwonly {
		p := d.param(owner, a)
		p.Kind = KeywordOnlyParam
		if i < len(kwDefaults) && !isNull(kwDefaults[i]) {
			p.Default = d.expr(kwDefaults[i])
		}
		params = append(params, p)
	}

	if kw := d.field(args, "kwarg"); kw != nil {
		p := d.param(owner, kw)
		p.Kind = VarKwargsParam
		params = append(params, p)
	}
	return params
}

// param decodes one parameter: a Python 3 arg node, a Python 2 Name or
// Tuple expression, or a bare string (Python 2 vararg/kwarg).
func (d *decoder) param(owner, a *yaml.Node) *Param {
	if a.Kind == yaml.ScalarNode {
		return &Param{Name: d.nameAt(owner, a)}
	}
	switch t := d.typ(a); t {
	case "arg":
		holder := a
		if d.field(a, "lineno") == nil {
			holder = owner
		}
		return &Param{
			Name:       d.nameAt(holder, d.field(a, "arg")),
			Annotation: d.optExpr(a, "annotation"),
		}
	case "Name":
		return &Param{Name: d.expr(a).(*Ident)}
	case "Tuple", "List":
		return &Param{Sublist: d.expr(a)}
	default:
		d.failf(a, "unexpected parameter node %s", t)
		return nil
	}
}

// -- expressions --

func (d *decoder) exprs(n *yaml.Node, key string) []Expr {
	var exprs []Expr
	for _, e := range d.list(n, key) {
		exprs = append(exprs, d.expr(e))
	}
	return exprs
}

func (d *decoder) optExpr(n *yaml.Node, key string) Expr {
	if v := d.field(n, key); v != nil {
		return d.expr(v)
	}
	return nil
}

func (d *decoder) expr(n *yaml.Node) Expr {
	if n == nil {
		panic(&DecodeError{Path: d.path, Msg: "missing expression"})
	}
	pos := d.pos(n)
	switch t := d.typ(n); t {
	case "Name":
		return &Ident{NamePos: pos, Name: d.str(n, "id")}

	case "Constant", "NameConstant":
		return d.constant(pos, d.field(n, "value"))

	case "Num":
		return &Literal{TokenPos: pos, Kind: numKind(d.field(n, "n")), Raw: d.str(n, "n")}

	case "Str", "Bytes":
		return &Literal{TokenPos: pos, Kind: lower(t), Raw: strconv.Quote(d.str(n, "s"))}

	case "Ellipsis":
		return &Literal{TokenPos: pos, Kind: "...", Raw: "..."}

	case "JoinedStr":
		return &FString{StartPos: pos, Values: d.fstringValues(n)}

	case "FormattedValue":
		return &FString{StartPos: pos, Values: d.formatted(n)}

	case "Attribute":
		x := d.expr(d.field(n, "value"))
		attr := d.str(n, "attr")
		end := d.endPos(n)
		namePos := End(x)
		if end.IsValid() {
			namePos = MakePosition(end.Line, end.Col-int32(len(attr)))
		}
		return &DotExpr{X: x, Dot: End(x), NamePos: namePos, Name: attr}

	case "Subscript":
		return &IndexExpr{
			X:      d.expr(d.field(n, "value")),
			Index:  d.slice(d.field(n, "slice")),
			Rbrack: d.closePos(n),
		}

	case "Slice", "Index", "ExtSlice":
		return d.slice(n)

	case "Call":
		call := &CallExpr{Fn: d.expr(d.field(n, "func")), Rparen: d.closePos(n)}
		call.Lparen = End(call.Fn)
		for _, a := range d.list(n, "args") {
			call.Args = append(call.Args, d.arg(a))
		}
		if sa := d.field(n, "starargs"); sa != nil {
			call.Args = append(call.Args, &Arg{Star: 1, Value: d.expr(sa)})
		}
		for _, kw := range d.list(n, "keywords") {
			call.Args = append(call.Args, d.keyword(kw))
		}
		if ka := d.field(n, "kwargs"); ka != nil {
			call.Args = append(call.Args, &Arg{Star: 2, Value: d.expr(ka)})
		}
		return call

	case "BinOp":
		left := d.expr(d.field(n, "left"))
		return &BinaryExpr{X: left, OpPos: End(left), Op: d.op(n, "op"), Y: d.expr(d.field(n, "right"))}

	case "BoolOp":
		values := d.exprs(n, "values")
		if len(values) == 0 {
			d.failf(n, "BoolOp without values")
		}
		op := d.op(n, "op")
		x := values[0]
		for _, y := range values[1:] {
			x = &BinaryExpr{X: x, OpPos: End(x), Op: op, Y: y}
		}
		return x

	case "Compare":
		x := d.expr(d.field(n, "left"))
		ops := d.list(n, "ops")
		comparators := d.exprs(n, "comparators")
		if len(ops) != len(comparators) {
			d.failf(n, "Compare has %d operators but %d operands", len(ops), len(comparators))
		}
		for i, y := range comparators {
			x = &BinaryExpr{X: x, OpPos: End(x), Op: d.opName(ops[i]), Y: y}
		}
		return x

	case "UnaryOp":
		return &UnaryExpr{OpPos: pos, Op: d.op(n, "op"), X: d.expr(d.field(n, "operand"))}

	case "Repr":
		return &UnaryExpr{OpPos: pos, Op: "`", X: d.expr(d.field(n, "value"))}

	case "IfExp":
		body := d.expr(d.field(n, "body"))
		return &CondExpr{
			If:    End(body),
			Cond:  d.expr(d.field(n, "test")),
			True:  body,
			False: d.expr(d.field(n, "orelse")),
		}

	case "Lambda":
		return &LambdaExpr{Lambda: pos, Params: d.params(n, d.field(n, "args")), Body: d.expr(d.field(n, "body"))}

	case "NamedExpr":
		target, ok := d.expr(d.field(n, "target")).(*Ident)
		if !ok {
			d.failf(n, "assignment expression target must be a name")
		}
		return &NamedExpr{Target: target, Walrus: End(target), Value: d.expr(d.field(n, "value"))}

	case "Dict":
		dict := &DictExpr{Lbrace: pos, Rbrace: d.closePos(n)}
		keys := d.list(n, "keys")
		values := d.list(n, "values")
		if len(keys) != len(values) {
			d.failf(n, "Dict has %d keys but %d values", len(keys), len(values))
		}
		for i, v := range values {
			entry := &DictEntry{Value: d.expr(v)}
			if !isNull(keys[i]) {
				entry.Key = d.expr(keys[i])
				entry.Colon = End(entry.Key)
			}
			dict.Entries = append(dict.Entries, entry)
		}
		return dict

	case "Set":
		return &SetExpr{Lbrace: pos, List: d.exprs(n, "elts"), Rbrace: d.closePos(n)}

	case "List":
		return &ListExpr{Lbrack: pos, List: d.exprs(n, "elts"), Rbrack: d.closePos(n)}

	case "Tuple":
		tuple := &TupleExpr{List: d.exprs(n, "elts")}
		if end := d.endPos(n); end.IsValid() || len(tuple.List) == 0 {
			tuple.Lparen, tuple.Rparen = pos, end
		}
		return tuple

	case "Starred":
		return &StarExpr{Star: pos, X: d.expr(d.field(n, "value"))}

	case "ListComp", "SetComp", "GeneratorExp", "DictComp":
		comp := &Comprehension{Lbrack: pos, Rbrack: d.closePos(n)}
		switch t {
		case "ListComp":
			comp.Kind = ListComp
		case "SetComp":
			comp.Kind = SetComp
		case "GeneratorExp":
			comp.Kind = GeneratorExpr
		case "DictComp":
			comp.Kind = DictComp
		}
		if t == "DictComp" {
			comp.Body = d.expr(d.field(n, "key"))
			comp.Value = d.expr(d.field(n, "value"))
		} else {
			comp.Body = d.expr(d.field(n, "elt"))
		}
		for _, g := range d.list(n, "generators") {
			target := d.expr(d.field(g, "target"))
			comp.Clauses = append(comp.Clauses, &ForClause{
				For:    Start(target),
				Async:  d.bool(g, "is_async"),
				Target: target,
				Iter:   d.expr(d.field(g, "iter")),
			})
			for _, cond := range d.exprs(g, "ifs") {
				comp.Clauses = append(comp.Clauses, &IfClause{If: Start(cond), Cond: cond})
			}
		}
		if len(comp.Clauses) == 0 {
			d.failf(n, "%s without generators", t)
		}
		return comp

	case "Yield", "YieldFrom":
		return &YieldExpr{Yield: pos, From: t == "YieldFrom", X: d.optExpr(n, "value")}

	case "Await":
		return &AwaitExpr{Await: pos, X: d.expr(d.field(n, "value"))}
	}
	panic(&DecodeError{Path: d.path, Line: n.Line, Msg: fmt.Sprintf("expression %s: %v", d.typ(n), ErrUnknownNode), Err: ErrUnknownNode})
}

// slice decodes a subscript: Index wrappers (Python < 3.9) are
// unwrapped and ExtSlice becomes a tuple.
func (d *decoder) slice(n *yaml.Node) Expr {
	if n == nil {
		return nil
	}
	switch d.typ(n) {
	case "Index":
		return d.expr(d.field(n, "value"))
	case "Slice":
		return &SliceExpr{
			Colon: d.pos(n),
			Lo:    d.optExpr(n, "lower"),
			Hi:    d.optExpr(n, "upper"),
			Step:  d.optExpr(n, "step"),
		}
	case "ExtSlice":
		var dims []Expr
		for _, dim := range d.list(n, "dims") {
			dims = append(dims, d.slice(dim))
		}
		return &TupleExpr{List: dims}
	}
	return d.expr(n)
}

func (d *decoder) arg(n *yaml.Node) *Arg {
	if d.typ(n) == "Starred" {
		return &Arg{Star: 1, Value: d.expr(d.field(n, "value"))}
	}
	return &Arg{Value: d.expr(n)}
}

// keyword decodes a keyword argument; a null arg denotes **value.
func (d *decoder) keyword(n *yaml.Node) *Arg {
	value := d.expr(d.field(n, "value"))
	name := d.str(n, "arg")
	if name == "" {
		return &Arg{Star: 2, Value: value}
	}
	a := &Arg{Keyword: name, Value: value}
	if d.field(n, "lineno") != nil {
		a.KeyPos = d.pos(n)
	}
	return a
}

func (d *decoder) fstringValues(n *yaml.Node) []Expr {
	var values []Expr
	for _, v := range d.list(n, "values") {
		if d.typ(v) == "FormattedValue" {
			values = append(values, d.formatted(v)...)
		}
	}
	return values
}

// formatted returns the expressions of one {value:spec} replacement field.
func (d *decoder) formatted(v *yaml.Node) []Expr {
	values := []Expr{d.expr(d.field(v, "value"))}
	if spec := d.field(v, "format_spec"); spec != nil {
		values = append(values, d.fstringValues(spec)...)
	}
	return values
}

func (d *decoder) constant(pos Position, v *yaml.Node) *Literal {
	if v == nil {
		return &Literal{TokenPos: pos, Kind: "None", Raw: "None"}
	}
	switch v.Tag {
	case "!!bool":
		if b, _ := strconv.ParseBool(v.Value); b {
			return &Literal{TokenPos: pos, Kind: "True", Raw: "True"}
		}
		return &Literal{TokenPos: pos, Kind: "False", Raw: "False"}
	case "!!int", "!!float":
		return &Literal{TokenPos: pos, Kind: numKind(v), Raw: v.Value}
	case "!!str":
		switch v.Value {
		case "None", "True", "False", "...", "Ellipsis":
			if v.Style == 0 {
				return &Literal{TokenPos: pos, Kind: v.Value, Raw: v.Value}
			}
		}
		return &Literal{TokenPos: pos, Kind: "str", Raw: strconv.Quote(v.Value)}
	}
	return &Literal{TokenPos: pos, Kind: "str", Raw: v.Value}
}

func numKind(v *yaml.Node) string {
	if v != nil && v.Tag == "!!float" {
		return "float"
	}
	return "int"
}

// op returns the operator symbol stored at key.
func (d *decoder) op(n *yaml.Node, key string) string {
	v := d.field(n, key)
	if v == nil {
		d.failf(n, "missing operator %s", key)
	}
	return d.opName(v)
}

var opNames = map[string]string{
	"Add": "+", "Sub": "-", "Mult": "*", "MatMult": "@", "Div": "/", "Mod": "%",
	"Pow": "**", "LShift": "<<", "RShift": ">>", "BitOr": "|", "BitXor": "^",
	"BitAnd": "&", "FloorDiv": "//",
	"And": "and", "Or": "or",
	"Eq": "==", "NotEq": "!=", "Lt": "<", "LtE": "<=", "Gt": ">", "GtE": ">=",
	"Is": "is", "IsNot": "is not", "In": "in", "NotIn": "not in",
	"Invert": "~", "Not": "not", "UAdd": "+", "USub": "-",
}

// opName accepts either an operator node ({_type: Add}) or its bare name.
func (d *decoder) opName(v *yaml.Node) string {
	name := v.Value
	if v.Kind == yaml.MappingNode {
		name = d.typ(v)
	}
	if sym, ok := opNames[name]; ok {
		return sym
	}
	d.failf(v, "unknown operator %q", name)
	return ""
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if 'A' <= b[0] && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
