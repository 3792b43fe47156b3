// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines the name-binding pass for Python abstract
// syntax trees.
//
// The resolver determines, for every identifier in a module, the
// variable it denotes: a local or parameter of its own scope, a
// variable of some enclosing function (a free variable), or a name in
// the module's global namespace. It also computes, for each scope,
// the free and cell variables needed to build closures.
// The results are recorded in a Resolution; the syntax tree is not
// modified.
package resolve // import "github.com/pyscope/pyscope/resolve"

// Python's scoping rules are not sensitive to the order of statements
// within a scope: a name is local to a function if the function
// contains any binding use of it, and a global declaration anywhere in
// a function applies to every use of the name in that function.
// Resolution therefore takes three passes.
//
// The definition pass walks the tree once. It creates a Scope for the
// module, each class body, each def and lambda, and each comprehension
// (generator expressions always; list, set and dict comprehensions
// only in Python 3). For every binding use of a name (assignment,
// parameter, import, def, class, for, with, except, del, walrus) it
// declares a variable in the current scope, and it records every
// occurrence of a name, binding or not, in the scope in which it
// appears. Scopes are appended to a list as they are left, so the
// list is in post-order: inner scopes precede the scopes that
// enclose them, and the module comes last.
//
// The binding pass then resolves each name recorded in each scope,
// once per name per scope. The rule applied depends on the kind of
// the scope (see policy.go). Notably, a class body is a dictionary
// namespace: names bound in it are looked up at run time, and they
// are invisible to the functions defined within it.
//
// When a function-like scope resolves a name that is a local of an
// enclosing function, the variable is captured: it becomes a cell of
// the declaring scope and a free variable of every scope in between.
//
// The finishing pass visits the scopes in post-order, so that each
// scope reports its captures before its ancestors are finished. It
// resolves nonlocal declarations, computes each scope's closure
// variables, and checks the legality of import * and exec.
//
// Some constructs make a scope's names impossible to resolve
// statically: "from m import *" and (in Python 2) an unqualified exec
// statement may bind arbitrary names. Names that would otherwise be
// resolved in the global namespace from within such a scope are left
// unresolved.

import (
	"fmt"
	"log"
	"strings"

	"github.com/pyscope/pyscope/syntax"
)

const debug = false

// A Mode controls optional behavior of the resolver.
type Mode uint

const (
	// SkipReferences computes scopes, variables and closures without
	// recording a Reference for each occurrence of a name.
	SkipReferences Mode = 1 << iota
)

// File resolves the names of the specified file, written in the
// specified version of Python. Scoping violations are reported to
// sink, which may be nil. Resolution never fails: in the presence of
// errors, the result is a best-effort approximation.
//
// File may be called concurrently on distinct files, but not on the
// same one.
func File(file *syntax.File, version Version, sink Sink, mode Mode) *Resolution {
	if sink == nil {
		sink = discard{}
	}
	r := newResolver(file, version, sink, mode)
	r.stmts(file.Stmts)
	r.pop(r.module)

	r.bindAll()
	r.finish()
	r.res.collectVariables()
	return r.res
}

// Check resolves file. It returns the resolution and, if any
// scoping errors were found, an ErrorList of them sorted by position.
// Warnings are discarded.
func Check(file *syntax.File, version Version) (*Resolution, error) {
	var diags ErrorList
	res := File(file, version, &diags, 0)
	if errs := diags.Errors(); len(errs) > 0 {
		errs.Sort()
		return res, errs
	}
	return res, nil
}

type resolver struct {
	version Version
	mode    Mode
	sink    Sink
	res     *Resolution

	module *Scope
	env    *Scope   // current scope
	scopes []*Scope // scopes left so far, in post-order
}

func newResolver(file *syntax.File, version Version, sink Sink, mode Mode) *resolver {
	module := newScope(Module, file, "<module>")
	module.IsGlobal = true
	return &resolver{
		version: version,
		mode:    mode,
		sink:    sink,
		res:     newResolution(file, version, module),
		module:  module,
		env:     module,
	}
}

func (r *resolver) push(s *Scope) {
	s.Parent = r.env
	r.env.Children = append(r.env.Children, s)
	r.env = s
	r.res.addScope(s)
}

func (r *resolver) pop(s *Scope) {
	if r.env != s {
		log.Panicf("%s: internal error: leaving %s while in %s", syntax.Start(s.Node), s, r.env)
	}
	r.scopes = append(r.scopes, s)
	r.env = s.Parent
}

func (r *resolver) errorf(n syntax.Node, format string, args ...interface{}) {
	r.report(Error, n, format, args...)
}

func (r *resolver) warnf(n syntax.Node, format string, args ...interface{}) {
	r.report(Warning, n, format, args...)
}

func (r *resolver) report(severity Severity, n syntax.Node, format string, args ...interface{}) {
	start, end := n.Span()
	r.sink.Report(Diagnostic{
		Severity: severity,
		Pos:      start,
		End:      end,
		Msg:      fmt.Sprintf(format, args...),
	})
}

// use records an occurrence of name in the current scope.
// A nil id denotes an implicit use, such as the use of __class__
// by a call to super().
func (r *resolver) use(id *syntax.Ident, name string) {
	s := r.env
	if _, ok := s.first[name]; !ok {
		s.first[name] = id
		s.names = append(s.names, name)
	}
	if id == nil || r.mode&SkipReferences != 0 {
		return
	}
	ref := &Reference{Name: name, Ident: id, Scope: s}
	s.refs[name] = append(s.refs[name], ref)
	r.res.addReference(ref)
}

// bind declares the variable id in the current scope and records
// the occurrence. It returns nil for a missing or empty identifier,
// as may occur in trees recovered from syntax errors.
func (r *resolver) bind(id *syntax.Ident, kind VariableKind) *Variable {
	if id == nil {
		return nil
	}
	return r.bindName(id, id.Name, kind)
}

func (r *resolver) bindName(id *syntax.Ident, name string, kind VariableKind) *Variable {
	if name == "" {
		return nil
	}
	v := r.env.declare(id, name, kind)
	r.use(id, name)
	return v
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		r.expr(stmt.X)

	case *syntax.AssignStmt:
		r.expr(stmt.Value)
		for _, lhs := range stmt.Targets {
			r.assign(lhs)
		}

	case *syntax.AugAssignStmt:
		r.expr(stmt.Value)
		r.assign(stmt.Target)

	case *syntax.AnnAssignStmt:
		r.expr(stmt.Annotation)
		r.exprOpt(stmt.Value)
		r.assign(stmt.Target)

	case *syntax.DelStmt:
		for _, x := range stmt.Targets {
			r.del(x)
		}

	case *syntax.BranchStmt:
		// no-op

	case *syntax.ReturnStmt:
		r.exprOpt(stmt.Result)

	case *syntax.RaiseStmt:
		r.exprOpt(stmt.Exc)
		r.exprOpt(stmt.Cause)
		r.exprOpt(stmt.Traceback)

	case *syntax.AssertStmt:
		r.expr(stmt.Test)
		r.exprOpt(stmt.Msg)

	case *syntax.IfStmt:
		r.expr(stmt.Cond)
		r.stmts(stmt.True)
		r.stmts(stmt.False)

	case *syntax.WhileStmt:
		r.expr(stmt.Cond)
		r.stmts(stmt.Body)
		r.stmts(stmt.Else)

	case *syntax.ForStmt:
		r.expr(stmt.Iter)
		r.assign(stmt.Target)
		r.stmts(stmt.Body)
		r.stmts(stmt.Else)

	case *syntax.WithStmt:
		r.env.ContainsExceptionHandling = true
		for _, item := range stmt.Items {
			r.expr(item.Context)
			if item.Target != nil {
				r.assign(item.Target)
			}
		}
		r.stmts(stmt.Body)

	case *syntax.TryStmt:
		r.env.ContainsExceptionHandling = true
		r.stmts(stmt.Body)
		for _, h := range stmt.Handlers {
			r.exprOpt(h.Type)
			v := r.bind(h.Name, Local)
			r.stmts(h.Body)
			if v != nil && r.version.Is3x() {
				// Python 3 deletes the target when the handler ends.
				v.Deleted = true
			}
		}
		r.stmts(stmt.Else)
		r.stmts(stmt.Finally)

	case *syntax.ImportStmt:
		for _, imp := range stmt.Names {
			if imp.AsName != nil {
				r.bind(imp.AsName, Local)
			} else if imp.Name != nil {
				// import a.b.c binds a.
				name := imp.Name.Name
				if i := strings.IndexByte(name, '.'); i >= 0 {
					name = name[:i]
				}
				r.bindName(imp.Name, name, Local)
			}
		}

	case *syntax.ImportFromStmt:
		if stmt.IsStar() {
			r.importStar(stmt)
			break
		}
		for _, imp := range stmt.Names {
			if imp.AsName != nil {
				r.bind(imp.AsName, Local)
			} else {
				r.bind(imp.Name, Local)
			}
		}

	case *syntax.GlobalStmt:
		for _, id := range stmt.Names {
			r.global(id)
		}

	case *syntax.NonlocalStmt:
		for _, id := range stmt.Names {
			r.nonlocal(id)
		}

	case *syntax.ExecStmt:
		r.expr(stmt.Code)
		r.exprOpt(stmt.Globals)
		r.exprOpt(stmt.Locals)
		if stmt.IsUnqualified() {
			s := r.env
			s.ContainsUnqualifiedExec = true
			s.NeedsLocalsDictionary = true
			s.HasLateBoundVariableSets = true
			if s.exec == nil {
				s.exec = stmt
			}
		}

	case *syntax.PrintStmt:
		r.exprOpt(stmt.Dest)
		r.exprs(stmt.Values)

	case *syntax.DefStmt:
		r.exprs(stmt.Decorators)
		r.paramExprs(stmt.Params)
		r.exprOpt(stmt.Returns)
		r.bind(stmt.Name, Local)
		s := newScope(Function, stmt, scopeName(stmt.Name, "<def>"))
		r.enterFunction(s, stmt.Params)
		r.stmts(stmt.Body)
		r.pop(s)

	case *syntax.ClassStmt:
		r.exprs(stmt.Decorators)
		for _, base := range stmt.Bases {
			r.expr(base.Value)
		}
		r.bind(stmt.Name, Local)
		s := newScope(Class, stmt, scopeName(stmt.Name, "<class>"))
		r.push(s)
		r.stmts(stmt.Body)
		r.pop(s)

	default:
		log.Panicf("unexpected stmt %T", stmt)
	}
}

func scopeName(id *syntax.Ident, dflt string) string {
	if id == nil || id.Name == "" {
		return dflt
	}
	return id.Name
}

func (r *resolver) importStar(stmt *syntax.ImportFromStmt) {
	s := r.env
	if r.version.Is3x() && s != r.module {
		r.errorf(stmt, "import * only allowed at module level")
	}
	s.ContainsImportStar = true
	s.NeedsLocalsDictionary = true
	s.HasLateBoundVariableSets = true
	if s.importStar == nil {
		s.importStar = stmt
	}
}

// global handles one name of a global statement. The name's module
// variable becomes Global and is aliased into the current scope,
// replacing any local variable of the same name, so that every use
// of the name in the scope denotes the global regardless of order.
func (r *resolver) global(id *syntax.Ident) {
	if id == nil || id.Name == "" {
		return
	}
	name := id.Name
	s := r.env
	assigned := false
	if v := s.LookupLocal(name); v != nil {
		switch v.Kind {
		case Parameter:
			r.errorf(id, "name '%s' is parameter and global", name)
			r.use(id, name)
			return
		case Nonlocal:
			r.errorf(id, "name '%s' is nonlocal and global", name)
			r.use(id, name)
			return
		case Local:
			r.warnf(id, "name '%s' is assigned to before global declaration", name)
			assigned = true
		case Global:
			assigned = true // repeated declaration
		}
	}
	if !assigned && s.HasBeenReferenced(name) {
		r.warnf(id, "name '%s' is used prior to global declaration", name)
	}

	v := r.module.declare(id, name, Global)
	v.Kind = Global
	if s != r.module {
		s.alias(name, v)
	}
	r.use(id, name)
}

// nonlocal handles one name of a nonlocal statement. The name is
// declared as a placeholder, resolved to a variable of an enclosing
// function in the finishing pass.
func (r *resolver) nonlocal(id *syntax.Ident) {
	if id == nil || id.Name == "" {
		return
	}
	name := id.Name
	s := r.env
	if s == r.module {
		r.errorf(id, "nonlocal declaration not allowed at module level")
		r.use(id, name)
		return
	}
	assigned, pending := false, true
	if v := s.LookupLocal(name); v != nil {
		switch v.Kind {
		case Parameter:
			r.errorf(id, "name '%s' is parameter and nonlocal", name)
			r.use(id, name)
			return
		case Global:
			r.errorf(id, "name '%s' is nonlocal and global", name)
			r.use(id, name)
			return
		case Local:
			r.warnf(id, "name '%s' is assigned to before nonlocal declaration", name)
			v.Kind = Nonlocal
			assigned = true
		case Nonlocal:
			// Repeating a nonlocal declaration is permitted.
			assigned, pending = true, false
		}
	}
	if !assigned && s.HasBeenReferenced(name) {
		r.warnf(id, "name '%s' is used prior to nonlocal declaration", name)
	}

	s.declare(id, name, Nonlocal)
	if pending {
		s.nonlocals = append(s.nonlocals, id)
		s.NonlocalNames = append(s.NonlocalNames, id)
	}
	r.use(id, name)
}

// assign declares the variables bound by an assignment to lhs.
func (r *resolver) assign(lhs syntax.Expr) {
	switch lhs := lhs.(type) {
	case *syntax.Ident:
		// x = ...
		r.bind(lhs, Local)

	case *syntax.TupleExpr:
		// x, y = ...
		for _, elem := range lhs.List {
			r.assign(elem)
		}

	case *syntax.ListExpr:
		// [x, y] = ...
		for _, elem := range lhs.List {
			r.assign(elem)
		}

	case *syntax.StarExpr:
		// x, *rest = ...
		r.assign(lhs.X)

	case *syntax.DotExpr:
		// x.f = ...
		r.expr(lhs.X)

	case *syntax.IndexExpr:
		// x[i] = ...
		r.expr(lhs.X)
		r.exprOpt(lhs.Index)

	default:
		// Not assignable; the parser reports this.
		r.expr(lhs)
	}
}

// del declares the variables deleted by "del x".
func (r *resolver) del(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Ident:
		if v := r.bind(x, Local); v != nil {
			v.Deleted = true
		}
	case *syntax.TupleExpr:
		for _, elem := range x.List {
			r.del(elem)
		}
	case *syntax.ListExpr:
		for _, elem := range x.List {
			r.del(elem)
		}
	default:
		r.expr(x)
	}
}

// paramExprs resolves the default values and annotations of params,
// which are evaluated in the enclosing scope.
func (r *resolver) paramExprs(params []*syntax.Param) {
	for _, param := range params {
		r.exprOpt(param.Default)
		r.exprOpt(param.Annotation)
	}
}

// enterFunction enters the function scope s and declares its parameters.
func (r *resolver) enterFunction(s *Scope, params []*syntax.Param) {
	r.push(s)
	seen := make(map[string]bool)
	for _, param := range params {
		if param.Name != nil {
			r.param(param.Name, seen)
		}
		if param.Sublist != nil {
			// Python 2: def f((a, b)): ...
			targetNames(param.Sublist, func(id *syntax.Ident) { r.param(id, seen) })
		}
	}
}

func (r *resolver) param(id *syntax.Ident, seen map[string]bool) {
	if id.Name == "" {
		return
	}
	if seen[id.Name] {
		r.errorf(id, "duplicate argument '%s' in function definition", id.Name)
	}
	seen[id.Name] = true
	r.bind(id, Parameter)
}

// targetNames calls f for each identifier bound by the assignment
// target x.
func targetNames(x syntax.Expr, f func(*syntax.Ident)) {
	switch x := x.(type) {
	case *syntax.Ident:
		f(x)
	case *syntax.TupleExpr:
		for _, elem := range x.List {
			targetNames(elem, f)
		}
	case *syntax.ListExpr:
		for _, elem := range x.List {
			targetNames(elem, f)
		}
	case *syntax.StarExpr:
		targetNames(x.X, f)
	}
}

func (r *resolver) exprs(exprs []syntax.Expr) {
	for _, e := range exprs {
		r.expr(e)
	}
}

func (r *resolver) exprOpt(e syntax.Expr) {
	if e != nil {
		r.expr(e)
	}
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Ident:
		if e != nil && e.Name != "" {
			r.use(e, e.Name)
		}

	case *syntax.Literal:
		// no-op

	case *syntax.FString:
		r.exprs(e.Values)

	case *syntax.CallExpr:
		r.expr(e.Fn)
		for _, arg := range e.Args {
			r.expr(arg.Value)
		}
		r.call(e)

	case *syntax.DotExpr:
		r.expr(e.X)
		// ignore e.Name

	case *syntax.IndexExpr:
		r.expr(e.X)
		r.exprOpt(e.Index)

	case *syntax.SliceExpr:
		r.exprOpt(e.Lo)
		r.exprOpt(e.Hi)
		r.exprOpt(e.Step)

	case *syntax.Comprehension:
		r.comprehension(e)

	case *syntax.DictExpr:
		for _, entry := range e.Entries {
			r.exprOpt(entry.Key)
			r.expr(entry.Value)
		}

	case *syntax.LambdaExpr:
		r.paramExprs(e.Params)
		s := newScope(Function, e, "<lambda>")
		r.enterFunction(s, e.Params)
		r.expr(e.Body)
		r.pop(s)

	case *syntax.ListExpr:
		r.exprs(e.List)

	case *syntax.SetExpr:
		r.exprs(e.List)

	case *syntax.TupleExpr:
		r.exprs(e.List)

	case *syntax.StarExpr:
		r.expr(e.X)

	case *syntax.CondExpr:
		r.expr(e.Cond)
		r.expr(e.True)
		r.expr(e.False)

	case *syntax.UnaryExpr:
		r.expr(e.X)

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.NamedExpr:
		r.expr(e.Value)
		r.namedTarget(e)

	case *syntax.YieldExpr:
		r.exprOpt(e.X)

	case *syntax.AwaitExpr:
		r.expr(e.X)

	default:
		log.Panicf("unexpected expr %T", e)
	}
}

// call records the effect of calls to built-ins that access the
// caller's namespace.
func (r *resolver) call(call *syntax.CallExpr) {
	fn, ok := call.Fn.(*syntax.Ident)
	if !ok {
		return
	}
	s := r.env
	switch fn.Name {
	case "locals":
		if len(call.Args) == 0 {
			s.NeedsLocalsDictionary = true
		}
	case "vars", "dir":
		if splatOnly(call.Args) {
			s.NeedsLocalsDictionary = true
		}
	case "eval", "execfile":
		s.NeedsLocalsDictionary = true
	case "exec":
		if r.version.Is3x() {
			s.NeedsLocalsDictionary = true
		}
	case "super":
		if len(call.Args) == 0 && r.version.Is3x() {
			r.useClassCell()
		}
	}
}

// splatOnly reports whether args is empty, (*a), or (*a, **k).
func splatOnly(args []*syntax.Arg) bool {
	switch len(args) {
	case 0:
		return true
	case 1:
		return args[0].Star == 1
	case 2:
		return args[0].Star == 1 && args[1].Star == 2
	}
	return false
}

// useClassCell records the implicit use of __class__ by a
// zero-argument super() call in a function nested in a class.
func (r *resolver) useClassCell() {
	for s := r.env; s != nil; s = s.Parent {
		if s.Kind == Class {
			if s != r.env {
				r.use(nil, "__class__")
			}
			return
		}
	}
}

var compNames = [...]string{
	syntax.ListComp:      "<listcomp>",
	syntax.SetComp:       "<setcomp>",
	syntax.DictComp:      "<dictcomp>",
	syntax.GeneratorExpr: "<genexpr>",
}

func (r *resolver) comprehension(c *syntax.Comprehension) {
	if len(c.Clauses) == 0 {
		log.Panicf("%s: internal error: %s without clauses", c.Lbrack, c.Kind)
	}
	// The iterable of the first clause (always a ForClause)
	// is evaluated in the enclosing scope; consider [x for x in x].
	first := c.Clauses[0].(*syntax.ForClause)
	r.expr(first.Iter)

	var s *Scope
	if c.Kind == syntax.GeneratorExpr || r.version.comprehensionScopes() {
		s = newScope(Comprehension, c, compNames[c.Kind])
		s.iterVars = make(map[string]bool)
		r.push(s)
	}

	r.iterTarget(first.Target)
	for _, clause := range c.Clauses[1:] {
		switch clause := clause.(type) {
		case *syntax.ForClause:
			r.expr(clause.Iter)
			r.iterTarget(clause.Target)
		case *syntax.IfClause:
			r.expr(clause.Cond)
		}
	}
	r.expr(c.Body)
	r.exprOpt(c.Value)

	if s != nil {
		r.pop(s)
	}
}

func (r *resolver) iterTarget(x syntax.Expr) {
	if vars := r.env.iterVars; vars != nil {
		targetNames(x, func(id *syntax.Ident) { vars[id.Name] = true })
	}
	r.assign(x)
}

// namedTarget binds the target of an assignment expression (x := v).
// Within a comprehension, the target belongs to the nearest enclosing
// scope that is not a comprehension.
func (r *resolver) namedTarget(e *syntax.NamedExpr) {
	id := e.Target
	if id == nil || id.Name == "" {
		return
	}
	if r.env.Kind != Comprehension {
		r.bind(id, Local)
		return
	}

	target := r.env
	for ; target.Kind == Comprehension; target = target.Parent {
		if target.iterVars[id.Name] {
			r.errorf(e, "assignment expression cannot rebind comprehension iteration variable '%s'", id.Name)
			r.use(id, id.Name)
			return
		}
	}
	if target.Kind == Class {
		r.errorf(e, "assignment expression within a comprehension cannot be used in a class body")
		r.use(id, id.Name)
		return
	}

	v := target.declare(id, id.Name, Local)
	if target == r.module {
		v.Kind = Global
	}
	for s := r.env; s != target; s = s.Parent {
		if v.IsGlobal() {
			s.alias(id.Name, v)
		} else {
			s.declare(nil, id.Name, Nonlocal)
		}
	}
	r.use(id, id.Name)
}
