// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *AssignStmt:
		for _, t := range n.Targets {
			Walk(t, f)
		}
		Walk(n.Value, f)

	case *AugAssignStmt:
		Walk(n.Target, f)
		Walk(n.Value, f)

	case *AnnAssignStmt:
		Walk(n.Target, f)
		Walk(n.Annotation, f)
		walkOpt(n.Value, f)

	case *DelStmt:
		walkExprs(n.Targets, f)

	case *BranchStmt:
		// no-op

	case *ReturnStmt:
		walkOpt(n.Result, f)

	case *RaiseStmt:
		walkOpt(n.Exc, f)
		walkOpt(n.Cause, f)
		walkOpt(n.Traceback, f)

	case *AssertStmt:
		Walk(n.Test, f)
		walkOpt(n.Msg, f)

	case *IfStmt:
		Walk(n.Cond, f)
		walkStmts(n.True, f)
		walkStmts(n.False, f)

	case *WhileStmt:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)
		walkStmts(n.Else, f)

	case *ForStmt:
		Walk(n.Target, f)
		Walk(n.Iter, f)
		walkStmts(n.Body, f)
		walkStmts(n.Else, f)

	case *WithStmt:
		for _, item := range n.Items {
			Walk(item, f)
		}
		walkStmts(n.Body, f)

	case *WithItem:
		Walk(n.Context, f)
		walkOpt(n.Target, f)

	case *TryStmt:
		walkStmts(n.Body, f)
		for _, h := range n.Handlers {
			Walk(h, f)
		}
		walkStmts(n.Else, f)
		walkStmts(n.Finally, f)

	case *ExceptHandler:
		walkOpt(n.Type, f)
		if n.Name != nil {
			Walk(n.Name, f)
		}
		walkStmts(n.Body, f)

	case *ImportStmt:
		for _, name := range n.Names {
			Walk(name, f)
		}

	case *ImportFromStmt:
		for _, name := range n.Names {
			Walk(name, f)
		}

	case *ImportName:
		Walk(n.Name, f)
		if n.AsName != nil {
			Walk(n.AsName, f)
		}

	case *GlobalStmt:
		for _, id := range n.Names {
			Walk(id, f)
		}

	case *NonlocalStmt:
		for _, id := range n.Names {
			Walk(id, f)
		}

	case *ExecStmt:
		Walk(n.Code, f)
		walkOpt(n.Globals, f)
		walkOpt(n.Locals, f)

	case *PrintStmt:
		walkOpt(n.Dest, f)
		walkExprs(n.Values, f)

	case *DefStmt:
		walkExprs(n.Decorators, f)
		if n.Name != nil {
			Walk(n.Name, f)
		}
		for _, p := range n.Params {
			Walk(p, f)
		}
		walkOpt(n.Returns, f)
		walkStmts(n.Body, f)

	case *ClassStmt:
		walkExprs(n.Decorators, f)
		if n.Name != nil {
			Walk(n.Name, f)
		}
		for _, base := range n.Bases {
			Walk(base, f)
		}
		walkStmts(n.Body, f)

	case *Param:
		if n.Name != nil {
			Walk(n.Name, f)
		}
		walkOpt(n.Sublist, f)
		walkOpt(n.Annotation, f)
		walkOpt(n.Default, f)

	case *Ident, *Literal:
		// no-op

	case *FString:
		walkExprs(n.Values, f)

	case *CallExpr:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *Arg:
		Walk(n.Value, f)

	case *DotExpr:
		Walk(n.X, f)

	case *IndexExpr:
		Walk(n.X, f)
		walkOpt(n.Index, f)

	case *SliceExpr:
		walkOpt(n.Lo, f)
		walkOpt(n.Hi, f)
		walkOpt(n.Step, f)

	case *Comprehension:
		Walk(n.Body, f)
		walkOpt(n.Value, f)
		for _, c := range n.Clauses {
			Walk(c, f)
		}

	case *ForClause:
		Walk(n.Target, f)
		Walk(n.Iter, f)

	case *IfClause:
		Walk(n.Cond, f)

	case *DictExpr:
		for _, entry := range n.Entries {
			Walk(entry, f)
		}

	case *DictEntry:
		walkOpt(n.Key, f)
		Walk(n.Value, f)

	case *LambdaExpr:
		for _, p := range n.Params {
			Walk(p, f)
		}
		Walk(n.Body, f)

	case *ListExpr:
		walkExprs(n.List, f)

	case *SetExpr:
		walkExprs(n.List, f)

	case *TupleExpr:
		walkExprs(n.List, f)

	case *StarExpr:
		Walk(n.X, f)

	case *CondExpr:
		Walk(n.Cond, f)
		Walk(n.True, f)
		Walk(n.False, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *NamedExpr:
		Walk(n.Target, f)
		Walk(n.Value, f)

	case *YieldExpr:
		walkOpt(n.X, f)

	case *AwaitExpr:
		Walk(n.X, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, e := range exprs {
		Walk(e, f)
	}
}

func walkOpt(e Expr, f func(Node) bool) {
	if e != nil {
		Walk(e, f)
	}
}
