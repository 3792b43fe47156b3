// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines the Python abstract syntax tree consumed by the
// name resolver.
//
// The tree is produced by an external parser; this package only declares
// the node types, a Walk function, and a decoder for the JSON/YAML dumps
// emitted by Python's own ast module (see Decode). Nodes are never mutated
// by the resolver: pointers to nodes serve as stable identities.
package syntax

// A Node is a node in a Python syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Python module.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// bodyEnd returns the end of the last statement of body, or dflt if
// the body is empty (as it may be in error-recovered trees).
func bodyEnd(body []Stmt, dflt Position) Position {
	if len(body) == 0 {
		return dflt
	}
	return End(body[len(body)-1])
}

// A Stmt is a Python statement.
type Stmt interface {
	Node
	stmt()
}

func (*AnnAssignStmt) stmt()  {}
func (*AssertStmt) stmt()     {}
func (*AssignStmt) stmt()     {}
func (*AugAssignStmt) stmt()  {}
func (*BranchStmt) stmt()     {}
func (*ClassStmt) stmt()      {}
func (*DefStmt) stmt()        {}
func (*DelStmt) stmt()        {}
func (*ExecStmt) stmt()       {}
func (*ExprStmt) stmt()       {}
func (*ForStmt) stmt()        {}
func (*GlobalStmt) stmt()     {}
func (*IfStmt) stmt()         {}
func (*ImportFromStmt) stmt() {}
func (*ImportStmt) stmt()     {}
func (*NonlocalStmt) stmt()   {}
func (*PrintStmt) stmt()      {}
func (*RaiseStmt) stmt()      {}
func (*ReturnStmt) stmt()     {}
func (*TryStmt) stmt()        {}
func (*WhileStmt) stmt()      {}
func (*WithStmt) stmt()       {}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An AssignStmt represents a (possibly chained) assignment:
//	x = 0
//	x, y = y, x
//	a = b = c
type AssignStmt struct {
	Targets []Expr // len > 0
	EqPos   Position
	Value   Expr
}

func (x *AssignStmt) Span() (start, end Position) {
	start, _ = x.Targets[0].Span()
	_, end = x.Value.Span()
	return
}

// An AugAssignStmt represents an augmented assignment: x += 1.
type AugAssignStmt struct {
	Target Expr
	OpPos  Position
	Op     string // "+=", "-=", ...
	Value  Expr
}

func (x *AugAssignStmt) Span() (start, end Position) {
	start, _ = x.Target.Span()
	_, end = x.Value.Span()
	return
}

// An AnnAssignStmt represents an annotated assignment: x: int = 0.
type AnnAssignStmt struct {
	Target     Expr
	Annotation Expr
	Value      Expr // may be nil
}

func (x *AnnAssignStmt) Span() (start, end Position) {
	start, _ = x.Target.Span()
	if x.Value != nil {
		_, end = x.Value.Span()
	} else {
		_, end = x.Annotation.Span()
	}
	return
}

// A DelStmt represents a deletion: del x, y[0].
type DelStmt struct {
	Del     Position
	Targets []Expr
}

func (x *DelStmt) Span() (start, end Position) {
	if len(x.Targets) == 0 {
		return x.Del, x.Del.add("del")
	}
	return x.Del, End(x.Targets[len(x.Targets)-1])
}

// A BranchStmt is one of pass, break or continue.
type BranchStmt struct {
	Token    string // "pass" | "break" | "continue"
	TokenPos Position
}

func (x *BranchStmt) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Token)
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	return x.Return, End(x.Result)
}

// A RaiseStmt raises an exception: raise Exc from Cause.
// Python 2's three-operand form is stored as Exc, Cause=instance, Traceback.
type RaiseStmt struct {
	Raise     Position
	Exc       Expr // may be nil
	Cause     Expr // may be nil
	Traceback Expr // Python 2 only; may be nil
}

func (x *RaiseStmt) Span() (start, end Position) {
	end = x.Raise.add("raise")
	for _, e := range []Expr{x.Exc, x.Cause, x.Traceback} {
		if e != nil {
			end = End(e)
		}
	}
	return x.Raise, end
}

// An AssertStmt represents: assert Test, Msg.
type AssertStmt struct {
	Assert Position
	Test   Expr
	Msg    Expr // may be nil
}

func (x *AssertStmt) Span() (start, end Position) {
	if x.Msg != nil {
		return x.Assert, End(x.Msg)
	}
	return x.Assert, End(x.Test)
}

// An IfStmt is a conditional: If Cond: True; else: False.
// 'elif' is desugared into a chain of IfStmts.
type IfStmt struct {
	If    Position // IF or ELIF
	Cond  Expr
	True  []Stmt
	False []Stmt // optional
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.False
	if body == nil {
		body = x.True
	}
	return x.If, bodyEnd(body, End(x.Cond))
}

// A WhileStmt represents: while Cond: Body else: Else.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  []Stmt
	Else  []Stmt // optional
}

func (x *WhileStmt) Span() (start, end Position) {
	return x.While, bodyEnd(x.Else, bodyEnd(x.Body, End(x.Cond)))
}

// A ForStmt represents a loop: for Target in Iter: Body else: Else.
type ForStmt struct {
	For    Position
	Async  bool
	Target Expr // name, or tuple of names
	Iter   Expr
	Body   []Stmt
	Else   []Stmt // optional
}

func (x *ForStmt) Span() (start, end Position) {
	return x.For, bodyEnd(x.Else, bodyEnd(x.Body, End(x.Iter)))
}

// A WithStmt represents: with Items: Body.
type WithStmt struct {
	With  Position
	Async bool
	Items []*WithItem
	Body  []Stmt
}

func (x *WithStmt) Span() (start, end Position) {
	return x.With, bodyEnd(x.Body, x.With.add("with"))
}

// A WithItem is one context manager of a with statement: Context as Target.
type WithItem struct {
	Context Expr
	Target  Expr // may be nil
}

func (x *WithItem) Span() (start, end Position) {
	start, end = x.Context.Span()
	if x.Target != nil {
		end = End(x.Target)
	}
	return
}

// A TryStmt represents try/except/else/finally.
type TryStmt struct {
	Try      Position
	Body     []Stmt
	Handlers []*ExceptHandler
	Else     []Stmt
	Finally  []Stmt
}

func (x *TryStmt) Span() (start, end Position) {
	end = bodyEnd(x.Body, x.Try.add("try"))
	if len(x.Handlers) > 0 {
		end = End(x.Handlers[len(x.Handlers)-1])
	}
	end = bodyEnd(x.Else, end)
	end = bodyEnd(x.Finally, end)
	return x.Try, end
}

// An ExceptHandler is one except clause: except Type as Name: Body.
type ExceptHandler struct {
	Except Position
	Type   Expr   // may be nil
	Name   *Ident // may be nil
	Body   []Stmt
}

func (x *ExceptHandler) Span() (start, end Position) {
	return x.Except, bodyEnd(x.Body, x.Except.add("except"))
}

// An ImportStmt represents: import a.b, c as d.
type ImportStmt struct {
	Import Position
	Names  []*ImportName
}

func (x *ImportStmt) Span() (start, end Position) {
	if len(x.Names) == 0 {
		return x.Import, x.Import.add("import")
	}
	return x.Import, End(x.Names[len(x.Names)-1])
}

// An ImportFromStmt represents: from ..Module import a, b as c.
// A star import has a single name whose Name is "*".
type ImportFromStmt struct {
	From   Position
	Module string // may be empty for "from . import x"
	Level  int    // number of leading dots
	Names  []*ImportName
}

func (x *ImportFromStmt) Span() (start, end Position) {
	if len(x.Names) == 0 {
		return x.From, x.From.add("from")
	}
	return x.From, End(x.Names[len(x.Names)-1])
}

// IsStar reports whether the statement is "from Module import *".
func (x *ImportFromStmt) IsStar() bool {
	return len(x.Names) == 1 && x.Names[0].Name != nil && x.Names[0].Name.Name == "*"
}

// An ImportName is one imported name with its optional alias.
// For ImportStmt, Name may be dotted ("os.path").
type ImportName struct {
	Name   *Ident
	AsName *Ident // may be nil
}

func (x *ImportName) Span() (start, end Position) {
	start, end = x.Name.Span()
	if x.AsName != nil {
		end = End(x.AsName)
	}
	return
}

// A GlobalStmt represents: global a, b.
type GlobalStmt struct {
	Global Position
	Names  []*Ident
}

func (x *GlobalStmt) Span() (start, end Position) {
	if len(x.Names) == 0 {
		return x.Global, x.Global.add("global")
	}
	return x.Global, End(x.Names[len(x.Names)-1])
}

// A NonlocalStmt represents: nonlocal a, b.
type NonlocalStmt struct {
	Nonlocal Position
	Names    []*Ident
}

func (x *NonlocalStmt) Span() (start, end Position) {
	if len(x.Names) == 0 {
		return x.Nonlocal, x.Nonlocal.add("nonlocal")
	}
	return x.Nonlocal, End(x.Names[len(x.Names)-1])
}

// An ExecStmt is the Python 2 statement: exec Code in Globals, Locals.
// It is unqualified if both Globals and Locals are nil.
type ExecStmt struct {
	Exec    Position
	Code    Expr
	Globals Expr // may be nil
	Locals  Expr // may be nil
}

func (x *ExecStmt) Span() (start, end Position) {
	end = End(x.Code)
	if x.Locals != nil {
		end = End(x.Locals)
	} else if x.Globals != nil {
		end = End(x.Globals)
	}
	return x.Exec, end
}

// IsUnqualified reports whether the statement has no explicit namespace.
func (x *ExecStmt) IsUnqualified() bool { return x.Globals == nil && x.Locals == nil }

// A PrintStmt is the Python 2 statement: print >>Dest, Values.
type PrintStmt struct {
	Print  Position
	Dest   Expr // may be nil
	Values []Expr
}

func (x *PrintStmt) Span() (start, end Position) {
	end = x.Print.add("print")
	if len(x.Values) > 0 {
		end = End(x.Values[len(x.Values)-1])
	}
	return x.Print, end
}

// A ParamKind distinguishes the forms of function parameter.
type ParamKind uint8

const (
	NormalParam         ParamKind = iota // x or x=dflt
	PositionalOnlyParam                  // x before '/'
	VarArgsParam                         // *args, or bare '*' if Name is nil
	KeywordOnlyParam                     // x after '*'
	VarKwargsParam                       // **kwargs
)

var paramKindNames = [...]string{
	NormalParam:         "normal",
	PositionalOnlyParam: "positional-only",
	VarArgsParam:        "*args",
	KeywordOnlyParam:    "keyword-only",
	VarKwargsParam:      "**kwargs",
}

func (k ParamKind) String() string { return paramKindNames[k] }

// A Param is one parameter of a def or lambda.
type Param struct {
	Kind       ParamKind
	Name       *Ident // nil for bare '*' or a Python 2 sublist
	Sublist    Expr   // Python 2 tuple parameter: def f((a, b)): ...
	Annotation Expr   // may be nil
	Default    Expr   // may be nil
}

func (x *Param) Span() (start, end Position) {
	switch {
	case x.Name != nil:
		start, end = x.Name.Span()
	case x.Sublist != nil:
		start, end = x.Sublist.Span()
	case x.Default != nil:
		start, end = x.Default.Span()
	}
	if x.Default != nil {
		end = End(x.Default)
	}
	return
}

// A DefStmt represents a function definition.
type DefStmt struct {
	Def        Position
	Async      bool
	Decorators []Expr
	Name       *Ident
	Params     []*Param
	Returns    Expr // return annotation; may be nil
	Body       []Stmt
}

func (x *DefStmt) Span() (start, end Position) {
	return x.Def, bodyEnd(x.Body, x.Def.add("def"))
}

// A ClassStmt represents a class definition.
type ClassStmt struct {
	Class      Position
	Decorators []Expr
	Name       *Ident
	Bases      []*Arg // positional bases and keywords such as metaclass=M
	Body       []Stmt
}

func (x *ClassStmt) Span() (start, end Position) {
	return x.Class, bodyEnd(x.Body, x.Class.add("class"))
}

// An Expr is a Python expression.
type Expr interface {
	Node
	expr()
}

func (*AwaitExpr) expr()     {}
func (*BinaryExpr) expr()    {}
func (*CallExpr) expr()      {}
func (*Comprehension) expr() {}
func (*CondExpr) expr()      {}
func (*DictExpr) expr()      {}
func (*DotExpr) expr()       {}
func (*FString) expr()       {}
func (*Ident) expr()         {}
func (*IndexExpr) expr()     {}
func (*LambdaExpr) expr()    {}
func (*ListExpr) expr()      {}
func (*Literal) expr()       {}
func (*NamedExpr) expr()     {}
func (*SetExpr) expr()       {}
func (*SliceExpr) expr()     {}
func (*StarExpr) expr()      {}
func (*TupleExpr) expr()     {}
func (*UnaryExpr) expr()     {}
func (*YieldExpr) expr()     {}

// An Ident represents an identifier.
// Trees recovered from syntax errors may contain identifiers with an
// empty Name; the resolver ignores them.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal constant.
type Literal struct {
	TokenPos Position
	Kind     string // "int", "float", "complex", "str", "bytes", "None", "True", "False", "..."
	Raw      string // uninterpreted text, if known
}

func (x *Literal) Span() (start, end Position) {
	raw := x.Raw
	if raw == "" {
		raw = x.Kind
	}
	return x.TokenPos, x.TokenPos.add(raw)
}

// An FString is a formatted string literal; Values holds the embedded
// expressions (including those of nested format specs).
type FString struct {
	StartPos Position
	Values   []Expr
}

func (x *FString) Span() (start, end Position) {
	end = x.StartPos
	if len(x.Values) > 0 {
		end = End(x.Values[len(x.Values)-1])
	}
	return x.StartPos, end
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []*Arg
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, end = x.Fn.Span()
	if x.Rparen.IsValid() {
		end = x.Rparen.add(")")
	} else if len(x.Args) > 0 {
		end = End(x.Args[len(x.Args)-1])
	}
	return start, end
}

// An Arg is one argument of a call or class base list.
type Arg struct {
	Star    int      // 0 for x or k=x, 1 for *x, 2 for **x
	Keyword string   // keyword name for k=x; empty otherwise
	KeyPos  Position // position of the keyword, if any
	Value   Expr
}

func (x *Arg) Span() (start, end Position) {
	start, end = x.Value.Span()
	if x.KeyPos.IsValid() {
		start = x.KeyPos
	}
	return
}

// A DotExpr represents a field or method selector: X.Name.
// The selected name is an attribute, not a variable.
type DotExpr struct {
	X       Expr
	Dot     Position
	NamePos Position
	Name    string
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.NamePos.add(x.Name)
}

// An IndexExpr represents a subscript: X[Index].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Index  Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, end = x.X.Span()
	if x.Rbrack.IsValid() {
		end = x.Rbrack.add("]")
	} else if x.Index != nil {
		end = End(x.Index)
	}
	return
}

// A SliceExpr represents a slice used as a subscript: Lo:Hi:Step.
type SliceExpr struct {
	Colon        Position
	Lo, Hi, Step Expr // all optional
}

func (x *SliceExpr) Span() (start, end Position) {
	start, end = x.Colon, x.Colon.add(":")
	if x.Lo != nil {
		start = Start(x.Lo)
	}
	for _, e := range []Expr{x.Hi, x.Step} {
		if e != nil {
			end = End(e)
		}
	}
	return
}

// A Comprehension represents a list, set or dict comprehension or a
// generator expression: [Body for ... if ...], {Body: Value for ...}.
type Comprehension struct {
	Kind    CompKind
	Lbrack  Position
	Body    Expr   // element, or key of a dict comprehension
	Value   Expr   // value of a dict comprehension; nil otherwise
	Clauses []Node // = *ForClause | *IfClause; Clauses[0] is a *ForClause
	Rbrack  Position
}

func (x *Comprehension) Span() (start, end Position) {
	end = x.Rbrack
	if !end.IsValid() && len(x.Clauses) > 0 {
		end = End(x.Clauses[len(x.Clauses)-1])
	}
	return x.Lbrack, end
}

// A CompKind distinguishes the forms of comprehension.
type CompKind uint8

const (
	ListComp CompKind = iota
	SetComp
	DictComp
	GeneratorExpr
)

var compKindNames = [...]string{
	ListComp:      "list comprehension",
	SetComp:       "set comprehension",
	DictComp:      "dict comprehension",
	GeneratorExpr: "generator expression",
}

func (k CompKind) String() string { return compKindNames[k] }

// A ForClause represents a for clause in a comprehension: for Target in Iter.
type ForClause struct {
	For    Position
	Async  bool
	Target Expr // name, or tuple of names
	Iter   Expr
}

func (x *ForClause) Span() (start, end Position) {
	return x.For, End(x.Iter)
}

// An IfClause represents an if clause in a comprehension: if Cond.
type IfClause struct {
	If   Position
	Cond Expr
}

func (x *IfClause) Span() (start, end Position) {
	return x.If, End(x.Cond)
}

// A DictExpr represents a dictionary display: {Entries}.
type DictExpr struct {
	Lbrace  Position
	Entries []*DictEntry
	Rbrace  Position
}

func (x *DictExpr) Span() (start, end Position) {
	end = x.Lbrace.add("{")
	if x.Rbrace.IsValid() {
		end = x.Rbrace.add("}")
	} else if len(x.Entries) > 0 {
		end = End(x.Entries[len(x.Entries)-1])
	}
	return x.Lbrace, end
}

// A DictEntry represents a dictionary entry: Key: Value.
// A nil Key denotes an unpacking entry: **Value.
type DictEntry struct {
	Key   Expr
	Colon Position
	Value Expr
}

func (x *DictEntry) Span() (start, end Position) {
	start, end = x.Value.Span()
	if x.Key != nil {
		start = Start(x.Key)
	}
	return start, end
}

// A LambdaExpr represents an inline function abstraction.
type LambdaExpr struct {
	Lambda Position
	Params []*Param
	Body   Expr
}

func (x *LambdaExpr) Span() (start, end Position) {
	return x.Lambda, End(x.Body)
}

// A ListExpr represents a list display: [List].
type ListExpr struct {
	Lbrack Position
	List   []Expr
	Rbrack Position
}

func (x *ListExpr) Span() (start, end Position) {
	return x.Lbrack, closeEnd(x.Lbrack, x.Rbrack, x.List)
}

// A SetExpr represents a set display: {List}.
type SetExpr struct {
	Lbrace Position
	List   []Expr
	Rbrace Position
}

func (x *SetExpr) Span() (start, end Position) {
	return x.Lbrace, closeEnd(x.Lbrace, x.Rbrace, x.List)
}

// closeEnd returns the end of a bracketed display whose closing
// bracket position may be unknown.
func closeEnd(open, close Position, list []Expr) Position {
	switch {
	case close.IsValid():
		return close.add("]")
	case len(list) > 0:
		return End(list[len(list)-1])
	}
	return open.add("[")
}

// A TupleExpr represents a tuple: (List).
type TupleExpr struct {
	Lparen Position // optional (e.g. in x, y = 0, 1), but required if List is empty
	List   []Expr
	Rparen Position
}

func (x *TupleExpr) Span() (start, end Position) {
	if x.Lparen.IsValid() || len(x.List) == 0 {
		return x.Lparen, x.Rparen
	}
	return Start(x.List[0]), End(x.List[len(x.List)-1])
}

// A StarExpr represents an unpacking: *X.
type StarExpr struct {
	Star Position
	X    Expr
}

func (x *StarExpr) Span() (start, end Position) {
	return x.Star, End(x.X)
}

// CondExpr represents the conditional: True if Cond else False.
type CondExpr struct {
	If    Position
	Cond  Expr
	True  Expr
	False Expr
}

func (x *CondExpr) Span() (start, end Position) {
	return Start(x.True), End(x.False)
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    string // "-", "+", "~", "not", "`" (Python 2 repr)
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	return x.OpPos, End(x.X)
}

// A BinaryExpr represents a binary, boolean or comparison expression:
// X Op Y. Chained comparisons and n-ary boolean operations are folded
// left-associatively.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    string
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	return Start(x.X), End(x.Y)
}

// A NamedExpr represents an assignment expression: Target := Value.
type NamedExpr struct {
	Target *Ident
	Walrus Position
	Value  Expr
}

func (x *NamedExpr) Span() (start, end Position) {
	return Start(x.Target), End(x.Value)
}

// A YieldExpr represents: yield X, or yield from X.
type YieldExpr struct {
	Yield Position
	From  bool
	X     Expr // may be nil
}

func (x *YieldExpr) Span() (start, end Position) {
	if x.X == nil {
		return x.Yield, x.Yield.add("yield")
	}
	return x.Yield, End(x.X)
}

// An AwaitExpr represents: await X.
type AwaitExpr struct {
	Await Position
	X     Expr
}

func (x *AwaitExpr) Span() (start, end Position) {
	return x.Await, End(x.X)
}
