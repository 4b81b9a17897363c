package ast

import "github.com/langc/langc/token"

// Node is implemented by every expression and statement node. Every node
// carries its source token for diagnostics (spec.md §3).
type Node interface {
	Token() token.Token
}

// Expr is implemented by every expression node. ResolvedType is filled in by
// sema; it is nil (or KindUnknown) until then.
type Expr interface {
	Node
	exprNode()
	Type() *Type
	SetType(*Type)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// exprBase is embedded by every concrete Expr to provide the token and
// resolved-type bookkeeping, plus the escape-analysis flags every expression
// carries (spec.md §4.E.4: "On each escape, the expression's escapes_scope
// flag is set").
type exprBase struct {
	tok            token.Token
	resolvedType   *Type
	EscapesScope   bool
	NeedsHeapAlloc bool
}

func (e *exprBase) Token() token.Token   { return e.tok }
func (e *exprBase) exprNode()            {}
func (e *exprBase) Type() *Type          { return e.resolvedType }
func (e *exprBase) SetType(t *Type)      { e.resolvedType = t }

type stmtBase struct {
	tok token.Token
}

func (s *stmtBase) Token() token.Token { return s.tok }
func (s *stmtBase) stmtNode()          {}

// ---- Expressions ----

// IntLit is an integer literal (and, pre-widening, a byte/uint32/int32
// literal distinguished by Suffix).
type IntLit struct {
	exprBase
	Value  int64
	Suffix token.NumSuffix
}

// DoubleLit is a floating-point literal.
type DoubleLit struct {
	exprBase
	Value        float64
	HadDecimal   bool // whether the source text contained a '.'; optimizer restores it on fold
	FloatSuffix  bool // `f`/`F` suffix: narrow to float instead of double
}

// BoolLit is `true`/`false`.
type BoolLit struct {
	exprBase
	Value bool
}

// CharLit is a `'c'` literal.
type CharLit struct {
	exprBase
	Value byte
}

// NilLit is the `nil` literal.
type NilLit struct{ exprBase }

// StringLit is a plain (non-interpolated) string literal.
type StringLit struct {
	exprBase
	Value string
}

// InterpPart is one piece of an interpolated string: either literal text or
// an embedded expression with an optional format specifier (spec.md §4.B).
type InterpPart struct {
	Literal string // set when Expr == nil
	Expr    Expr
	Format  string // raw format-spec text, e.g. "05d"; empty if none
}

// InterpStringLit is a `$"…{expr:spec}…"` interpolated string.
type InterpStringLit struct {
	exprBase
	Parts []InterpPart
}

// Ident is a name reference.
type Ident struct {
	exprBase
	Name string

	// Filled by sema: the scope depth at which this identifier was declared,
	// used by escape analysis and by nested-member-access propagation.
	DeclScopeDepth int
	// IsParam/IsGlobal are populated by sema so escape analysis can skip
	// them per spec.md §8 ("parameters and globals do not" escape).
	IsParam  bool
	IsGlobal bool
}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

// UnaryExpr is a unary operator expression.
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

// IncDecExpr is postfix `++`/`--`.
type IncDecExpr struct {
	exprBase
	Operand Expr
	Inc     bool // true for ++, false for --
}

// CallExpr is a function or method call.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr

	// IsTailCall is set by optimize's tail-call marking pass (advisory,
	// spec.md §9 Open Questions). The code generator reads it to decide
	// whether to emit a loop instead of a call.
	IsTailCall bool

	// Interceptable is set by sema (§4.E.7); codegen reads it to decide
	// whether to wrap the call site in the interception protocol.
	Interceptable bool
}

// MemberAccessExpr is `a.b`.
type MemberAccessExpr struct {
	exprBase
	Base  Expr
	Field string

	// Filled by sema.
	FieldIndex int
	// ScopeDepth is inherited from the base variable's declaration scope
	// (spec.md §4.E.6: "Chains a.b.c.d inherit the base variable's scope
	// depth").
	ScopeDepth int
	Escaped    bool
}

// IndexExpr is `a[i]`.
type IndexExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

// SliceExpr is `a[s..e]` or `a[s..e:step]`.
type SliceExpr struct {
	exprBase
	Base             Expr
	Start, End, Step Expr // any may be nil
}

// RangeExpr is `a..b`.
type RangeExpr struct {
	exprBase
	Start, End Expr
}

// SpreadExpr is `...a`.
type SpreadExpr struct {
	exprBase
	Operand Expr
}

// MemQualifier distinguishes `as val` / `as ref` from an ordinary `as T`
// type cast (spec.md §4.E.3).
type MemQualifier int

const (
	QualNone MemQualifier = iota
	QualVal
	QualRef
)

// AsExpr is a type cast or memory-qualifier expression: `e as T`,
// `e as val`, `e as ref`.
type AsExpr struct {
	exprBase
	Operand   Expr
	Target    *Type // nil for bare `as val`/`as ref` (memory qualifier only)
	Qualifier MemQualifier

	// IsNoop is set when `as val` is applied to an already-array value
	// (spec.md §4.E.3).
	IsNoop bool
	// IsCstrToStr is set when `*char as val` converts a C string to a
	// managed string.
	IsCstrToStr bool
}

// IsExpr is a `e is T` type test.
type IsExpr struct {
	exprBase
	Operand Expr
	Target  *Type
}

// FieldInitializer is one `name: value` pair inside a struct literal, or a
// synthetic initializer cloned from a field's default expression
// (spec.md §4.E.5).
type FieldInitializer struct {
	Name      string
	Value     Expr
	IsDefault bool // true if cloned from the field's default, not user-written
}

// StructLiteralExpr is `Name { field: value, ... }`.
type StructLiteralExpr struct {
	exprBase
	StructName string
	Fields     []FieldInitializer

	// FieldsInitialized[i] reports whether Struct.Fields[i] has a value in
	// this literal, after default-application (spec.md §4.E.5).
	FieldsInitialized []bool
	TotalFieldCount   int
}

// CapturedVar describes one variable captured by a lambda.
type CapturedVar struct {
	Name string
	Type *Type
}

// LambdaExpr is an anonymous function literal.
type LambdaExpr struct {
	exprBase
	Params     []Param
	ResultType *Type
	Body       []Stmt

	Captures []CapturedVar
	LambdaID int
}

// Param is one function parameter.
type Param struct {
	Name string
	Type *Type
}

// SizeofExpr is `sizeof(T)`.
type SizeofExpr struct {
	exprBase
	Target *Type
}

// TypeofExpr is `typeof(e)`.
type TypeofExpr struct {
	exprBase
	Operand Expr
}

// ---- Statements ----

// DeclKind distinguishes `var` (mutable) from `val` (immutable) declarations.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclVal
)

// VarDeclStmt is a `var`/`val` declaration.
type VarDeclStmt struct {
	stmtBase
	Kind    DeclKind
	Name    string
	Type    *Type // may be nil pre-inference if the source omitted it
	Init    Expr  // may be nil
	AsRef   bool  // `var x: int as ref`

	// DeclScopeDepth is filled in by sema when the variable is declared.
	DeclScopeDepth int
}

// AssignOp enumerates assignment and compound-assignment operators.
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

// AssignStmt is `target = value` or a compound assignment.
type AssignStmt struct {
	stmtBase
	Target Expr
	Op     AssignOp
	Value  Expr
}

// ExprStmt wraps an expression used as a statement (e.g. a bare call).
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// Block is a sequence of statements.
type Block struct {
	Stmts []Stmt
}

// IfStmt is `if cond => then else => else_`.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then Block
	Else *Block // nil if no else branch; may itself start with an IfStmt for else-if
}

// WhileStmt is `while cond => body`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Block
}

// ForInStmt is `for x in iterable => body`.
type ForInStmt struct {
	stmtBase
	Var      string
	Iterable Expr
	Body     Block

	// ProvenNonNegative is set by sema when it can show Var never goes
	// negative (a range loop; also recorded in symtab's loop_counter_set,
	// spec.md §3). codegen does not read it.
	ProvenNonNegative bool
}

// BreakStmt is `break`.
type BreakStmt struct{ stmtBase }

// ContinueStmt is `continue`.
type ContinueStmt struct{ stmtBase }

// ReturnStmt is `return expr?`.
type ReturnStmt struct {
	stmtBase
	Value Expr // nil for bare `return`
}

// MatchArm is one `pattern => body` arm (`else => body` for the wildcard)
// of a match expression.
type MatchArm struct {
	Pattern Expr // nil for the wildcard/default arm
	Body    Block
}

// MatchStmt is a `match` statement.
type MatchStmt struct {
	stmtBase
	Subject Expr
	Arms    []MatchArm
}

// PrivateBlockStmt is `private => body`, which allocates a nested arena
// scope (spec.md §6, §4.G).
type PrivateBlockStmt struct {
	stmtBase
	Body Block
}

// LockStmt is `lock (handle) => body`.
type LockStmt struct {
	stmtBase
	Handle Expr
	Body   Block
}

// SyncStmt is `sync (threads) => body`, joining spawned threads and
// promoting their results into the current arena.
type SyncStmt struct {
	stmtBase
	Threads []Expr
	Body    Block
}

// Modifier is a function's declared visibility/calling convention.
type Modifier int

const (
	ModPrivate Modifier = iota
	ModShared
	ModNative
)

// FnDeclStmt is a top-level or nested function declaration.
type FnDeclStmt struct {
	stmtBase
	Name       string
	Params     []Param
	ResultType *Type
	Body       Block
	Modifier   Modifier
	Receiver   *Param // non-nil for struct methods

	Interceptable   bool
	InterceptReason string
}

// StructDeclStmt declares a struct type.
type StructDeclStmt struct {
	stmtBase
	Name   string
	Fields []StructFieldDecl
	Static []StaticFieldDecl
	Flavor StructFlavor

	ResolvedType *Type
}

// StructFieldDecl is one field in a struct declaration's source form.
type StructFieldDecl struct {
	Name    string
	Type    *Type
	Default Expr
	CAlias  string
}

// StaticFieldDecl is a `static` field/constant on a struct.
type StaticFieldDecl struct {
	Name string
	Type *Type
	Init Expr
}

// ImportStmt is `import "path"`.
type ImportStmt struct {
	stmtBase
	Path string
}

// Module is an ordered list of top-level statements plus its source path
// (spec.md §3).
type Module struct {
	Path  string
	Stmts []Stmt
}
