package ast

import "github.com/langc/langc/token"

// This file is the node-constructor library described in spec.md §4.C: each
// function takes a "location token" used for diagnostics and returns a
// fully-initialized node with every metadata field cleared to its defined
// default. Token values are copied (not aliased) into the node, which is
// Go's value-semantics equivalent of "tokens embedded in nodes are cloned
// into the arena so later buffer edits cannot corrupt them" — a Token here
// owns its own Text string and carries no pointer into a mutable buffer.

func newExprBase(tok token.Token) exprBase {
	return exprBase{tok: tok, resolvedType: TypeUnknown}
}

func NewIntLit(tok token.Token, value int64, suffix token.NumSuffix) *IntLit {
	return &IntLit{exprBase: newExprBase(tok), Value: value, Suffix: suffix}
}

func NewDoubleLit(tok token.Token, value float64, hadDecimal bool) *DoubleLit {
	return &DoubleLit{exprBase: newExprBase(tok), Value: value, HadDecimal: hadDecimal}
}

func NewBoolLit(tok token.Token, value bool) *BoolLit {
	return &BoolLit{exprBase: newExprBase(tok), Value: value}
}

func NewCharLit(tok token.Token, value byte) *CharLit {
	return &CharLit{exprBase: newExprBase(tok), Value: value}
}

func NewNilLit(tok token.Token) *NilLit {
	return &NilLit{exprBase: newExprBase(tok)}
}

func NewStringLit(tok token.Token, value string) *StringLit {
	return &StringLit{exprBase: newExprBase(tok), Value: value}
}

func NewInterpStringLit(tok token.Token, parts []InterpPart) *InterpStringLit {
	return &InterpStringLit{exprBase: newExprBase(tok), Parts: parts}
}

func NewIdent(tok token.Token, name string) *Ident {
	return &Ident{exprBase: newExprBase(tok), Name: name}
}

func NewBinaryExpr(tok token.Token, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: newExprBase(tok), Op: op, Left: left, Right: right}
}

func NewUnaryExpr(tok token.Token, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{exprBase: newExprBase(tok), Op: op, Operand: operand}
}

func NewIncDecExpr(tok token.Token, operand Expr, inc bool) *IncDecExpr {
	return &IncDecExpr{exprBase: newExprBase(tok), Operand: operand, Inc: inc}
}

func NewCallExpr(tok token.Token, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{exprBase: newExprBase(tok), Callee: callee, Args: args}
}

func NewMemberAccessExpr(tok token.Token, base Expr, field string) *MemberAccessExpr {
	return &MemberAccessExpr{exprBase: newExprBase(tok), Base: base, Field: field, FieldIndex: -1}
}

func NewIndexExpr(tok token.Token, base, index Expr) *IndexExpr {
	return &IndexExpr{exprBase: newExprBase(tok), Base: base, Index: index}
}

func NewSliceExpr(tok token.Token, base, start, end, step Expr) *SliceExpr {
	return &SliceExpr{exprBase: newExprBase(tok), Base: base, Start: start, End: end, Step: step}
}

func NewRangeExpr(tok token.Token, start, end Expr) *RangeExpr {
	return &RangeExpr{exprBase: newExprBase(tok), Start: start, End: end}
}

func NewSpreadExpr(tok token.Token, operand Expr) *SpreadExpr {
	return &SpreadExpr{exprBase: newExprBase(tok), Operand: operand}
}

func NewAsExpr(tok token.Token, operand Expr, target *Type, qual MemQualifier) *AsExpr {
	return &AsExpr{exprBase: newExprBase(tok), Operand: operand, Target: target, Qualifier: qual}
}

func NewIsExpr(tok token.Token, operand Expr, target *Type) *IsExpr {
	return &IsExpr{exprBase: newExprBase(tok), Operand: operand, Target: target}
}

func NewStructLiteralExpr(tok token.Token, name string, fields []FieldInitializer) *StructLiteralExpr {
	return &StructLiteralExpr{exprBase: newExprBase(tok), StructName: name, Fields: fields}
}

func NewLambdaExpr(tok token.Token, params []Param, result *Type, body []Stmt) *LambdaExpr {
	return &LambdaExpr{exprBase: newExprBase(tok), Params: params, ResultType: result, Body: body, LambdaID: -1}
}

func NewSizeofExpr(tok token.Token, target *Type) *SizeofExpr {
	return &SizeofExpr{exprBase: newExprBase(tok), Target: target}
}

func NewTypeofExpr(tok token.Token, operand Expr) *TypeofExpr {
	return &TypeofExpr{exprBase: newExprBase(tok), Operand: operand}
}

func NewVarDeclStmt(tok token.Token, kind DeclKind, name string, typ *Type, init Expr) *VarDeclStmt {
	return &VarDeclStmt{stmtBase: stmtBase{tok}, Kind: kind, Name: name, Type: typ, Init: init}
}

func NewAssignStmt(tok token.Token, target Expr, op AssignOp, value Expr) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{tok}, Target: target, Op: op, Value: value}
}

func NewExprStmt(tok token.Token, expr Expr) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{tok}, Expr: expr}
}

func NewIfStmt(tok token.Token, cond Expr, then Block, els *Block) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{tok}, Cond: cond, Then: then, Else: els}
}

func NewWhileStmt(tok token.Token, cond Expr, body Block) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{tok}, Cond: cond, Body: body}
}

func NewForInStmt(tok token.Token, varName string, iterable Expr, body Block) *ForInStmt {
	return &ForInStmt{stmtBase: stmtBase{tok}, Var: varName, Iterable: iterable, Body: body}
}

func NewBreakStmt(tok token.Token) *BreakStmt       { return &BreakStmt{stmtBase{tok}} }
func NewContinueStmt(tok token.Token) *ContinueStmt { return &ContinueStmt{stmtBase{tok}} }

func NewReturnStmt(tok token.Token, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{tok}, Value: value}
}

func NewMatchStmt(tok token.Token, subject Expr, arms []MatchArm) *MatchStmt {
	return &MatchStmt{stmtBase: stmtBase{tok}, Subject: subject, Arms: arms}
}

func NewPrivateBlockStmt(tok token.Token, body Block) *PrivateBlockStmt {
	return &PrivateBlockStmt{stmtBase: stmtBase{tok}, Body: body}
}

func NewLockStmt(tok token.Token, handle Expr, body Block) *LockStmt {
	return &LockStmt{stmtBase: stmtBase{tok}, Handle: handle, Body: body}
}

func NewSyncStmt(tok token.Token, threads []Expr, body Block) *SyncStmt {
	return &SyncStmt{stmtBase: stmtBase{tok}, Threads: threads, Body: body}
}

func NewFnDeclStmt(tok token.Token, name string, params []Param, result *Type, body Block, mod Modifier) *FnDeclStmt {
	return &FnDeclStmt{stmtBase: stmtBase{tok}, Name: name, Params: params, ResultType: result, Body: body, Modifier: mod}
}

func NewStructDeclStmt(tok token.Token, name string, fields []StructFieldDecl, flavor StructFlavor) *StructDeclStmt {
	return &StructDeclStmt{stmtBase: stmtBase{tok}, Name: name, Fields: fields, Flavor: flavor}
}

func NewImportStmt(tok token.Token, path string) *ImportStmt {
	return &ImportStmt{stmtBase: stmtBase{tok}, Path: path}
}
