package runtime

import (
	"fmt"
	"sync"

	"github.com/langc/langc/ast"
)

// Interp is a tree-walking interpreter over an optimized, type-checked
// ast.Module, backing `cmd/langc run` (see the package doc). It targets
// the same Arena/Handle/Any/Interceptors/Thread surface the generated C
// would link against, so running a program this way exercises the same
// runtime machinery codegen's output does — only the "front end" that
// drives it differs.
//
// Reference-like values (spec.md §3: string, array, struct, function,
// opaque) are always represented as a Handle into the current arena;
// primitives are plain Go int64/float64/bool/byte values; `any`-typed
// values are runtime.Any. Array contents are []any, struct contents are
// map[string]any keyed by field name.
type Interp struct {
	fns     map[string]*ast.FnDeclStmt
	structs map[string]*ast.StructDeclStmt
	globals map[string]any

	stdio        *Stdio
	interceptors *Interceptors

	mu      sync.Mutex
	mutexes map[Handle]*sync.Mutex
}

// NewInterp registers every top-level declaration in mod and eagerly
// evaluates static struct fields and module-scope `var`/`val`
// initializers, the latter into globals.
func NewInterp(mod *ast.Module, stdio *Stdio) *Interp {
	it := &Interp{
		fns:          make(map[string]*ast.FnDeclStmt),
		structs:      make(map[string]*ast.StructDeclStmt),
		globals:      make(map[string]any),
		stdio:        stdio,
		interceptors: NewInterceptors(),
		mutexes:      make(map[Handle]*sync.Mutex),
	}
	root := NewArena(nil)
	for _, s := range mod.Stmts {
		switch d := s.(type) {
		case *ast.FnDeclStmt:
			it.fns[d.Name] = d
		case *ast.StructDeclStmt:
			it.structs[d.Name] = d
			env := newEnv(nil, root, it)
			for _, sf := range d.Static {
				if sf.Init != nil {
					it.globals[d.Name+"."+sf.Name] = it.evalExpr(sf.Init, env)
				}
			}
		case *ast.VarDeclStmt:
			env := newEnv(nil, root, it)
			if d.Init != nil {
				it.globals[d.Name] = it.evalExpr(d.Init, env)
			}
		}
	}
	return it
}

// Interceptors exposes the interpreter's interception registry so a host
// (cmd/langc, a test) can Register handlers before Run.
func (it *Interp) Interceptors() *Interceptors { return it.interceptors }

// Run invokes the named top-level function (conventionally "main") with
// args on a fresh root arena and returns its result.
func (it *Interp) Run(name string, args []any) (any, error) {
	fn, ok := it.fns[name]
	if !ok {
		return nil, fmt.Errorf("runtime: no function named %q", name)
	}
	return it.callFn(fn, args, nil)
}

// ---- environments and control flow ----

type env struct {
	vars   map[string]any
	parent *env
	arena  *Arena
	it     *Interp
}

func newEnv(parent *env, arena *Arena, it *Interp) *env {
	return &env{vars: make(map[string]any), parent: parent, arena: arena, it: it}
}

func (e *env) declare(name string, v any) { e.vars[name] = v }

func (e *env) owner(name string) *env {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			return s
		}
	}
	return nil
}

func (e *env) get(name string) (any, bool) {
	if s := e.owner(name); s != nil {
		return s.vars[name], true
	}
	if v, ok := e.it.globals[name]; ok {
		return v, true
	}
	return nil, false
}

// set stores value for an already-declared name, promoting a handle-
// bearing value into the declaring scope's arena if it was produced in a
// deeper one (e.g. assigned out of a `private` block, spec.md §4.E.4).
func (e *env) set(name string, value any) {
	s := e.owner(name)
	if s == nil {
		e.it.globals[name] = value
		return
	}
	s.vars[name] = promoteValue(s.arena, value)
}

// ctrlKind tags how a statement's execution finished.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

type ctrl struct {
	kind  ctrlKind
	value any
}

var noneCtrl = ctrl{kind: ctrlNone}

// promoteValue deep-copies a reference-like value into dest if it isn't
// already resident there, following the same Handle/Any cases thread.Sync
// uses to promote a joined thread's result.
func promoteValue(dest *Arena, v any) any {
	switch x := v.(type) {
	case Handle:
		h, err := Promote(dest, x)
		if err != nil {
			return x
		}
		return h
	case Any:
		return deepCopyAny(dest, x)
	default:
		return v
	}
}

// ---- calling functions ----

func (it *Interp) callFn(fn *ast.FnDeclStmt, args []any, callerArena *Arena) (any, error) {
	a := NewArena(nil)
	e := newEnv(nil, a, it)
	for i, p := range fn.Params {
		if i < len(args) {
			e.declare(p.Name, args[i])
		}
	}
	c := it.execBlock(fn.Body, e)
	var result any
	if c.kind == ctrlReturn {
		result = c.value
	}
	if callerArena != nil {
		result = promoteValue(callerArena, result)
	}
	a.Destroy()
	return result, nil
}

// call dispatches a CallExpr: a direct reference to a declared function,
// the `spawn` pseudo-call, or an indirect call through a closure Handle.
func (it *Interp) call(callExpr *ast.CallExpr, e *env) any {
	if id, ok := callExpr.Callee.(*ast.Ident); ok {
		if id.Name == "spawn" {
			return it.evalSpawn(callExpr, e)
		}
		if fn, ok := it.fns[id.Name]; ok {
			args := make([]any, len(callExpr.Args))
			for i, a := range callExpr.Args {
				args[i] = it.evalExpr(a, e)
			}
			if callExpr.Interceptable && it.interceptors.Active() {
				return it.callIntercepted(fn, id.Name, args, e.arena)
			}
			v, _ := it.callFn(fn, args, e.arena)
			return v
		}
	}
	// Indirect call through a closure value.
	calleeVal := it.evalExpr(callExpr.Callee, e)
	h, ok := calleeVal.(Handle)
	if !ok {
		panic(fmt.Sprintf("runtime: cannot call non-function value %T", calleeVal))
	}
	raw, err := e.arena.Get(h)
	if err != nil {
		panic(err)
	}
	cl := raw.(closureValue)
	args := make([]any, len(callExpr.Args))
	for i, a := range callExpr.Args {
		args[i] = it.evalExpr(a, e)
	}
	return it.callClosure(cl, args, e.arena)
}

// callIntercepted boxes args through the interception protocol before
// falling through to the plain call, matching codegen's wrapping of every
// Interceptable call site (spec.md §4.E.7 / §9).
func (it *Interp) callIntercepted(fn *ast.FnDeclStmt, name string, args []any, callerArena *Arena) any {
	boxed := make([]Any, len(args))
	for i, a := range args {
		boxed[i] = toAny(a, fn.Params, i)
	}
	result := it.interceptors.CallIntercepted(callerArena, name, boxed, func(finalArgs []Any) Any {
		plain := make([]any, len(finalArgs))
		for i, a := range finalArgs {
			plain[i] = fromAny(a)
		}
		v, _ := it.callFn(fn, plain, callerArena)
		return toAny(v, []ast.Param{{Type: fn.ResultType}}, 0)
	})
	return fromAny(result)
}

func toAny(v any, params []ast.Param, i int) Any {
	var kind ast.Kind
	if i < len(params) && params[i].Type != nil {
		kind = params[i].Type.Kind
	}
	switch x := v.(type) {
	case int64:
		return BoxInt64(tagForKind(kind), x)
	case float64:
		return BoxFloat64(tagForKind(kind), x)
	case bool:
		return BoxBool(x)
	case byte:
		return BoxChar(x)
	case Handle:
		return BoxHandle(tagForKind(kind), x, "")
	case Any:
		return x
	default:
		return Any{}
	}
}

func fromAny(a Any) any {
	switch a.Tag {
	case TagBool:
		v, _ := a.UnboxBool()
		return v
	case TagFloat, TagDouble:
		v, _ := a.UnboxFloat64()
		return v
	case TagChar, TagByte:
		v, _ := a.UnboxInt64()
		return byte(v)
	case TagInt, TagLong, TagInt32, TagUint, TagUint32:
		v, _ := a.UnboxInt64()
		return v
	case TagNil:
		return nil
	default:
		if a.hasHandle {
			h, _ := a.UnboxHandle(a.Tag, a.StructName)
			return h
		}
		return nil
	}
}

func tagForKind(k ast.Kind) TypeTag {
	switch k {
	case ast.KindInt:
		return TagInt
	case ast.KindLong:
		return TagLong
	case ast.KindInt32:
		return TagInt32
	case ast.KindUint:
		return TagUint
	case ast.KindUint32:
		return TagUint32
	case ast.KindFloat:
		return TagFloat
	case ast.KindDouble:
		return TagDouble
	case ast.KindBool:
		return TagBool
	case ast.KindByte:
		return TagByte
	case ast.KindChar:
		return TagChar
	case ast.KindString:
		return TagString
	case ast.KindArray:
		return TagArray
	case ast.KindStruct:
		return TagStruct
	case ast.KindFunction:
		return TagFunction
	case ast.KindOpaque:
		return TagOpaque
	default:
		return TagNil
	}
}

// closureValue is what a LambdaExpr (or a bare function-name reference
// used as a value) evaluates to: the code to run plus its captured
// environment, the Go analogue of the `{fn_ptr, arena_ptr,
// captured_env_ptr}` triple codegen emits for closures.
type closureValue struct {
	lambda   *ast.LambdaExpr
	fn       *ast.FnDeclStmt
	captured map[string]any
}

func closureCopyCB(dest *Arena, value any) any {
	cl := value.(closureValue)
	captured := make(map[string]any, len(cl.captured))
	for k, v := range cl.captured {
		captured[k] = promoteValue(dest, v)
	}
	return closureValue{lambda: cl.lambda, fn: cl.fn, captured: captured}
}

func (it *Interp) callClosure(cl closureValue, args []any, callerArena *Arena) any {
	if cl.fn != nil {
		v, _ := it.callFn(cl.fn, args, callerArena)
		return v
	}
	a := NewArena(nil)
	e := newEnv(nil, a, it)
	for k, v := range cl.captured {
		e.declare(k, v)
	}
	for i, p := range cl.lambda.Params {
		if i < len(args) {
			e.declare(p.Name, args[i])
		}
	}
	c := it.execStmts(cl.lambda.Body, e)
	var result any
	if c.kind == ctrlReturn {
		result = c.value
	}
	result = promoteValue(callerArena, result)
	a.Destroy()
	return result
}

// evalSpawn runs the spawn target on a brand-new root arena, per spec.md
// §6: a spawned thread's arena is not linked as a parent to the spawner's.
// It assumes the shape sema/escape.go's checkEscapeAcrossThread implies:
// call.Args[0] names the worker function, and every remaining argument is
// passed through to it — the same args the escape-analysis pass marks as
// crossing the thread boundary.
func (it *Interp) evalSpawn(callExpr *ast.CallExpr, e *env) any {
	if len(callExpr.Args) == 0 {
		panic("runtime: spawn requires a function argument")
	}
	id, ok := callExpr.Args[0].(*ast.Ident)
	if !ok {
		panic("runtime: spawn's first argument must name a function")
	}
	fn, ok := it.fns[id.Name]
	if !ok {
		panic(fmt.Sprintf("runtime: spawn: undefined function %q", id.Name))
	}
	args := make([]any, 0, len(callExpr.Args)-1)
	for _, a := range callExpr.Args[1:] {
		args = append(args, it.evalExpr(a, e))
	}
	th := Spawn(func(arena *Arena) any {
		v, _ := it.callFn(fn, args, nil)
		return v
	})
	return BoxHandle(TagOpaque, e.arena.Alloc(th, nil, nil), "")
}

// ---- statement execution ----

func (it *Interp) execBlock(b ast.Block, e *env) ctrl {
	inner := newEnv(e, e.arena, it)
	return it.execStmts(b.Stmts, inner)
}

func (it *Interp) execStmts(stmts []ast.Stmt, e *env) ctrl {
	for _, s := range stmts {
		if c := it.execStmt(s, e); c.kind != ctrlNone {
			return c
		}
	}
	return noneCtrl
}

func (it *Interp) execStmt(s ast.Stmt, e *env) ctrl {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		var v any
		if st.Init != nil {
			v = it.evalExpr(st.Init, e)
		}
		e.declare(st.Name, v)
	case *ast.AssignStmt:
		it.execAssign(st, e)
	case *ast.ExprStmt:
		it.evalExpr(st.Expr, e)
	case *ast.IfStmt:
		if truthy(it.evalExpr(st.Cond, e)) {
			return it.execBlock(st.Then, e)
		} else if st.Else != nil {
			return it.execBlock(*st.Else, e)
		}
	case *ast.WhileStmt:
		for truthy(it.evalExpr(st.Cond, e)) {
			c := it.execBlock(st.Body, e)
			if c.kind == ctrlBreak {
				break
			}
			if c.kind == ctrlReturn {
				return c
			}
		}
	case *ast.ForInStmt:
		return it.execForIn(st, e)
	case *ast.BreakStmt:
		return ctrl{kind: ctrlBreak}
	case *ast.ContinueStmt:
		return ctrl{kind: ctrlContinue}
	case *ast.ReturnStmt:
		var v any
		if st.Value != nil {
			v = it.evalExpr(st.Value, e)
		}
		return ctrl{kind: ctrlReturn, value: v}
	case *ast.MatchStmt:
		return it.execMatch(st, e)
	case *ast.PrivateBlockStmt:
		child := NewArena(e.arena)
		inner := newEnv(e, child, it)
		c := it.execStmts(st.Body.Stmts, inner)
		if c.kind == ctrlReturn {
			c.value = promoteValue(e.arena, c.value)
		}
		child.Destroy()
		return c
	case *ast.LockStmt:
		m := it.mutexFor(it.evalExpr(st.Handle, e))
		m.Lock()
		defer m.Unlock()
		return it.execBlock(st.Body, e)
	case *ast.SyncStmt:
		return it.execSync(st, e)
	}
	return noneCtrl
}

func (it *Interp) execAssign(st *ast.AssignStmt, e *env) {
	value := it.evalExpr(st.Value, e)
	if st.Op != ast.AssignSet {
		cur := it.evalExpr(st.Target, e)
		value = applyCompound(st.Op, cur, value, st.Target.Type())
	}
	switch target := st.Target.(type) {
	case *ast.Ident:
		e.set(target.Name, value)
	case *ast.MemberAccessExpr:
		baseH := it.evalExpr(target.Base, e).(Handle)
		raw, err := baseH.arena.Get(baseH)
		if err != nil {
			panic(err)
		}
		fields := raw.(map[string]any)
		fields[target.Field] = promoteValue(baseH.arena, value)
	case *ast.IndexExpr:
		baseH := it.evalExpr(target.Base, e).(Handle)
		idx := it.evalExpr(target.Index, e).(int64)
		raw, err := baseH.arena.Get(baseH)
		if err != nil {
			panic(err)
		}
		arr := raw.([]any)
		arr[idx] = promoteValue(baseH.arena, value)
	default:
		panic(fmt.Sprintf("runtime: unsupported assignment target %T", st.Target))
	}
}

func (it *Interp) execForIn(st *ast.ForInStmt, e *env) ctrl {
	iter := it.evalExpr(st.Iterable, e)
	items := it.iterate(iter)
	for _, item := range items {
		inner := newEnv(e, e.arena, it)
		inner.declare(st.Var, item)
		c := it.execStmts(st.Body.Stmts, inner)
		if c.kind == ctrlBreak {
			break
		}
		if c.kind == ctrlReturn {
			return c
		}
	}
	return noneCtrl
}

func (it *Interp) iterate(v any) []any {
	switch x := v.(type) {
	case rangeValue:
		var out []any
		if x.start <= x.end {
			for i := x.start; i < x.end; i++ {
				out = append(out, i)
			}
		}
		return out
	case Handle:
		raw, err := x.arena.Get(x)
		if err != nil {
			panic(err)
		}
		if arr, ok := raw.([]any); ok {
			return arr
		}
		panic("runtime: value is not iterable")
	default:
		panic(fmt.Sprintf("runtime: value of type %T is not iterable", v))
	}
}

func (it *Interp) execMatch(st *ast.MatchStmt, e *env) ctrl {
	subject := it.evalExpr(st.Subject, e)
	for _, arm := range st.Arms {
		if arm.Pattern == nil || valuesEqual(subject, it.evalExpr(arm.Pattern, e)) {
			return it.execBlock(arm.Body, e)
		}
	}
	return noneCtrl
}

// execSync joins every thread named by st.Threads, promoting each one's
// result into e.arena. When a thread operand is a plain identifier (the
// common `var t = spawn(...)` shape, per spec.md's worked example in §3),
// the variable is rebound to the promoted result so st.Body can read it.
func (it *Interp) execSync(st *ast.SyncStmt, e *env) ctrl {
	for _, texpr := range st.Threads {
		v := it.evalExpr(texpr, e)
		a, ok := v.(Any)
		if !ok || !a.hasHandle {
			panic("runtime: sync operand is not a thread handle")
		}
		h, err := a.UnboxHandle(TagOpaque, "")
		if err != nil {
			panic(err)
		}
		raw, err := h.arena.Get(h)
		if err != nil {
			panic(err)
		}
		result, err := Sync(e.arena, raw.(*Thread))
		if err != nil {
			panic(err)
		}
		if id, ok := texpr.(*ast.Ident); ok {
			e.set(id.Name, result)
		}
	}
	return it.execBlock(st.Body, e)
}

func (it *Interp) mutexFor(v any) *sync.Mutex {
	h, ok := v.(Handle)
	if !ok {
		if a, ok2 := v.(Any); ok2 && a.hasHandle {
			h, _ = a.UnboxHandle(a.Tag, a.StructName)
		}
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	if m, ok := it.mutexes[h]; ok {
		return m
	}
	m := &sync.Mutex{}
	it.mutexes[h] = m
	return m
}

type rangeValue struct{ start, end int64 }

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}
