// Package symtab implements the scoped symbol table used by sema
// (spec.md §4.D). Scopes nest lexically; lookup searches outward from the
// innermost scope, and each declared symbol records the scope depth at
// which it was declared so escape analysis can compare a use site's depth
// against it.
package symtab

import (
	"fmt"

	"github.com/langc/langc/ast"
)

// Kind distinguishes what a Symbol names.
type Kind int

const (
	SymVar Kind = iota
	SymVal
	SymParam
	SymFunc
	SymStruct
)

// Symbol is one entry in the table: a name bound to a type at a given
// scope depth.
type Symbol struct {
	Name  string
	Kind  Kind
	Type  *ast.Type
	Depth int

	// Decl points back at the declaring node, used by sema to report
	// "declared here" on conflicting redeclaration.
	Decl ast.Node
}

type scope struct {
	symbols map[string]*Symbol
	types   map[string]*ast.Type

	// arenaDepth tracks how many nested private{} blocks (child arenas)
	// are open at this scope, per spec.md §4.D ("arena_depth").
	arenaDepth int

	// loopCounterSet holds the names of for-in loop variables sema has
	// proven non-negative (see IsNonNegative); codegen does not consult it.
	loopCounterSet map[string]bool

	// fnModifier is the modifier of the function whose body this scope is
	// part of (private/shared/native); nested scopes inherit it via the
	// stack rather than storing it per-scope.
	fnModifier ast.Modifier
	hasFn      bool
}

// Table is a stack of lexical scopes.
type Table struct {
	scopes []*scope
}

// New returns a table with a single global scope.
func New() *Table {
	t := &Table{}
	t.EnterScope()
	return t
}

// EnterScope pushes a new, empty scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, &scope{
		symbols:        make(map[string]*Symbol),
		types:          make(map[string]*ast.Type),
		loopCounterSet: make(map[string]bool),
	})
}

// LeaveScope pops the innermost scope. It panics if called with no open
// scope beyond the global one, since that indicates a bug in the caller's
// scope bracketing rather than a recoverable compile error.
func (t *Table) LeaveScope() {
	if len(t.scopes) <= 1 {
		panic("symtab: LeaveScope with no open scope")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the current scope nesting depth (0 is global).
func (t *Table) Depth() int { return len(t.scopes) - 1 }

// Declare binds name in the innermost scope. It returns an error if name is
// already bound in that same scope (redeclaration is only an error within
// one scope; shadowing an outer scope's name is allowed).
func (t *Table) Declare(name string, kind Kind, typ *ast.Type, decl ast.Node) error {
	top := t.scopes[len(t.scopes)-1]
	if _, ok := top.symbols[name]; ok {
		return fmt.Errorf("%q already declared in this scope", name)
	}
	top.symbols[name] = &Symbol{Name: name, Kind: kind, Type: typ, Depth: t.Depth(), Decl: decl}
	return nil
}

// Lookup searches scopes from innermost to outermost.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// DeclareType binds a named type (struct declaration) in the innermost
// scope.
func (t *Table) DeclareType(name string, typ *ast.Type) {
	top := t.scopes[len(t.scopes)-1]
	top.types[name] = typ
}

// LookupType searches scopes from innermost to outermost for a named type.
func (t *Table) LookupType(name string) (*ast.Type, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if typ, ok := t.scopes[i].types[name]; ok {
			return typ, true
		}
	}
	return nil, false
}

// EnterArena marks that a child arena (private{} block) has opened at the
// current scope.
func (t *Table) EnterArena() { t.scopes[len(t.scopes)-1].arenaDepth++ }

// ArenaDepth returns how many nested child arenas are open at the current
// scope.
func (t *Table) ArenaDepth() int { return t.scopes[len(t.scopes)-1].arenaDepth }

// MarkNonNegative records that a for-in loop variable has been proven
// never to go negative.
func (t *Table) MarkNonNegative(name string) {
	t.scopes[len(t.scopes)-1].loopCounterSet[name] = true
}

// IsNonNegative reports whether name was marked non-negative in any
// enclosing scope.
func (t *Table) IsNonNegative(name string) bool {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if t.scopes[i].loopCounterSet[name] {
			return true
		}
	}
	return false
}

// PushFunc records the modifier of the function whose body is about to be
// checked, so nested scopes can ask CurrentFuncModifier without threading
// it through every call.
func (t *Table) PushFunc(mod ast.Modifier) {
	top := t.scopes[len(t.scopes)-1]
	top.fnModifier = mod
	top.hasFn = true
}

// CurrentFuncModifier returns the modifier of the innermost enclosing
// function, and false if no function scope is open (e.g. at the module's
// top level).
func (t *Table) CurrentFuncModifier() (ast.Modifier, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if t.scopes[i].hasFn {
			return t.scopes[i].fnModifier, true
		}
	}
	return 0, false
}
