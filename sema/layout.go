package sema

import (
	"iter"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/internal/toposort"
)

// registerStruct installs a forward-declared StructType for decl, with
// fields left unresolved, so later passes (including other structs' field
// types) can reference it by name before its own layout is computed.
func (c *Checker) registerStruct(decl *ast.StructDeclStmt) {
	if _, exists := c.structs[decl.Name]; exists {
		c.errorf(decl, "struct %q already declared", decl.Name)
		return
	}
	st := &ast.StructType{Name: decl.Name, Flavor: decl.Flavor}
	c.structs[decl.Name] = st
	decl.ResolvedType = ast.NewStruct(st)
	c.syms.DeclareType(decl.Name, decl.ResolvedType)
}

// layoutStructs resolves every struct's field types and computes its byte
// layout (spec.md §4.E.2). A struct with a field of a native struct type
// embedded by value is laid out after that native struct; only native
// struct fields count as layout dependencies here.
func (c *Checker) layoutStructs(mod *ast.Module) {
	var decls []*ast.StructDeclStmt
	for _, stmt := range mod.Stmts {
		if s, ok := stmt.(*ast.StructDeclStmt); ok {
			decls = append(decls, s)
		}
	}
	byName := make(map[string]*ast.StructDeclStmt, len(decls))
	for _, d := range decls {
		byName[d.Name] = d
	}

	deps := func(d *ast.StructDeclStmt) iter.Seq[*ast.StructDeclStmt] {
		return func(yield func(*ast.StructDeclStmt) bool) {
			for _, f := range d.Fields {
				dep := nativeByValueDep(f.Type, byName)
				if dep != nil && !yield(dep) {
					return
				}
			}
		}
	}

	for d := range toposort.Sort(decls, func(d *ast.StructDeclStmt) string { return d.Name }, deps) {
		c.layoutOne(d)
	}
}

// nativeByValueDep returns the struct declaration t embeds by value (i.e. a
// layout dependency), or nil if t only embeds an 8-byte handle regardless
// of the target's own layout. The parser cannot resolve a named type to its
// declaration (parseType leaves a bare-name stub with Flavor always
// StructRegular), so nativeness is decided by looking the name up among
// this module's own struct declarations rather than trusting the stub's
// Flavor field.
func nativeByValueDep(t *ast.Type, byName map[string]*ast.StructDeclStmt) *ast.StructDeclStmt {
	if t == nil || t.Kind != ast.KindStruct || t.Struct == nil {
		return nil
	}
	dep, ok := byName[t.Struct.Name]
	if !ok || dep.Flavor != ast.StructNative {
		return nil
	}
	return dep
}

func (c *Checker) layoutOne(decl *ast.StructDeclStmt) {
	st := c.structs[decl.Name]
	if st == nil {
		return
	}
	fields := make([]*ast.StructField, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		ftyp := c.resolveType(f.Type)
		fields = append(fields, &ast.StructField{
			Name:    f.Name,
			Type:    ftyp,
			Default: f.Default,
			CAlias:  f.CAlias,
		})
	}
	st.Fields = fields

	packed := decl.Flavor == ast.StructPacked
	offset := 0
	maxAlign := 1
	for _, f := range fields {
		size := fieldStorageSize(f.Type)
		align := 1
		if packed {
			f.Offset = offset
		} else {
			align = fieldStorageAlign(f.Type)
			offset = roundUp(offset, align)
			f.Offset = offset
			if align > maxAlign {
				maxAlign = align
			}
		}
		offset += size
	}
	if packed {
		st.Alignment = 1
		st.Size = offset
	} else {
		st.Alignment = maxAlign
		st.Size = roundUp(offset, maxAlign)
	}
}

// fieldStorageSize returns the number of bytes a field of type t consumes
// inside its owning struct's memory: 8 for any reference-like type (the
// handle is stored inline, per ast.Type.IsReferenceLike), the primitive
// width otherwise, or (for a native struct embedded by value) its own
// already-computed Size.
func fieldStorageSize(t *ast.Type) int {
	if t.IsReferenceLike() {
		return 8
	}
	return t.Size()
}

func fieldStorageAlign(t *ast.Type) int {
	if t.IsReferenceLike() {
		return 8
	}
	return t.Align()
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}
