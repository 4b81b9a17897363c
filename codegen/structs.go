package codegen

import (
	"fmt"
	"iter"
	"strings"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/internal/toposort"
)

// emitStructs writes every struct declaration in mod, ordered so a
// struct's field types are always defined before the struct itself
// (toposort.Sort, same dependency-ordering tool protocompile uses for its
// descriptor graph). Handle-bearing structs additionally get a
// `__copy_<Name>__`/`__free_<Name>__` callback pair, the Go-side
// equivalent of which is runtime.CopyFunc/runtime.FreeFunc.
func (g *Generator) emitStructs(decls []*ast.StructDeclStmt) {
	byName := make(map[string]*ast.StructDeclStmt, len(decls))
	for _, d := range decls {
		byName[d.Name] = d
	}

	ordered := toposort.Sort(decls,
		func(d *ast.StructDeclStmt) string { return d.Name },
		func(d *ast.StructDeclStmt) iter.Seq[*ast.StructDeclStmt] {
			return func(yield func(*ast.StructDeclStmt) bool) {
				for _, f := range d.Fields {
					if f.Type != nil && f.Type.Kind == ast.KindStruct && f.Type.Struct != nil {
						if dep, ok := byName[f.Type.Struct.Name]; ok && dep != d {
							if !yield(dep) {
								return
							}
						}
					}
				}
			}
		},
	)

	for d := range ordered {
		g.emitStruct(d)
	}
}

func (g *Generator) emitStruct(d *ast.StructDeclStmt) {
	if d.Flavor == ast.StructNative {
		// Native structs are declared by whatever header the `native`
		// annotation names; nothing to emit here but the static fields.
		g.emitStaticFields(d)
		return
	}

	name := Mangle(d.Name)
	tag := "struct " + name
	if d.Flavor == ast.StructPacked {
		fmt.Fprintf(&g.buf, "#pragma pack(push, 1)\n")
	}
	fmt.Fprintf(&g.buf, "%s {\n", tag)
	for _, f := range d.Fields {
		fmt.Fprintf(&g.buf, "    %s %s;\n", CType(f.Type), sanitizeLabel(f.Name))
	}
	fmt.Fprintf(&g.buf, "};\n")
	if d.Flavor == ast.StructPacked {
		fmt.Fprintf(&g.buf, "#pragma pack(pop)\n")
	}

	if d.ResolvedType != nil && d.ResolvedType.IsReferenceLike() {
		g.emitStructCallbacks(d, name)
	}
	g.emitStaticFields(d)
}

func (g *Generator) emitStaticFields(d *ast.StructDeclStmt) {
	for _, sf := range d.Static {
		fmt.Fprintf(&g.buf, "static %s %s_%s", CType(sf.Type), Mangle(d.Name), sanitizeLabel(sf.Name))
		if sf.Init != nil {
			fmt.Fprintf(&g.buf, " = %s", g.expr(sf.Init))
		}
		fmt.Fprintf(&g.buf, ";\n")
	}
}

// emitStructCallbacks emits the promotion pair every handle-bearing struct
// needs so Promote's generated counterpart can deep-copy and release it
// (code_gen_util_callbacks.c): copy recurses field-by-field into the
// destination arena, free releases any handle fields the struct itself
// owns before the struct's own slot is reclaimed.
func (g *Generator) emitStructCallbacks(d *ast.StructDeclStmt, mangled string) {
	copyName := CopyCallbackName(d.Name)
	freeName := FreeCallbackName(d.Name)

	var copyBody strings.Builder
	var freeBody strings.Builder
	for _, f := range d.Fields {
		if f.Type == nil || !f.Type.IsReferenceLike() {
			continue
		}
		field := sanitizeLabel(f.Name)
		fmt.Fprintf(&copyBody, "    dst.%s = rt_promote(dest_arena, src.%s);\n", field, field)
		fmt.Fprintf(&freeBody, "    rt_arena_free(value->%s);\n", field)
	}

	fmt.Fprintf(&g.buf, "struct %s %s(RtArena *dest_arena, struct %s src) {\n", mangled, copyName, mangled)
	fmt.Fprintf(&g.buf, "    struct %s dst = src;\n", mangled)
	g.buf.WriteString(copyBody.String())
	fmt.Fprintf(&g.buf, "    return dst;\n}\n")

	fmt.Fprintf(&g.buf, "void %s(struct %s *value) {\n", freeName, mangled)
	g.buf.WriteString(freeBody.String())
	fmt.Fprintf(&g.buf, "}\n")
}
