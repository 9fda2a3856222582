package object

import (
	"testing"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/diag"
)

func TestAssemble(t *testing.T) {
	defs := []ast.Definition{
		&ast.ModuleDecl{Name: "main"},
		&ast.ImportDecl{From: "prelude", Name: "zero"},
		&ast.UntypedDef{Name: "main", Term: &ast.Var{Name: "zero"}},
		&ast.ExportDecl{Name: "main"},
	}
	o, err := Assemble(defs)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if o.Module != "main" {
		t.Errorf("module = %q, want main", o.Module)
	}
	if len(o.Imports) != 1 || o.Imports[0].From != "prelude" {
		t.Errorf("imports = %v", o.Imports)
	}
	if len(o.Exports) != 1 || o.Exports[0] != "main" {
		t.Errorf("exports = %v", o.Exports)
	}
}

func TestAssembleErrors(t *testing.T) {
	id := &ast.UntypedDef{Name: "id", Term: &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}}}
	tests := []struct {
		name string
		defs []ast.Definition
		code string
	}{
		{
			name: "missing module declaration",
			defs: []ast.Definition{id},
			code: diag.DuplicateDefinition,
		},
		{
			name: "duplicate definition",
			defs: []ast.Definition{&ast.ModuleDecl{Name: "m"}, id, id},
			code: diag.DuplicateDefinition,
		},
		{
			name: "export of undefined name",
			defs: []ast.Definition{&ast.ModuleDecl{Name: "m"}, &ast.ExportDecl{Name: "ghost"}},
			code: diag.NoSuchSymbol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.defs)
			if err == nil {
				t.Fatalf("Assemble() succeeded, want %s", tt.code)
			}
			if diag.CodeOf(err) != tt.code {
				t.Errorf("code = %s, want %s (%v)", diag.CodeOf(err), tt.code, err)
			}
		})
	}
}

func TestAssembleExportsDataConstructors(t *testing.T) {
	defs := []ast.Definition{
		&ast.ModuleDecl{Name: "m"},
		&ast.DataDef{Name: "Maybe", TypeParams: []string{"A"}, Constructors: []ast.Constructor{
			{Name: "Nothing"},
			{Name: "Just", Fields: []ast.BaseType{&ast.TypeVar{Name: "A"}}},
		}},
		&ast.ExportDecl{Name: "Just"},
	}
	o, err := Assemble(defs)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if len(o.Exports) != 1 || o.Exports[0] != "Just" {
		t.Errorf("exports = %v, want [Just]", o.Exports)
	}
}
