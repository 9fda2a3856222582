package subst

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/set"
)

// Convenience wrappers that apply a substitution to a whole definition,
// rebuilding only the bound value. Each returns its input unchanged when the
// substitution had no effect.

// InUntypedDef applies a batched term substitution to an untyped definition.
func InUntypedDef(d *ast.UntypedDef, sub map[string]ast.UntypedTerm, unionFV set.Set[string]) *ast.UntypedDef {
	term := UntypedBatch(d.Term, sub, unionFV)
	if term == d.Term {
		return d
	}
	return &ast.UntypedDef{Name: d.Name, Term: term}
}

// InTypedDef applies a batched term substitution to a typed definition.
func InTypedDef(d *ast.TypedDef, sub map[string]ast.TypedTerm, unionFV set.Set[string]) *ast.TypedDef {
	term := TypedBatch(d.Term, sub, unionFV)
	if term == d.Term {
		return d
	}
	return &ast.TypedDef{Name: d.Name, Type: d.Type, Term: term}
}

// InPolyDef applies a batched term substitution to a polymorphic definition.
func InPolyDef(d *ast.PolyDef, sub map[string]ast.PolyTerm, unionFV set.Set[string]) *ast.PolyDef {
	term := PolyBatch(d.Term, sub, unionFV)
	if term == d.Term {
		return d
	}
	return &ast.PolyDef{Name: d.Name, Type: d.Type, Term: term, Rec: d.Rec}
}

// TypeInDefinition substitutes a type for a free type variable throughout
// whatever a definition binds: alias bodies, term annotations and declared
// types. Definitions without type content pass through unchanged.
func TypeInDefinition(d ast.Definition, name string, u ast.BaseType) ast.Definition {
	switch d := d.(type) {
	case *ast.TypeDef:
		ty := Type(d.Type, name, u)
		if ty == d.Type {
			return d
		}
		return &ast.TypeDef{Name: d.Name, Type: ty}
	case *ast.PolyDef:
		term := TypeInPoly(d.Term, name, u)
		declared := d.Type
		if declared != nil {
			declared = Type(declared, name, u)
		}
		if term == d.Term && declared == d.Type {
			return d
		}
		return &ast.PolyDef{Name: d.Name, Type: declared, Term: term, Rec: d.Rec}
	case *ast.TypedDef:
		term := TypeInTyped(d.Term, name, u)
		declared := d.Type
		if declared != nil {
			declared = Type(declared, name, u)
		}
		if term == d.Term && declared == d.Type {
			return d
		}
		return &ast.TypedDef{Name: d.Name, Type: declared, Term: term}
	default:
		return d
	}
}
