// Package freevars collects the free term and type variables of a term.
//
// Free-variable sets are computed bottom-up, so each AST node's result is
// independent of its context and can be memoised by node identity. The
// substitution engine preserves identity on unchanged subtrees, which keeps
// the cache valid across resolution passes without invalidation.
package freevars

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/set"
)

// Refs holds the free term and type names of a subtree.
type Refs struct {
	Terms set.Set[string]
	Types set.Set[string]
}

func emptyRefs() Refs {
	return Refs{Terms: set.NewSet[string](), Types: set.NewSet[string]()}
}

func (r Refs) clone() Refs {
	return Refs{Terms: r.Terms.Clone(), Types: r.Types.Clone()}
}

// IsEmpty reports whether the subtree has no free names at all.
func (r Refs) IsEmpty() bool {
	return r.Terms.Len() == 0 && r.Types.Len() == 0
}

// cache memoises per-node results by identity. The linker is single-threaded,
// so no locking is needed. Entries are canonical; Scan hands out clones so
// callers may mutate their result freely.
var cache = make(map[any]Refs)

// Scan returns the free term and type variables of a term at any level, or of
// a base type. The returned sets are owned by the caller.
func Scan(node any) Refs {
	return scan(node).clone()
}

// ScanType returns the free type variables of a base type.
func ScanType(t ast.BaseType) set.Set[string] {
	return scan(t).Types.Clone()
}

// Definition returns the external references of a definition: the free names
// of its value, plus the free type variables of a declared type where one is
// present. Declarations that bind no value scan empty.
func Definition(d ast.Definition) Refs {
	r := emptyRefs()
	switch d := d.(type) {
	case *ast.PolyDef:
		r = Scan(d.Term)
		if d.Type != nil {
			r.Types = r.Types.Union(scan(d.Type).Types)
		}
	case *ast.TypedDef:
		r = Scan(d.Term)
		if d.Type != nil {
			r.Types = r.Types.Union(scan(d.Type).Types)
		}
	case *ast.UntypedDef:
		r = Scan(d.Term)
	case *ast.CombinatorDef:
		r = Scan(d.Term)
	case *ast.TypeDef:
		r = Scan(d.Type)
	}
	return r
}

func scan(node any) Refs {
	if r, ok := cache[node]; ok {
		return r
	}

	r := emptyRefs()
	switch n := node.(type) {
	case *ast.PolyVar:
		r.Terms.Add(n.Name)
	case *ast.PolyAbs:
		body := scan(n.Body)
		r.Terms = body.Terms.Difference(set.FromSlice([]string{n.Param}))
		r.Types = body.Types.Union(scan(n.Ann).Types)
	case *ast.TyAbs:
		body := scan(n.Body)
		r.Terms = body.Terms.Clone()
		r.Types = body.Types.Difference(set.FromSlice([]string{n.Var}))
	case *ast.TyApp:
		term := scan(n.Term)
		r.Terms = term.Terms.Clone()
		r.Types = term.Types.Union(scan(n.Arg).Types)
	case *ast.PolyApp:
		r = union(scan(n.Fn), scan(n.Arg))

	case *ast.TypedVar:
		r.Terms.Add(n.Name)
	case *ast.TypedAbs:
		body := scan(n.Body)
		r.Terms = body.Terms.Difference(set.FromSlice([]string{n.Param}))
		r.Types = body.Types.Union(scan(n.Ann).Types)
	case *ast.TypedApp:
		r = union(scan(n.Fn), scan(n.Arg))

	case *ast.Var:
		r.Terms.Add(n.Name)
	case *ast.Lam:
		body := scan(n.Body)
		r.Terms = body.Terms.Difference(set.FromSlice([]string{n.Param}))
		r.Types = body.Types.Clone()
	case *ast.App:
		r = union(scan(n.Fn), scan(n.Arg))

	case *ast.Terminal:
		// Terminals contribute nothing.
	case *ast.SKIApp:
		// Combinator expressions are closed by construction, but walk them
		// anyway so the invariant is checked structurally.
		r = union(scan(n.Fn), scan(n.Arg))

	case *ast.TypeVar:
		r.Types.Add(n.Name)
	case *ast.Arrow:
		r = union(scan(n.Lft), scan(n.Rgt))
	case *ast.TypeApp:
		r = union(scan(n.Fn), scan(n.Arg))
	case *ast.Forall:
		body := scan(n.Body)
		r.Types = body.Types.Difference(set.FromSlice([]string{n.Var}))

	default:
		panic(fmt.Sprintf("freevars: unknown node %T", node))
	}

	cache[node] = r
	return r
}

func union(a, b Refs) Refs {
	return Refs{
		Terms: a.Terms.Union(b.Terms),
		Types: a.Types.Union(b.Types),
	}
}
