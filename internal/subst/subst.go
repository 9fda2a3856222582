// Package subst implements capture-avoiding substitution over all four term
// levels and over base types.
//
// The engine is total: it never fails, and it returns the original subtree
// whenever a traversal produced no change. That identity preservation is
// load-bearing — the resolver's fixpoint detection and the free-variable
// cache both key on node identity.
//
// Hygiene at an abstraction binding x while substituting σ:
//  1. x ∈ dom(σ): the binder shadows the mapping; recurse with it removed.
//  2. x free in some replacement: rename the binder to a fresh name chosen
//     outside the replacements' free variables and the body's free variables,
//     then substitute under the new name.
//  3. Otherwise recurse.
package subst

import (
	"strconv"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/set"
)

// FreshName returns a name derived from base that is not in avoid. The
// generator is deterministic so repeated links produce identical output.
func FreshName(base string, avoid set.Set[string]) string {
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !avoid.Contains(candidate) {
			return candidate
		}
	}
}

// Untyped substitutes v for the free variable name in t.
func Untyped(t ast.UntypedTerm, name string, v ast.UntypedTerm) ast.UntypedTerm {
	return UntypedBatch(t, map[string]ast.UntypedTerm{name: v}, freevars.Scan(v).Terms)
}

// UntypedBatch applies all mappings in one traversal. unionFV is the union of
// free term variables across the replacements, used for capture checking.
func UntypedBatch(t ast.UntypedTerm, sub map[string]ast.UntypedTerm, unionFV set.Set[string]) ast.UntypedTerm {
	if len(sub) == 0 {
		return t
	}
	switch n := t.(type) {
	case *ast.Var:
		if v, ok := sub[n.Name]; ok {
			return v
		}
		return t
	case *ast.Lam:
		sub, body, param := hygiene(n.Param, n.Body, sub, unionFV,
			func(b ast.UntypedTerm) set.Set[string] { return freevars.Scan(b).Terms },
			func(b ast.UntypedTerm, old, fresh string) ast.UntypedTerm {
				return Untyped(b, old, &ast.Var{Name: fresh})
			})
		if sub == nil {
			return t
		}
		newBody := UntypedBatch(body, sub, unionFV)
		if newBody == n.Body && param == n.Param {
			return t
		}
		return &ast.Lam{Param: param, Body: newBody}
	case *ast.App:
		fn := UntypedBatch(n.Fn, sub, unionFV)
		arg := UntypedBatch(n.Arg, sub, unionFV)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &ast.App{Fn: fn, Arg: arg}
	default:
		return t
	}
}

// Typed substitutes v for the free variable name in t.
func Typed(t ast.TypedTerm, name string, v ast.TypedTerm) ast.TypedTerm {
	return TypedBatch(t, map[string]ast.TypedTerm{name: v}, freevars.Scan(v).Terms)
}

// TypedBatch applies all mappings in one traversal.
func TypedBatch(t ast.TypedTerm, sub map[string]ast.TypedTerm, unionFV set.Set[string]) ast.TypedTerm {
	if len(sub) == 0 {
		return t
	}
	switch n := t.(type) {
	case *ast.TypedVar:
		if v, ok := sub[n.Name]; ok {
			return v
		}
		return t
	case *ast.TypedAbs:
		sub, body, param := hygiene(n.Param, n.Body, sub, unionFV,
			func(b ast.TypedTerm) set.Set[string] { return freevars.Scan(b).Terms },
			func(b ast.TypedTerm, old, fresh string) ast.TypedTerm {
				return Typed(b, old, &ast.TypedVar{Name: fresh})
			})
		if sub == nil {
			return t
		}
		newBody := TypedBatch(body, sub, unionFV)
		if newBody == n.Body && param == n.Param {
			return t
		}
		return &ast.TypedAbs{Param: param, Ann: n.Ann, Body: newBody}
	case *ast.TypedApp:
		fn := TypedBatch(n.Fn, sub, unionFV)
		arg := TypedBatch(n.Arg, sub, unionFV)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &ast.TypedApp{Fn: fn, Arg: arg}
	default:
		return t
	}
}

// Poly substitutes v for the free variable name in t.
func Poly(t ast.PolyTerm, name string, v ast.PolyTerm) ast.PolyTerm {
	return PolyBatch(t, map[string]ast.PolyTerm{name: v}, freevars.Scan(v).Terms)
}

// PolyBatch applies all mappings in one traversal.
func PolyBatch(t ast.PolyTerm, sub map[string]ast.PolyTerm, unionFV set.Set[string]) ast.PolyTerm {
	if len(sub) == 0 {
		return t
	}
	switch n := t.(type) {
	case *ast.PolyVar:
		if v, ok := sub[n.Name]; ok {
			return v
		}
		return t
	case *ast.PolyAbs:
		sub, body, param := hygiene(n.Param, n.Body, sub, unionFV,
			func(b ast.PolyTerm) set.Set[string] { return freevars.Scan(b).Terms },
			func(b ast.PolyTerm, old, fresh string) ast.PolyTerm {
				return Poly(b, old, &ast.PolyVar{Name: fresh})
			})
		if sub == nil {
			return t
		}
		newBody := PolyBatch(body, sub, unionFV)
		if newBody == n.Body && param == n.Param {
			return t
		}
		return &ast.PolyAbs{Param: param, Ann: n.Ann, Body: newBody}
	case *ast.TyAbs:
		// Type binders do not shadow term names.
		body := PolyBatch(n.Body, sub, unionFV)
		if body == n.Body {
			return t
		}
		return &ast.TyAbs{Var: n.Var, Body: body}
	case *ast.TyApp:
		term := PolyBatch(n.Term, sub, unionFV)
		if term == n.Term {
			return t
		}
		return &ast.TyApp{Term: term, Arg: n.Arg}
	case *ast.PolyApp:
		fn := PolyBatch(n.Fn, sub, unionFV)
		arg := PolyBatch(n.Arg, sub, unionFV)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &ast.PolyApp{Fn: fn, Arg: arg}
	default:
		return t
	}
}

// hygiene applies the binder rules shared by the three term levels. It
// returns the (possibly narrowed) substitution, the (possibly renamed) body
// and the binder name to use. A nil substitution map means the whole subtree
// is untouched and the caller should return its input unchanged.
func hygiene[T any](
	param string,
	body T,
	sub map[string]T,
	unionFV set.Set[string],
	freeOf func(T) set.Set[string],
	rename func(T, string, string) T,
) (map[string]T, T, string) {
	// Rule 1: the binder shadows a mapping.
	if _, shadowed := sub[param]; shadowed {
		narrowed := make(map[string]T, len(sub)-1)
		for k, v := range sub {
			if k != param {
				narrowed[k] = v
			}
		}
		sub = narrowed
	}
	if len(sub) == 0 {
		return nil, body, param
	}

	// Nothing to substitute in the body at all: leave the subtree alone even
	// if the binder collides with a replacement's free variable. Renaming
	// here would violate identity preservation.
	bodyFV := freeOf(body)
	applies := false
	for name := range sub {
		if bodyFV.Contains(name) {
			applies = true
			break
		}
	}
	if !applies {
		return nil, body, param
	}

	// Rule 2: the binder would capture a replacement's free variable.
	if unionFV.Contains(param) {
		avoid := unionFV.Union(bodyFV)
		for name := range sub {
			avoid.Add(name)
		}
		fresh := FreshName(param, avoid)
		return sub, rename(body, param, fresh), fresh
	}

	// Rule 3.
	return sub, body, param
}
