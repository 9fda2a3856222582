package lower

import (
	"fmt"
	"math/big"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/subst"
)

// Reducers. The link path never reduces; these serve the REPL and the
// end-to-end tests, which check emitted expressions by running them.

// SKIToUntyped embeds a combinator expression into the untyped lambda level
// using the defining lambda terms of S, K and I.
func SKIToUntyped(t ast.SKITerm) ast.UntypedTerm {
	switch n := t.(type) {
	case *ast.Terminal:
		switch n.Sym {
		case "S":
			// λf.λg.λx. (f x) (g x)
			return &ast.Lam{Param: "f", Body: &ast.Lam{Param: "g", Body: &ast.Lam{Param: "x",
				Body: &ast.App{
					Fn:  &ast.App{Fn: &ast.Var{Name: "f"}, Arg: &ast.Var{Name: "x"}},
					Arg: &ast.App{Fn: &ast.Var{Name: "g"}, Arg: &ast.Var{Name: "x"}},
				}}}}
		case "K":
			return &ast.Lam{Param: "x", Body: &ast.Lam{Param: "y", Body: &ast.Var{Name: "x"}}}
		case "I":
			return &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}}
		default:
			panic(fmt.Sprintf("lower: terminal %s has no lambda form", n.Sym))
		}
	case *ast.SKIApp:
		return &ast.App{Fn: SKIToUntyped(n.Fn), Arg: SKIToUntyped(n.Arg)}
	default:
		panic(fmt.Sprintf("lower: unknown ski node %T", t))
	}
}

// StepSKI performs one leftmost-outermost combinator reduction. The second
// result is false when t is in normal form.
func StepSKI(t ast.SKITerm) (ast.SKITerm, bool) {
	// Root redexes first.
	if app, ok := t.(*ast.SKIApp); ok {
		// I x → x
		if term, ok := app.Fn.(*ast.Terminal); ok && term.Sym == "I" {
			return app.Arg, true
		}
		if inner, ok := app.Fn.(*ast.SKIApp); ok {
			// K x y → x
			if term, ok := inner.Fn.(*ast.Terminal); ok && term.Sym == "K" {
				return inner.Arg, true
			}
			// S f g x → (f x) (g x)
			if inner2, ok := inner.Fn.(*ast.SKIApp); ok {
				if term, ok := inner2.Fn.(*ast.Terminal); ok && term.Sym == "S" {
					f, g, x := inner2.Arg, inner.Arg, app.Arg
					return &ast.SKIApp{
						Fn:  &ast.SKIApp{Fn: f, Arg: x},
						Arg: &ast.SKIApp{Fn: g, Arg: x},
					}, true
				}
			}
		}
		// Otherwise reduce inside, left to right.
		if fn, changed := StepSKI(app.Fn); changed {
			return &ast.SKIApp{Fn: fn, Arg: app.Arg}, true
		}
		if arg, changed := StepSKI(app.Arg); changed {
			return &ast.SKIApp{Fn: app.Fn, Arg: arg}, true
		}
	}
	return t, false
}

// ReduceSKI reduces to normal form, bounded by maxSteps.
func ReduceSKI(t ast.SKITerm, maxSteps int) (ast.SKITerm, error) {
	for i := 0; i < maxSteps; i++ {
		next, changed := StepSKI(t)
		if !changed {
			return t, nil
		}
		t = next
	}
	return nil, fmt.Errorf("no normal form within %d reduction steps", maxSteps)
}

// StepUntyped performs one normal-order β-reduction step, reducing under
// binders so that terms reach full normal form.
func StepUntyped(t ast.UntypedTerm) (ast.UntypedTerm, bool) {
	switch n := t.(type) {
	case *ast.App:
		if lam, ok := n.Fn.(*ast.Lam); ok {
			return subst.Untyped(lam.Body, lam.Param, n.Arg), true
		}
		if fn, changed := StepUntyped(n.Fn); changed {
			return &ast.App{Fn: fn, Arg: n.Arg}, true
		}
		if arg, changed := StepUntyped(n.Arg); changed {
			return &ast.App{Fn: n.Fn, Arg: arg}, true
		}
	case *ast.Lam:
		if body, changed := StepUntyped(n.Body); changed {
			return &ast.Lam{Param: n.Param, Body: body}, true
		}
	}
	return t, false
}

// ReduceUntyped reduces to β-normal form, bounded by maxSteps.
func ReduceUntyped(t ast.UntypedTerm, maxSteps int) (ast.UntypedTerm, error) {
	for i := 0; i < maxSteps; i++ {
		next, changed := StepUntyped(t)
		if !changed {
			return t, nil
		}
		t = next
	}
	return nil, fmt.Errorf("no normal form within %d reduction steps", maxSteps)
}

// DecodeChurch interprets a closed SKI expression as a Church numeral by
// applying it to fresh successor and zero markers and counting applications
// in the normal form.
func DecodeChurch(t ast.SKITerm, maxSteps int) (*big.Int, bool) {
	applied := &ast.App{
		Fn:  &ast.App{Fn: SKIToUntyped(t), Arg: &ast.Var{Name: "succ#"}},
		Arg: &ast.Var{Name: "zero#"},
	}
	nf, err := ReduceUntyped(applied, maxSteps)
	if err != nil {
		return nil, false
	}
	count := big.NewInt(0)
	one := big.NewInt(1)
	for {
		switch n := nf.(type) {
		case *ast.Var:
			if n.Name == "zero#" {
				return count, true
			}
			return nil, false
		case *ast.App:
			fn, ok := n.Fn.(*ast.Var)
			if !ok || fn.Name != "succ#" {
				return nil, false
			}
			count.Add(count, one)
			nf = n.Arg
		default:
			return nil, false
		}
	}
}
