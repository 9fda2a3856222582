package lower

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// Bracket abstraction converts a closed untyped lambda term to an SKI
// expression. B and C are used as rewrite aids during abstraction and
// expanded to their SKI forms before the result is returned, so the output
// grammar is exactly S | K | I | (e e).

// expr is the mixed working representation: combinator terminals, pending
// lambda-bound variables, and applications.
type expr interface{ bracketExpr() }

type evar struct{ name string }
type eterm struct{ sym *ast.Terminal }
type eapp struct{ fn, arg expr }

func (evar) bracketExpr()  {}
func (eterm) bracketExpr() {}
func (eapp) bracketExpr()  {}

// Bracket converts t to SKI. It fails if t has free variables — the linker
// only lowers closed definitions.
func Bracket(t ast.UntypedTerm) (ast.SKITerm, error) {
	e := compile(t)
	return toSKI(e)
}

func compile(t ast.UntypedTerm) expr {
	switch n := t.(type) {
	case *ast.Var:
		return evar{name: n.Name}
	case *ast.App:
		return eapp{fn: compile(n.Fn), arg: compile(n.Arg)}
	case *ast.Lam:
		return abstract(n.Param, compile(n.Body))
	default:
		panic(fmt.Sprintf("lower: unknown untyped node %T", t))
	}
}

// abstract removes the variable x from e, producing an expression that when
// applied to a value for x behaves as e did.
func abstract(x string, e expr) expr {
	if v, ok := e.(evar); ok && v.name == x {
		return eterm{sym: ast.I}
	}
	if !occurs(x, e) {
		return eapp{fn: eterm{sym: ast.K}, arg: e}
	}
	a := e.(eapp) // occurs and not the variable itself, so an application

	// η-contraction: λx. f x  ≡  f  when x is not free in f.
	if v, ok := a.arg.(evar); ok && v.name == x && !occurs(x, a.fn) {
		return a.fn
	}

	fnFree := occurs(x, a.fn)
	argFree := occurs(x, a.arg)
	switch {
	case fnFree && argFree:
		return eapp{fn: eapp{fn: eterm{sym: ast.S}, arg: abstract(x, a.fn)}, arg: abstract(x, a.arg)}
	case fnFree:
		return eapp{fn: eapp{fn: eterm{sym: ast.C}, arg: abstract(x, a.fn)}, arg: a.arg}
	default:
		return eapp{fn: eapp{fn: eterm{sym: ast.B}, arg: a.fn}, arg: abstract(x, a.arg)}
	}
}

func occurs(x string, e expr) bool {
	switch e := e.(type) {
	case evar:
		return e.name == x
	case eapp:
		return occurs(x, e.fn) || occurs(x, e.arg)
	default:
		return false
	}
}

// SKI expansions of the rewrite aids.
var (
	// B f g x = f (g x)
	expandB = skiApp(skiApp(ast.S, skiApp(ast.K, ast.S)), ast.K)
	// C f x y = f y x
	expandC = skiApp(skiApp(ast.S, skiApp(skiApp(ast.S, skiApp(ast.K, expandB)), ast.S)), skiApp(ast.K, ast.K))
)

func skiApp(fn, arg ast.SKITerm) ast.SKITerm {
	return &ast.SKIApp{Fn: fn, Arg: arg}
}

func toSKI(e expr) (ast.SKITerm, error) {
	switch e := e.(type) {
	case evar:
		return nil, fmt.Errorf("free variable %s in combinator conversion", e.name)
	case eterm:
		switch e.sym.Sym {
		case "B":
			return expandB, nil
		case "C":
			return expandC, nil
		default:
			return e.sym, nil
		}
	case eapp:
		fn, err := toSKI(e.fn)
		if err != nil {
			return nil, err
		}
		arg, err := toSKI(e.arg)
		if err != nil {
			return nil, err
		}
		return &ast.SKIApp{Fn: fn, Arg: arg}, nil
	default:
		panic(fmt.Sprintf("lower: unknown bracket expr %T", e))
	}
}
