// Package lower implements the lowering ladder: type erasure from System F
// down to untyped lambda, bracket abstraction from untyped lambda to SKI,
// and the reducers used by the REPL and the test suite.
package lower

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// ErasePoly erases type abstractions and type applications from a System F
// term. Term abstractions keep their annotations.
func ErasePoly(t ast.PolyTerm) ast.TypedTerm {
	switch n := t.(type) {
	case *ast.PolyVar:
		return &ast.TypedVar{Name: n.Name}
	case *ast.PolyAbs:
		return &ast.TypedAbs{Param: n.Param, Ann: n.Ann, Body: ErasePoly(n.Body)}
	case *ast.TyAbs:
		return ErasePoly(n.Body)
	case *ast.TyApp:
		return ErasePoly(n.Term)
	case *ast.PolyApp:
		return &ast.TypedApp{Fn: ErasePoly(n.Fn), Arg: ErasePoly(n.Arg)}
	default:
		panic(fmt.Sprintf("lower: unknown poly node %T", t))
	}
}

// EraseTyped drops type annotations, keeping variable names and application
// structure.
func EraseTyped(t ast.TypedTerm) ast.UntypedTerm {
	switch n := t.(type) {
	case *ast.TypedVar:
		return &ast.Var{Name: n.Name}
	case *ast.TypedAbs:
		return &ast.Lam{Param: n.Param, Body: EraseTyped(n.Body)}
	case *ast.TypedApp:
		return &ast.App{Fn: EraseTyped(n.Fn), Arg: EraseTyped(n.Arg)}
	default:
		panic(fmt.Sprintf("lower: unknown typed node %T", t))
	}
}
