package subst

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
)

// Type substitutes u for the free type variable name in ty.
func Type(ty ast.BaseType, name string, u ast.BaseType) ast.BaseType {
	switch n := ty.(type) {
	case *ast.TypeVar:
		if n.Name == name {
			return u
		}
		return ty
	case *ast.Arrow:
		lft := Type(n.Lft, name, u)
		rgt := Type(n.Rgt, name, u)
		if lft == n.Lft && rgt == n.Rgt {
			return ty
		}
		return &ast.Arrow{Lft: lft, Rgt: rgt}
	case *ast.TypeApp:
		fn := Type(n.Fn, name, u)
		arg := Type(n.Arg, name, u)
		if fn == n.Fn && arg == n.Arg {
			return ty
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}
	case *ast.Forall:
		// The binder shadows the substituted name.
		if n.Var == name {
			return ty
		}
		if !freevars.ScanType(n.Body).Contains(name) {
			return ty
		}
		v := n.Var
		body := n.Body
		uFV := freevars.ScanType(u)
		if uFV.Contains(v) {
			avoid := uFV.Union(freevars.ScanType(body))
			avoid.Add(name)
			fresh := FreshName(v, avoid)
			body = Type(body, v, &ast.TypeVar{Name: fresh})
			v = fresh
		}
		newBody := Type(body, name, u)
		if newBody == n.Body && v == n.Var {
			return ty
		}
		return &ast.Forall{Var: v, Body: newBody}
	default:
		return ty
	}
}

// TypeInPoly substitutes a base type for a free type variable throughout a
// polymorphic term: annotations, type-application arguments, and under type
// abstractions that do not shadow the name.
func TypeInPoly(t ast.PolyTerm, name string, u ast.BaseType) ast.PolyTerm {
	switch n := t.(type) {
	case *ast.PolyVar:
		return t
	case *ast.PolyAbs:
		ann := Type(n.Ann, name, u)
		body := TypeInPoly(n.Body, name, u)
		if ann == n.Ann && body == n.Body {
			return t
		}
		return &ast.PolyAbs{Param: n.Param, Ann: ann, Body: body}
	case *ast.TyAbs:
		if n.Var == name {
			return t
		}
		v := n.Var
		body := n.Body
		uFV := freevars.ScanType(u)
		if uFV.Contains(v) && freevars.Scan(body).Types.Contains(name) {
			avoid := uFV.Union(freevars.Scan(body).Types)
			avoid.Add(name)
			fresh := FreshName(v, avoid)
			body = TypeInPoly(body, v, &ast.TypeVar{Name: fresh})
			v = fresh
		}
		newBody := TypeInPoly(body, name, u)
		if newBody == n.Body && v == n.Var {
			return t
		}
		return &ast.TyAbs{Var: v, Body: newBody}
	case *ast.TyApp:
		term := TypeInPoly(n.Term, name, u)
		arg := Type(n.Arg, name, u)
		if term == n.Term && arg == n.Arg {
			return t
		}
		return &ast.TyApp{Term: term, Arg: arg}
	case *ast.PolyApp:
		fn := TypeInPoly(n.Fn, name, u)
		arg := TypeInPoly(n.Arg, name, u)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &ast.PolyApp{Fn: fn, Arg: arg}
	default:
		return t
	}
}

// TypeInTyped substitutes a base type for a free type variable throughout the
// annotations of a simply typed term.
func TypeInTyped(t ast.TypedTerm, name string, u ast.BaseType) ast.TypedTerm {
	switch n := t.(type) {
	case *ast.TypedVar:
		return t
	case *ast.TypedAbs:
		ann := Type(n.Ann, name, u)
		body := TypeInTyped(n.Body, name, u)
		if ann == n.Ann && body == n.Body {
			return t
		}
		return &ast.TypedAbs{Param: n.Param, Ann: ann, Body: body}
	case *ast.TypedApp:
		fn := TypeInTyped(n.Fn, name, u)
		arg := TypeInTyped(n.Arg, name, u)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &ast.TypedApp{Fn: fn, Arg: arg}
	default:
		return t
	}
}
