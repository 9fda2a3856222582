package resolver

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/lower"
)

// PreLower brings every poly and typed definition down to the untyped level
// before resolution starts. Inlining recursive polymorphic terms under their
// own binders would blow up; at the untyped level the lambda form is stable
// and substitution is well-defined.
//
// A rec definition that references its own name is closed over itself with a
// fixpoint combinator during the same pass, so its self-reference never
// reaches the external-reference machinery.
func (r *Resolver) PreLower() error {
	for _, q := range r.space.QualifiedNames() {
		def, ok := r.space.Lookup(q)
		if !ok {
			continue
		}

		switch d := def.(type) {
		case *ast.PolyDef:
			lowered, err := lower.PreLower(d, r.caps.LadderSteps)
			if err != nil {
				return err
			}
			u := lowered.(*ast.UntypedDef)
			if d.Rec {
				r.rec.Add(q)
				u = fixSelf(u)
			}
			r.tracef("pre-lowered %s (poly)", q)
			r.space.Update(q, u)
		case *ast.TypedDef:
			lowered, err := lower.PreLower(d, r.caps.LadderSteps)
			if err != nil {
				return err
			}
			r.tracef("pre-lowered %s (typed)", q)
			r.space.Update(q, lowered)
		}
	}
	return nil
}

// fixSelf rewrites a self-referencing definition as fix (λself. body), with
// the definition's own name as the fixpoint binder so that self-references
// bind naturally.
func fixSelf(d *ast.UntypedDef) *ast.UntypedDef {
	if !freevars.Scan(d.Term).Terms.Contains(d.Name) {
		return d
	}
	return &ast.UntypedDef{
		Name: d.Name,
		Term: &ast.App{
			Fn:  fixCombinator(),
			Arg: &ast.Lam{Param: d.Name, Body: d.Term},
		},
	}
}

// fixCombinator returns Y = λf. (λx. f (x x)) (λx. f (x x)).
func fixCombinator() ast.UntypedTerm {
	half := func() ast.UntypedTerm {
		return &ast.Lam{Param: "x", Body: &ast.App{
			Fn:  &ast.Var{Name: "f"},
			Arg: &ast.App{Fn: &ast.Var{Name: "x"}, Arg: &ast.Var{Name: "x"}},
		}}
	}
	return &ast.Lam{Param: "f", Body: &ast.App{Fn: half(), Arg: half()}}
}
