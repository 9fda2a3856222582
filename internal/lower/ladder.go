package lower

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/diag"
)

// Step applies one rung of the lowering ladder to a definition:
// poly → typed → untyped → combinator. Combinator definitions are already at
// the bottom and pass through unchanged.
func Step(d ast.Definition) (ast.Definition, error) {
	switch d := d.(type) {
	case *ast.PolyDef:
		return &ast.TypedDef{Name: d.Name, Type: d.Type, Term: ErasePoly(d.Term)}, nil
	case *ast.TypedDef:
		return &ast.UntypedDef{Name: d.Name, Term: EraseTyped(d.Term)}, nil
	case *ast.UntypedDef:
		term, err := Bracket(d.Term)
		if err != nil {
			return nil, diag.Errorf(diag.LoweringCap,
				"cannot lower %s to combinator form: %v", d.Name, err)
		}
		return &ast.CombinatorDef{Name: d.Name, Term: term}, nil
	case *ast.CombinatorDef:
		return d, nil
	default:
		return nil, diag.Errorf(diag.LoweringCap,
			"definition %s (kind %s) has no lowering", d.DefName(), d.Kind())
	}
}

// PreLower brings a poly or typed definition down to the untyped level.
// Other kinds pass through unchanged. Resolution runs on the result: at the
// untyped level the lambda form is stable and substitution is well-defined,
// so inlining recursive polymorphic terms cannot blow up under their own
// binders.
func PreLower(d ast.Definition, maxSteps int) (ast.Definition, error) {
	for i := 0; i < maxSteps; i++ {
		switch d.Kind() {
		case ast.KindUntyped, ast.KindCombinator, ast.KindType, ast.KindData:
			return d, nil
		}
		next, err := Step(d)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return nil, diag.Errorf(diag.LoweringCap,
		"%s did not reach the untyped level in %d steps", d.DefName(), maxSteps)
}

// ToCombinator drives a definition all the way down the ladder, bounded by
// maxSteps applications.
func ToCombinator(d ast.Definition, maxSteps int) (*ast.CombinatorDef, error) {
	for i := 0; i < maxSteps; i++ {
		if c, done := d.(*ast.CombinatorDef); done {
			return c, nil
		}
		next, err := Step(d)
		if err != nil {
			return nil, err
		}
		d = next
	}
	if c, done := d.(*ast.CombinatorDef); done {
		return c, nil
	}
	return nil, diag.Errorf(diag.LoweringCap,
		"%s did not reach combinator form in %d steps", d.DefName(), maxSteps)
}
