package resolver

import (
	"strconv"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/diag"
	"github.com/triplang/tripc/internal/set"
	"github.com/triplang/tripc/internal/space"
	"github.com/triplang/tripc/internal/subst"
)

// ExpandData lowers every algebraic data declaration to a type alias plus
// Scott-encoded constructors.
//
// data T p… = C₁ F₁₁ … F₁ₖ | … | Cₙ …
// becomes the alias
//
//	T = ∀p…. ∀R. (F₁₁ → … → R) → … → (Fₙ₁ → … → R) → R
//
// and, per constructor, a polymorphic definition
//
//	Cᵢ = Λp…. λfields…. ΛR. λcases…. caseᵢ fields…
func (r *Resolver) ExpandData() error {
	for _, q := range r.space.QualifiedNames() {
		def, ok := r.space.Lookup(q)
		if !ok {
			continue
		}
		data, ok := def.(*ast.DataDef)
		if !ok {
			continue
		}
		r.tracef("expanding data %s", q)
		if err := expandOne(r.space, q, data); err != nil {
			return err
		}
	}
	return nil
}

func expandOne(s *space.Space, q ast.QualifiedName, data *ast.DataDef) error {
	if err := checkData(data); err != nil {
		return err
	}

	// Choose a result variable clashing with neither the type parameters nor
	// the data type's own name.
	avoid := set.FromSlice(data.TypeParams)
	avoid.Add(data.Name)
	result := "R"
	if avoid.Contains(result) {
		result = subst.FreshName(result, avoid)
	}

	// Eliminator type: one case arm per constructor.
	arms := make([]ast.BaseType, len(data.Constructors))
	for i, c := range data.Constructors {
		arms[i] = ast.ArrowChain(c.Fields, &ast.TypeVar{Name: result})
	}
	body := ast.ArrowChain(arms, &ast.TypeVar{Name: result})
	body = &ast.Forall{Var: result, Body: body}
	for i := len(data.TypeParams) - 1; i >= 0; i-- {
		body = &ast.Forall{Var: data.TypeParams[i], Body: body}
	}
	alias := &ast.TypeDef{Name: data.Name, Type: body}
	s.Replace(q, alias)

	// Scott-encoded constructors.
	for idx, c := range data.Constructors {
		ctor := buildConstructor(data, idx, result)
		if err := s.Register(q.Module, ctor); err != nil {
			return err
		}
	}
	return nil
}

func checkData(data *ast.DataDef) error {
	if len(data.Constructors) == 0 {
		return diag.Errorf(diag.DataMalformed, "data %s has no constructors", data.Name)
	}
	seen := set.NewSet[string]()
	for _, c := range data.Constructors {
		if c.Name == data.Name {
			return diag.Errorf(diag.DataMalformed,
				"data %s has a constructor named after the type", data.Name)
		}
		if seen.Contains(c.Name) {
			return diag.Errorf(diag.DataMalformed,
				"data %s has duplicate constructor %s", data.Name, c.Name)
		}
		seen.Add(c.Name)
	}
	params := set.NewSet[string]()
	for _, p := range data.TypeParams {
		if params.Contains(p) {
			return diag.Errorf(diag.DataMalformed,
				"data %s has duplicate type parameter %s", data.Name, p)
		}
		params.Add(p)
	}
	return nil
}

// buildConstructor assembles Λparams. λfields…. ΛR. λcases…. caseᵢ fields….
func buildConstructor(data *ast.DataDef, idx int, result string) *ast.PolyDef {
	c := data.Constructors[idx]

	caseNames := make([]string, len(data.Constructors))
	caseTypes := make([]ast.BaseType, len(data.Constructors))
	for i, alt := range data.Constructors {
		caseNames[i] = "on" + alt.Name
		caseTypes[i] = ast.ArrowChain(alt.Fields, &ast.TypeVar{Name: result})
	}
	fieldNames := make([]string, len(c.Fields))
	for j := range c.Fields {
		fieldNames[j] = "x" + strconv.Itoa(j+1)
	}

	// caseᵢ applied to the constructor's fields.
	var app ast.PolyTerm = &ast.PolyVar{Name: caseNames[idx]}
	for _, f := range fieldNames {
		app = &ast.PolyApp{Fn: app, Arg: &ast.PolyVar{Name: f}}
	}

	// λcases…, innermost last.
	term := app
	for i := len(caseNames) - 1; i >= 0; i-- {
		term = &ast.PolyAbs{Param: caseNames[i], Ann: caseTypes[i], Body: term}
	}
	term = &ast.TyAbs{Var: result, Body: term}

	// λfields….
	for j := len(fieldNames) - 1; j >= 0; j-- {
		term = &ast.PolyAbs{Param: fieldNames[j], Ann: c.Fields[j], Body: term}
	}

	// Λparams….
	for i := len(data.TypeParams) - 1; i >= 0; i-- {
		term = &ast.TyAbs{Var: data.TypeParams[i], Body: term}
	}

	// Declared type: ∀params. F₁ → … → T p₁ … pₙ.
	var resultTy ast.BaseType = &ast.TypeVar{Name: data.Name}
	for _, p := range data.TypeParams {
		resultTy = &ast.TypeApp{Fn: resultTy, Arg: &ast.TypeVar{Name: p}}
	}
	declared := ast.ArrowChain(c.Fields, resultTy)
	for i := len(data.TypeParams) - 1; i >= 0; i-- {
		declared = &ast.Forall{Var: data.TypeParams[i], Body: declared}
	}

	return &ast.PolyDef{Name: c.Name, Type: declared, Term: term}
}
