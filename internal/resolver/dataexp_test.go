package resolver

import (
	"testing"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/config"
	"github.com/triplang/tripc/internal/debruijn"
	"github.com/triplang/tripc/internal/diag"
	"github.com/triplang/tripc/internal/object"
	"github.com/triplang/tripc/internal/space"
)

func maybeData() *ast.DataDef {
	return &ast.DataDef{
		Name:       "Maybe",
		TypeParams: []string{"A"},
		Constructors: []ast.Constructor{
			{Name: "Nothing"},
			{Name: "Just", Fields: []ast.BaseType{&ast.TypeVar{Name: "A"}}},
		},
	}
}

func expand(t *testing.T, data *ast.DataDef) *space.Space {
	t.Helper()
	s, err := space.FromObjects([]*object.Object{{
		Module:      "m",
		Definitions: map[string]ast.Definition{data.Name: data},
	}})
	if err != nil {
		t.Fatalf("FromObjects() error: %v", err)
	}
	if err := New(s, config.Default()).ExpandData(); err != nil {
		t.Fatalf("ExpandData() error: %v", err)
	}
	return s
}

func TestExpandMaybe(t *testing.T) {
	s := expand(t, maybeData())

	// The declaration became a type alias...
	alias, ok := s.Types[q("m", "Maybe")]
	if !ok {
		t.Fatalf("Maybe alias missing from type index")
	}
	// ∀A. ∀R. R → (A → R) → R
	wantAlias := &ast.Forall{Var: "A", Body: &ast.Forall{Var: "R", Body: &ast.Arrow{
		Lft: &ast.TypeVar{Name: "R"},
		Rgt: &ast.Arrow{
			Lft: &ast.Arrow{Lft: &ast.TypeVar{Name: "A"}, Rgt: &ast.TypeVar{Name: "R"}},
			Rgt: &ast.TypeVar{Name: "R"},
		},
	}}}
	if !debruijn.Equal(alias.(*ast.TypeDef).Type, wantAlias) {
		t.Errorf("alias = %s, want %s", alias.(*ast.TypeDef).Type, wantAlias)
	}

	// ...and each constructor became a Scott-encoded poly definition.
	just, ok := s.Terms[q("m", "Just")]
	if !ok {
		t.Fatalf("Just constructor missing from term index")
	}
	// ΛA. λx:A. ΛR. λn:R. λj:(A→R). j x
	wantJust := &ast.TyAbs{Var: "A", Body: &ast.PolyAbs{
		Param: "v", Ann: &ast.TypeVar{Name: "A"},
		Body: &ast.TyAbs{Var: "R", Body: &ast.PolyAbs{
			Param: "n", Ann: &ast.TypeVar{Name: "R"},
			Body: &ast.PolyAbs{
				Param: "j", Ann: &ast.Arrow{Lft: &ast.TypeVar{Name: "A"}, Rgt: &ast.TypeVar{Name: "R"}},
				Body:  &ast.PolyApp{Fn: &ast.PolyVar{Name: "j"}, Arg: &ast.PolyVar{Name: "v"}},
			},
		}},
	}}
	if !debruijn.Equal(just.(*ast.PolyDef).Term, wantJust) {
		t.Errorf("Just = %s, want %s", just.(*ast.PolyDef).Term, wantJust)
	}

	if _, ok := s.Terms[q("m", "Nothing")]; !ok {
		t.Errorf("Nothing constructor missing from term index")
	}
}

func TestExpandAvoidsResultClash(t *testing.T) {
	// A type parameter named R must not collide with the result variable.
	data := &ast.DataDef{
		Name:       "Box",
		TypeParams: []string{"R"},
		Constructors: []ast.Constructor{
			{Name: "MkBox", Fields: []ast.BaseType{&ast.TypeVar{Name: "R"}}},
		},
	}
	s := expand(t, data)
	alias := s.Types[q("m", "Box")].(*ast.TypeDef)
	// ∀R. ∀R1. (R → R1) → R1
	want := &ast.Forall{Var: "R", Body: &ast.Forall{Var: "S", Body: &ast.Arrow{
		Lft: &ast.Arrow{Lft: &ast.TypeVar{Name: "R"}, Rgt: &ast.TypeVar{Name: "S"}},
		Rgt: &ast.TypeVar{Name: "S"},
	}}}
	if !debruijn.Equal(alias.Type, want) {
		t.Errorf("alias = %s, want α-equivalent of %s", alias.Type, want)
	}
}

func TestMalformedData(t *testing.T) {
	tests := []struct {
		name string
		data *ast.DataDef
	}{
		{
			name: "no constructors",
			data: &ast.DataDef{Name: "Void"},
		},
		{
			name: "duplicate constructors",
			data: &ast.DataDef{Name: "T", Constructors: []ast.Constructor{{Name: "C"}, {Name: "C"}}},
		},
		{
			name: "duplicate type parameters",
			data: &ast.DataDef{Name: "T", TypeParams: []string{"A", "A"},
				Constructors: []ast.Constructor{{Name: "C"}}},
		},
		{
			name: "constructor named after the type",
			data: &ast.DataDef{Name: "T", Constructors: []ast.Constructor{{Name: "T"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := space.FromObjects([]*object.Object{{
				Module:      "m",
				Definitions: map[string]ast.Definition{tt.data.Name: tt.data},
			}})
			if err != nil {
				t.Fatalf("FromObjects() error: %v", err)
			}
			err = New(s, config.Default()).ExpandData()
			if diag.CodeOf(err) != diag.DataMalformed {
				t.Errorf("code = %s, want %s (%v)", diag.CodeOf(err), diag.DataMalformed, err)
			}
		})
	}
}
