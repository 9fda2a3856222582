package debruijn

import (
	"testing"

	"github.com/triplang/tripc/internal/ast"
)

// λx.x and λy.y must normalise identically; λx.λy.x and λx.λy.y must not.
func TestAlphaEquivalence(t *testing.T) {
	tests := []struct {
		name string
		a, b ast.UntypedTerm
		want bool
	}{
		{
			name: "identity under different binder names",
			a:    &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}},
			b:    &ast.Lam{Param: "y", Body: &ast.Var{Name: "y"}},
			want: true,
		},
		{
			name: "const vs flipped const",
			a: &ast.Lam{Param: "x", Body: &ast.Lam{Param: "y", Body: &ast.Var{Name: "x"}}},
			b: &ast.Lam{Param: "x", Body: &ast.Lam{Param: "y", Body: &ast.Var{Name: "y"}}},
			want: false,
		},
		{
			name: "free variables compare by name",
			a:    &ast.Lam{Param: "x", Body: &ast.Var{Name: "free"}},
			b:    &ast.Lam{Param: "y", Body: &ast.Var{Name: "free"}},
			want: true,
		},
		{
			name: "different free variables differ",
			a:    &ast.Lam{Param: "x", Body: &ast.Var{Name: "a"}},
			b:    &ast.Lam{Param: "x", Body: &ast.Var{Name: "b"}},
			want: false,
		},
		{
			name: "shadowing binds to the nearest binder",
			a: &ast.Lam{Param: "x", Body: &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}}},
			b: &ast.Lam{Param: "a", Body: &ast.Lam{Param: "b", Body: &ast.Var{Name: "b"}}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if tt.want {
				if Hash(tt.a) != Hash(tt.b) {
					t.Errorf("α-equivalent terms hash differently")
				}
			} else if Hash(tt.a) == Hash(tt.b) {
				t.Errorf("distinct terms collided on hash")
			}
		})
	}
}

// Term and type binders are indexed independently: the annotation of a
// System F abstraction must not shift under term binders.
func TestIndependentVariableSpaces(t *testing.T) {
	// ΛX. λx:X. x  vs  ΛY. λv:Y. v
	a := &ast.TyAbs{Var: "X", Body: &ast.PolyAbs{
		Param: "x", Ann: &ast.TypeVar{Name: "X"}, Body: &ast.PolyVar{Name: "x"},
	}}
	b := &ast.TyAbs{Var: "Y", Body: &ast.PolyAbs{
		Param: "v", Ann: &ast.TypeVar{Name: "Y"}, Body: &ast.PolyVar{Name: "v"},
	}}
	if !Equal(a, b) {
		t.Errorf("α-equivalent System F terms normalised differently")
	}

	// ΛX. λx:X. x  vs  ΛX. λx:Z. x — the annotation matters.
	c := &ast.TyAbs{Var: "X", Body: &ast.PolyAbs{
		Param: "x", Ann: &ast.TypeVar{Name: "Z"}, Body: &ast.PolyVar{Name: "x"},
	}}
	if Equal(a, c) {
		t.Errorf("bound and free type annotations compared equal")
	}
}

func TestTypeNormalisation(t *testing.T) {
	// ∀A. A → A  ≡  ∀B. B → B
	a := &ast.Forall{Var: "A", Body: &ast.Arrow{Lft: &ast.TypeVar{Name: "A"}, Rgt: &ast.TypeVar{Name: "A"}}}
	b := &ast.Forall{Var: "B", Body: &ast.Arrow{Lft: &ast.TypeVar{Name: "B"}, Rgt: &ast.TypeVar{Name: "B"}}}
	if !Equal(a, b) {
		t.Errorf("α-equivalent foralls normalised differently")
	}

	// A Forall binder does not capture term-level indices.
	n := Normalise(a)
	if n.Kind != KindForall {
		t.Fatalf("Normalise(∀A.A→A).Kind = %s, want %s", n.Kind, KindForall)
	}
	arrow := n.Kids[0]
	if arrow.Kids[0].Kind != KindBoundType || arrow.Kids[0].Index != 0 {
		t.Errorf("bound type var = %+v, want bound-type index 0", arrow.Kids[0])
	}
}

func TestCanonicalDeterminism(t *testing.T) {
	term := &ast.Lam{Param: "f", Body: &ast.App{
		Fn:  &ast.Var{Name: "f"},
		Arg: &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}},
	}}
	first := Canonical(term)
	for i := 0; i < 10; i++ {
		if got := Canonical(term); got != first {
			t.Fatalf("Canonical is not deterministic: %s vs %s", got, first)
		}
	}
}

func TestHashDefinitionSeparatesKinds(t *testing.T) {
	u := &ast.UntypedDef{Name: "id", Term: &ast.Lam{Param: "x", Body: &ast.Var{Name: "x"}}}
	c := &ast.CombinatorDef{Name: "i", Term: ast.I}
	if HashDefinition(u) == HashDefinition(c) {
		t.Errorf("definitions of different kinds hashed identically")
	}
}

func TestTerminalNormalisation(t *testing.T) {
	a := &ast.SKIApp{Fn: &ast.SKIApp{Fn: ast.S, Arg: ast.K}, Arg: ast.I}
	b := &ast.SKIApp{Fn: &ast.SKIApp{Fn: &ast.Terminal{Sym: "S"}, Arg: &ast.Terminal{Sym: "K"}}, Arg: &ast.Terminal{Sym: "I"}}
	if !Equal(a, b) {
		t.Errorf("structurally equal combinator expressions normalised differently")
	}
}
