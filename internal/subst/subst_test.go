package subst

import (
	"testing"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/debruijn"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/set"
)

func lam(p string, b ast.UntypedTerm) *ast.Lam { return &ast.Lam{Param: p, Body: b} }
func v(n string) *ast.Var                      { return &ast.Var{Name: n} }
func app(f, a ast.UntypedTerm) *ast.App        { return &ast.App{Fn: f, Arg: a} }

func TestSubstFreeVariable(t *testing.T) {
	// (f x)[x := λy.y]  =  f (λy.y)
	term := app(v("f"), v("x"))
	got := Untyped(term, "x", lam("y", v("y")))
	want := app(v("f"), lam("y", v("y")))
	if !debruijn.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBinderShadowsSubstitution(t *testing.T) {
	// (λx. x)[x := z] is untouched.
	term := lam("x", v("x"))
	got := Untyped(term, "x", v("z"))
	if got != term {
		t.Errorf("substitution under a shadowing binder rebuilt the term")
	}
}

func TestCaptureAvoidance(t *testing.T) {
	// (λy. x)[x := y] must NOT become λy. y.
	term := lam("y", v("x"))
	got := Untyped(term, "x", v("y"))

	bad := lam("y", v("y"))
	if debruijn.Equal(got, bad) {
		t.Fatalf("replacement variable was captured: %s", got)
	}
	// The result binds a fresh name and keeps y free inside.
	refs := freevars.Scan(got)
	if !refs.Terms.Contains("y") {
		t.Errorf("free y lost during renaming: %s", got)
	}
}

func TestIdentityPreservation(t *testing.T) {
	// Substituting a name that does not occur returns the same object, at
	// every level of the tree.
	inner := lam("y", v("y"))
	term := app(inner, v("q"))
	got := Untyped(term, "missing", v("z"))
	if got != term {
		t.Errorf("no-op substitution produced a new root")
	}

	// A change in one branch must not rebuild the other.
	changed := Untyped(term, "q", v("z")).(*ast.App)
	if changed.Fn != inner {
		t.Errorf("unchanged branch was rebuilt")
	}
}

func TestBatchEquivalentToSequential(t *testing.T) {
	// σ = {a := f b, b := g}: batched application must be α-equivalent to
	// hygienic sequential application.
	term := app(app(v("a"), v("b")), lam("c", v("a")))
	replA := app(v("f"), v("b"))
	replB := v("g")

	union := freevars.Scan(replA).Terms.Union(freevars.Scan(replB).Terms)
	batched := UntypedBatch(term, map[string]ast.UntypedTerm{"a": replA, "b": replB}, union)

	// Sequential with explicit hygiene: substituting a first would expose
	// its free b to the second mapping, so b goes first.
	seq := Untyped(term, "b", replB)
	seq = Untyped(seq, "a", replA)

	if !debruijn.Equal(batched, seq) {
		t.Errorf("batched %s, sequential %s", batched, seq)
	}
}

func TestBatchSkipsShadowedMappings(t *testing.T) {
	// λa. a b with σ = {a := x, b := y}: only b substitutes.
	term := lam("a", app(v("a"), v("b")))
	union := set.FromSlice([]string{"x", "y"})
	got := UntypedBatch(term, map[string]ast.UntypedTerm{"a": v("x"), "b": v("y")}, union)
	want := lam("a", app(v("a"), v("y")))
	if !debruijn.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFreshNameAvoidsSet(t *testing.T) {
	avoid := set.FromSlice([]string{"x1", "x2"})
	got := FreshName("x", avoid)
	if got != "x3" {
		t.Errorf("FreshName(x, {x1,x2}) = %s, want x3", got)
	}
}

func TestPolySubstitutionThroughTypeAbs(t *testing.T) {
	// (ΛX. f [X])[f := λx:A. x]
	term := &ast.TyAbs{Var: "X", Body: &ast.TyApp{
		Term: &ast.PolyVar{Name: "f"},
		Arg:  &ast.TypeVar{Name: "X"},
	}}
	repl := &ast.PolyAbs{Param: "x", Ann: &ast.TypeVar{Name: "A"}, Body: &ast.PolyVar{Name: "x"}}
	got := Poly(term, "f", repl)

	want := &ast.TyAbs{Var: "X", Body: &ast.TyApp{Term: repl, Arg: &ast.TypeVar{Name: "X"}}}
	if !debruijn.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTypedSubstitutionKeepsAnnotations(t *testing.T) {
	term := &ast.TypedAbs{
		Param: "x",
		Ann:   &ast.TypeVar{Name: "A"},
		Body:  &ast.TypedApp{Fn: &ast.TypedVar{Name: "f"}, Arg: &ast.TypedVar{Name: "x"}},
	}
	got := Typed(term, "f", &ast.TypedVar{Name: "g"}).(*ast.TypedAbs)
	if got.Ann != term.Ann {
		t.Errorf("annotation was rebuilt by a term substitution")
	}
}
