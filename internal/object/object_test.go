package object

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/triplang/tripc/internal/ast"
)

func sampleObject() *Object {
	return &Object{
		Module: "prelude",
		Definitions: map[string]ast.Definition{
			"id": &ast.PolyDef{
				Name: "id",
				Type: &ast.Forall{Var: "X", Body: &ast.Arrow{
					Lft: &ast.TypeVar{Name: "X"}, Rgt: &ast.TypeVar{Name: "X"},
				}},
				Term: &ast.TyAbs{Var: "X", Body: &ast.PolyAbs{
					Param: "x", Ann: &ast.TypeVar{Name: "X"}, Body: &ast.PolyVar{Name: "x"},
				}},
			},
			"fst": &ast.TypedDef{
				Name: "fst",
				Term: &ast.TypedAbs{
					Param: "a", Ann: &ast.TypeVar{Name: "A"},
					Body: &ast.TypedAbs{
						Param: "b", Ann: &ast.TypeVar{Name: "B"},
						Body: &ast.TypedVar{Name: "a"},
					},
				},
			},
			"omega": &ast.UntypedDef{
				Name: "omega",
				Term: &ast.Lam{Param: "x", Body: &ast.App{
					Fn: &ast.Var{Name: "x"}, Arg: &ast.Var{Name: "x"},
				}},
			},
			"skk": &ast.CombinatorDef{
				Name: "skk",
				Term: &ast.SKIApp{Fn: &ast.SKIApp{Fn: ast.S, Arg: ast.K}, Arg: ast.K},
			},
			"Church": &ast.TypeDef{
				Name: "Church",
				Type: &ast.Forall{Var: "X", Body: &ast.Arrow{
					Lft: &ast.Arrow{Lft: &ast.TypeVar{Name: "X"}, Rgt: &ast.TypeVar{Name: "X"}},
					Rgt: &ast.Arrow{Lft: &ast.TypeVar{Name: "X"}, Rgt: &ast.TypeVar{Name: "X"}},
				}},
			},
			"Maybe": &ast.DataDef{
				Name:       "Maybe",
				TypeParams: []string{"A"},
				Constructors: []ast.Constructor{
					{Name: "Nothing"},
					{Name: "Just", Fields: []ast.BaseType{&ast.TypeVar{Name: "A"}}},
				},
			},
		},
		Exports: []string{"id", "skk"},
		Imports: []ast.ImportDecl{
			{From: "base", Name: "flip"},
			{From: "base", Name: "const", As: "always"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	o := sampleObject()
	data, err := Serialise(o)
	if err != nil {
		t.Fatalf("Serialise() error: %v", err)
	}
	back, err := Deserialise(data)
	if err != nil {
		t.Fatalf("Deserialise() error: %v", err)
	}
	if diff := cmp.Diff(o, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialiseDeterministic(t *testing.T) {
	o := sampleObject()
	first, err := Serialise(o)
	if err != nil {
		t.Fatalf("Serialise() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Serialise(o)
		if err != nil {
			t.Fatalf("Serialise() error: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("serialisation is not byte-identical across runs")
		}
	}
}

func TestDeserialiseRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "combinators ahoy"},
		{"unknown kind", `{"definitions":{"x":{"kind":"quantum"}},"exports":[],"imports":[]}`},
		{"unknown terminal", `{"definitions":{"x":{"kind":"combinator","term":{"kind":"terminal","sym":"Q"}}},"exports":[],"imports":[]}`},
		{"data without constructors key", `{"definitions":{"T":{"kind":"data"}},"exports":[],"imports":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialise([]byte(tt.data)); err == nil {
				t.Errorf("Deserialise(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestReadFileDerivesModuleName(t *testing.T) {
	dir := t.TempDir()
	o := sampleObject()
	o.Module = ""
	path := dir + "/prelude.tripc"
	if err := WriteFile(path, o); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if back.Module != "prelude" {
		t.Errorf("module = %q, want prelude (from file name)", back.Module)
	}
}
