package set

import (
	"sort"
	"testing"
)

func TestBasicOperations(t *testing.T) {
	s := NewSet[string]()
	s.Add("a")
	s.Add("b")
	s.Add("a")

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Contains("a") || !s.Contains("b") {
		t.Errorf("missing elements: %v", s.ToSlice())
	}

	s.Remove("a")
	if s.Contains("a") {
		t.Errorf("Remove left the element behind")
	}
}

func TestSetAlgebra(t *testing.T) {
	a := FromSlice([]string{"x", "y"})
	b := FromSlice([]string{"y", "z"})

	union := a.Union(b)
	if union.Len() != 3 {
		t.Errorf("Union len = %d, want 3", union.Len())
	}

	diff := a.Difference(b)
	if diff.Len() != 1 || !diff.Contains("x") {
		t.Errorf("Difference = %v, want {x}", diff.ToSlice())
	}

	// The operands are untouched.
	if a.Len() != 2 || b.Len() != 2 {
		t.Errorf("algebra mutated its operands")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := FromSlice([]string{"x"})
	c := a.Clone()
	c.Add("y")
	if a.Contains("y") {
		t.Errorf("Clone shares storage with its source")
	}
	if a.Len() != 1 {
		t.Errorf("source changed: %v", a.ToSlice())
	}
}

func TestToSlice(t *testing.T) {
	s := FromSlice([]int{3, 1, 2})
	got := s.ToSlice()
	sort.Ints(got)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToSlice() = %v, want %v", got, want)
		}
	}
}
