// Package ast defines the TripLang AST: base types, terms at the four
// language levels (polymorphic, simply typed, untyped, combinator), and
// module definitions.
//
// All nodes are pointer-shaped. The substitution engine returns the original
// node when a traversal produced no change, and downstream caches key on that
// pointer identity, so nodes must never be mutated after construction.
package ast

import (
	"fmt"
	"strings"
)

// BaseType is the interface for type-level nodes.
type BaseType interface {
	baseType()
	String() string
}

// TypeVar is a free or bound type variable.
type TypeVar struct {
	Name string
}

func (t *TypeVar) baseType() {}
func (t *TypeVar) String() string { return t.Name }

// Arrow is the function type Lft -> Rgt.
type Arrow struct {
	Lft BaseType
	Rgt BaseType
}

func (t *Arrow) baseType() {}
func (t *Arrow) String() string {
	// Arrows associate to the right; parenthesize a left arrow operand.
	lft := t.Lft.String()
	if _, ok := t.Lft.(*Arrow); ok {
		lft = "(" + lft + ")"
	}
	return fmt.Sprintf("%s→%s", lft, t.Rgt)
}

// TypeApp is a higher-kinded type application Fn Arg.
type TypeApp struct {
	Fn  BaseType
	Arg BaseType
}

func (t *TypeApp) baseType() {}
func (t *TypeApp) String() string {
	arg := t.Arg.String()
	switch t.Arg.(type) {
	case *Arrow, *TypeApp, *Forall:
		arg = "(" + arg + ")"
	}
	fn := t.Fn.String()
	switch t.Fn.(type) {
	case *Arrow, *Forall:
		fn = "(" + fn + ")"
	}
	return fn + " " + arg
}

// Forall is the universal quantification ∀Var. Body. Var is bound lexically
// in Body.
type Forall struct {
	Var  string
	Body BaseType
}

func (t *Forall) baseType() {}
func (t *Forall) String() string {
	return fmt.Sprintf("∀%s.%s", t.Var, t.Body)
}

// ArrowChain builds a right-nested arrow type from fields ending in ret.
func ArrowChain(fields []BaseType, ret BaseType) BaseType {
	result := ret
	for i := len(fields) - 1; i >= 0; i-- {
		result = &Arrow{Lft: fields[i], Rgt: result}
	}
	return result
}

// QualifiedName identifies a definition as (module, local) pair. Its textual
// form is "module.local".
type QualifiedName struct {
	Module string
	Name   string
}

func (q QualifiedName) String() string {
	return q.Module + "." + q.Name
}

// ParseQualifiedName splits the textual form at the last dot.
func ParseQualifiedName(s string) (QualifiedName, bool) {
	idx := strings.LastIndex(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return QualifiedName{}, false
	}
	return QualifiedName{Module: s[:idx], Name: s[idx+1:]}, true
}
