package ast

import "fmt"

// PolyTerm is a System F term: term abstraction with annotation, type
// abstraction, type application, variable and application.
type PolyTerm interface {
	polyTerm()
	String() string
}

// PolyVar is a term variable at the polymorphic level.
type PolyVar struct {
	Name string
}

func (t *PolyVar) polyTerm() {}
func (t *PolyVar) String() string { return t.Name }

// PolyAbs is λParam:Ann. Body.
type PolyAbs struct {
	Param string
	Ann   BaseType
	Body  PolyTerm
}

func (t *PolyAbs) polyTerm() {}
func (t *PolyAbs) String() string {
	return fmt.Sprintf("λ%s:%s.%s", t.Param, t.Ann, t.Body)
}

// TyAbs is ΛVar. Body.
type TyAbs struct {
	Var  string
	Body PolyTerm
}

func (t *TyAbs) polyTerm() {}
func (t *TyAbs) String() string {
	return fmt.Sprintf("Λ%s.%s", t.Var, t.Body)
}

// TyApp applies a polymorphic term to a type argument: Term [Arg].
type TyApp struct {
	Term PolyTerm
	Arg  BaseType
}

func (t *TyApp) polyTerm() {}
func (t *TyApp) String() string {
	return fmt.Sprintf("%s [%s]", parenPoly(t.Term), t.Arg)
}

// PolyApp is term application at the polymorphic level.
type PolyApp struct {
	Fn  PolyTerm
	Arg PolyTerm
}

func (t *PolyApp) polyTerm() {}
func (t *PolyApp) String() string {
	arg := t.Arg.String()
	switch t.Arg.(type) {
	case *PolyApp, *PolyAbs, *TyAbs, *TyApp:
		arg = "(" + arg + ")"
	}
	return parenPoly(t.Fn) + " " + arg
}

func parenPoly(t PolyTerm) string {
	s := t.String()
	switch t.(type) {
	case *PolyAbs, *TyAbs:
		return "(" + s + ")"
	}
	return s
}

// TypedTerm is a simply typed term: annotated abstraction, variable and
// application.
type TypedTerm interface {
	typedTerm()
	String() string
}

// TypedVar is a term variable at the simply typed level.
type TypedVar struct {
	Name string
}

func (t *TypedVar) typedTerm() {}
func (t *TypedVar) String() string { return t.Name }

// TypedAbs is λParam:Ann. Body.
type TypedAbs struct {
	Param string
	Ann   BaseType
	Body  TypedTerm
}

func (t *TypedAbs) typedTerm() {}
func (t *TypedAbs) String() string {
	return fmt.Sprintf("λ%s:%s.%s", t.Param, t.Ann, t.Body)
}

// TypedApp is term application at the simply typed level.
type TypedApp struct {
	Fn  TypedTerm
	Arg TypedTerm
}

func (t *TypedApp) typedTerm() {}
func (t *TypedApp) String() string {
	fn := t.Fn.String()
	if _, ok := t.Fn.(*TypedAbs); ok {
		fn = "(" + fn + ")"
	}
	arg := t.Arg.String()
	switch t.Arg.(type) {
	case *TypedApp, *TypedAbs:
		arg = "(" + arg + ")"
	}
	return fn + " " + arg
}

// UntypedTerm is an untyped lambda term.
type UntypedTerm interface {
	untypedTerm()
	String() string
}

// Var is a term variable at the untyped level.
type Var struct {
	Name string
}

func (t *Var) untypedTerm() {}
func (t *Var) String() string { return t.Name }

// Lam is λParam. Body.
type Lam struct {
	Param string
	Body  UntypedTerm
}

func (t *Lam) untypedTerm() {}
func (t *Lam) String() string {
	return fmt.Sprintf("λ%s.%s", t.Param, t.Body)
}

// App is untyped application.
type App struct {
	Fn  UntypedTerm
	Arg UntypedTerm
}

func (t *App) untypedTerm() {}
func (t *App) String() string {
	fn := t.Fn.String()
	if _, ok := t.Fn.(*Lam); ok {
		fn = "(" + fn + ")"
	}
	arg := t.Arg.String()
	switch t.Arg.(type) {
	case *App, *Lam:
		arg = "(" + arg + ")"
	}
	return fn + " " + arg
}

// SKITerm is a combinator expression over the terminals and application.
type SKITerm interface {
	skiTerm()
	String() string
}

// Terminal is a combinator constant. S, K and I appear in linker output;
// B and C exist only transiently inside bracket abstraction and are expanded
// before emission.
type Terminal struct {
	Sym string
}

func (t *Terminal) skiTerm() {}
func (t *Terminal) String() string { return t.Sym }

// Shared terminal instances. Comparing against these by pointer is not
// required; compare Sym instead.
var (
	S = &Terminal{Sym: "S"}
	K = &Terminal{Sym: "K"}
	I = &Terminal{Sym: "I"}
	B = &Terminal{Sym: "B"}
	C = &Terminal{Sym: "C"}
)

// SKIApp is combinator application.
type SKIApp struct {
	Fn  SKITerm
	Arg SKITerm
}

func (t *SKIApp) skiTerm() {}

// String renders the expression in the object grammar
// expr := 'S' | 'K' | 'I' | '(' expr expr ')'.
func (t *SKIApp) String() string {
	return "(" + t.Fn.String() + " " + t.Arg.String() + ")"
}
