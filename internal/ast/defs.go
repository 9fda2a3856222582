package ast

import (
	"fmt"
	"strings"
)

// Definition kind discriminators, matching the object format.
const (
	KindPoly       = "poly"
	KindTyped      = "typed"
	KindUntyped    = "untyped"
	KindCombinator = "combinator"
	KindType       = "type"
	KindData       = "data"
	KindModule     = "module"
	KindImport     = "import"
	KindExport     = "export"
)

// Definition is a module-level declaration.
type Definition interface {
	definition()
	DefName() string
	Kind() string
}

// PolyDef is a System F definition. Type is the optional declared type.
// Rec marks a definition whose body may reference its own name.
type PolyDef struct {
	Name string
	Type BaseType
	Term PolyTerm
	Rec  bool
}

func (d *PolyDef) definition() {}
func (d *PolyDef) DefName() string { return d.Name }
func (d *PolyDef) Kind() string    { return KindPoly }

// TypedDef is a simply typed definition.
type TypedDef struct {
	Name string
	Type BaseType
	Term TypedTerm
}

func (d *TypedDef) definition() {}
func (d *TypedDef) DefName() string { return d.Name }
func (d *TypedDef) Kind() string    { return KindTyped }

// UntypedDef is an untyped lambda definition.
type UntypedDef struct {
	Name string
	Term UntypedTerm
}

func (d *UntypedDef) definition() {}
func (d *UntypedDef) DefName() string { return d.Name }
func (d *UntypedDef) Kind() string    { return KindUntyped }

// CombinatorDef is a raw SKI definition.
type CombinatorDef struct {
	Name string
	Term SKITerm
}

func (d *CombinatorDef) definition() {}
func (d *CombinatorDef) DefName() string { return d.Name }
func (d *CombinatorDef) Kind() string    { return KindCombinator }

// TypeDef is a type alias.
type TypeDef struct {
	Name string
	Type BaseType
}

func (d *TypeDef) definition() {}
func (d *TypeDef) DefName() string { return d.Name }
func (d *TypeDef) Kind() string    { return KindType }

// Constructor is one alternative of a data declaration.
type Constructor struct {
	Name   string
	Fields []BaseType
}

// DataDef is an algebraic data declaration. It is expanded away before
// resolution into a type alias plus one poly definition per constructor.
type DataDef struct {
	Name         string
	TypeParams   []string
	Constructors []Constructor
}

func (d *DataDef) definition() {}
func (d *DataDef) DefName() string { return d.Name }
func (d *DataDef) Kind() string    { return KindData }

func (d *DataDef) String() string {
	alts := make([]string, len(d.Constructors))
	for i, c := range d.Constructors {
		parts := []string{c.Name}
		for _, f := range c.Fields {
			parts = append(parts, f.String())
		}
		alts[i] = strings.Join(parts, " ")
	}
	head := d.Name
	if len(d.TypeParams) > 0 {
		head += " " + strings.Join(d.TypeParams, " ")
	}
	return fmt.Sprintf("data %s = %s", head, strings.Join(alts, " | "))
}

// ModuleDecl names the enclosing module.
type ModuleDecl struct {
	Name string
}

func (d *ModuleDecl) definition() {}
func (d *ModuleDecl) DefName() string { return d.Name }
func (d *ModuleDecl) Kind() string    { return KindModule }

// ImportDecl imports Name from module From, optionally renamed to As.
type ImportDecl struct {
	From string
	Name string
	As   string
}

func (d *ImportDecl) definition() {}
func (d *ImportDecl) DefName() string { return d.Name }
func (d *ImportDecl) Kind() string    { return KindImport }

// LocalName returns the name the import binds in the importing module.
func (d *ImportDecl) LocalName() string {
	if d.As != "" {
		return d.As
	}
	return d.Name
}

// ExportDecl marks a local name as exported.
type ExportDecl struct {
	Name string
}

func (d *ExportDecl) definition() {}
func (d *ExportDecl) DefName() string { return d.Name }
func (d *ExportDecl) Kind() string    { return KindExport }

// Value returns the term or type a definition binds, or nil for
// declarations that bind nothing (module, import, export, data).
func Value(d Definition) any {
	switch d := d.(type) {
	case *PolyDef:
		return d.Term
	case *TypedDef:
		return d.Term
	case *UntypedDef:
		return d.Term
	case *CombinatorDef:
		return d.Term
	case *TypeDef:
		return d.Type
	}
	return nil
}
