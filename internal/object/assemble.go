package object

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/diag"
)

// Assemble builds an object from parsed declarations. The first declaration
// must name the module; imports and exports are collected, and every other
// declaration becomes a definition.
func Assemble(defs []ast.Definition) (*Object, error) {
	if len(defs) == 0 {
		return nil, diag.Errorf(diag.DuplicateDefinition, "empty module")
	}
	mod, ok := defs[0].(*ast.ModuleDecl)
	if !ok {
		return nil, diag.Errorf(diag.DuplicateDefinition,
			"a module declaration must come first")
	}

	o := &Object{
		Module:      mod.Name,
		Definitions: make(map[string]ast.Definition),
	}
	var exports []string
	for _, def := range defs[1:] {
		switch d := def.(type) {
		case *ast.ModuleDecl:
			return nil, diag.Errorf(diag.DuplicateDefinition,
				"module %s declared twice", d.Name)
		case *ast.ImportDecl:
			o.Imports = append(o.Imports, *d)
		case *ast.ExportDecl:
			exports = append(exports, d.Name)
		default:
			name := def.DefName()
			if _, dup := o.Definitions[name]; dup {
				return nil, diag.Errorf(diag.DuplicateDefinition,
					"%s defined twice in module %s", name, o.Module)
			}
			o.Definitions[name] = def
		}
	}

	// Data constructors are exportable even though they only become
	// definitions when the linker expands the declaration.
	exportable := make(map[string]bool, len(o.Definitions))
	for name, def := range o.Definitions {
		exportable[name] = true
		if data, ok := def.(*ast.DataDef); ok {
			for _, c := range data.Constructors {
				exportable[c.Name] = true
			}
		}
	}
	for _, name := range exports {
		if !exportable[name] {
			return nil, diag.Errorf(diag.NoSuchSymbol,
				"module %s exports undefined %s", o.Module, name)
		}
		o.Exports = append(o.Exports, name)
	}
	return o, nil
}
