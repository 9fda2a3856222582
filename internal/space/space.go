// Package space builds the linker's working state: loaded modules, the
// global qualified-name indices, the per-module import environments and the
// export index.
package space

import (
	"sort"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/diag"
	"github.com/triplang/tripc/internal/object"
	"github.com/triplang/tripc/internal/set"
)

// LoadedModule is one module registered in the program space.
type LoadedModule struct {
	Name    string
	Defs    map[string]ast.Definition
	Exports set.Set[string]
	Imports []ast.ImportDecl
}

// Space indexes every loaded module and definition. Modules are loaded once
// and never replaced; definitions are swapped in place as resolution
// proceeds.
type Space struct {
	Modules     map[string]*LoadedModule
	ModuleOrder []string

	// Terms and Types map qualified names to their current definition. Type
	// aliases live in Types; every other value-bearing kind lives in Terms.
	Terms map[ast.QualifiedName]ast.Definition
	Types map[ast.QualifiedName]ast.Definition

	// TermEnv and TypeEnv map, per module, a local name introduced by an
	// import to the qualified name it refers to.
	TermEnv map[string]map[string]ast.QualifiedName
	TypeEnv map[string]map[string]ast.QualifiedName

	// exporters maps each exported local name to the modules exporting it.
	// Construction fails on ambiguity, so each slice is a singleton in any
	// space that exists.
	exporters map[string][]string
}

// FromObjects builds a program space from deserialised objects, in order.
// Construction runs the three passes of the linker front half: registration,
// export validation, and environment building.
func FromObjects(objs []*object.Object) (*Space, error) {
	s := &Space{
		Modules:   make(map[string]*LoadedModule),
		Terms:     make(map[ast.QualifiedName]ast.Definition),
		Types:     make(map[ast.QualifiedName]ast.Definition),
		TermEnv:   make(map[string]map[string]ast.QualifiedName),
		TypeEnv:   make(map[string]map[string]ast.QualifiedName),
		exporters: make(map[string][]string),
	}

	// Pass 1: register modules and index definitions.
	for _, o := range objs {
		if _, loaded := s.Modules[o.Module]; loaded {
			return nil, diag.Errorf(diag.DuplicateDefinition,
				"module %s loaded twice", o.Module)
		}
		mod := &LoadedModule{
			Name:    o.Module,
			Defs:    make(map[string]ast.Definition, len(o.Definitions)),
			Exports: set.FromSlice(o.Exports),
			Imports: o.Imports,
		}
		s.Modules[o.Module] = mod
		s.ModuleOrder = append(s.ModuleOrder, o.Module)
		s.TermEnv[o.Module] = make(map[string]ast.QualifiedName)
		s.TypeEnv[o.Module] = make(map[string]ast.QualifiedName)

		for _, name := range sortedMapKeys(o.Definitions) {
			if err := s.Register(o.Module, o.Definitions[name]); err != nil {
				return nil, err
			}
		}
	}

	// Pass 2: validate export uniqueness across modules.
	for _, modName := range s.ModuleOrder {
		mod := s.Modules[modName]
		for _, name := range sortedSet(mod.Exports) {
			s.exporters[name] = append(s.exporters[name], modName)
		}
	}
	for _, name := range sortedMapKeys(s.exporters) {
		mods := s.exporters[name]
		if len(mods) > 1 {
			sort.Strings(mods)
			return nil, &diag.LinkError{
				Code:       diag.AmbiguousExport,
				Message:    "symbol " + name + " exported by multiple modules",
				Symbol:     name,
				Candidates: mods,
			}
		}
	}

	// Pass 3: build per-module import environments.
	for _, modName := range s.ModuleOrder {
		mod := s.Modules[modName]
		for _, imp := range mod.Imports {
			if err := s.registerImport(modName, imp); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Register inserts a definition into a module's local map and the matching
// global index. The data expander uses it for generated definitions as well.
func (s *Space) Register(module string, def ast.Definition) error {
	mod := s.Modules[module]
	name := def.DefName()
	if _, dup := mod.Defs[name]; dup {
		return diag.Errorf(diag.DuplicateDefinition,
			"%s defined twice in module %s", name, module)
	}
	mod.Defs[name] = def

	q := ast.QualifiedName{Module: module, Name: name}
	if def.Kind() == ast.KindType {
		s.Types[q] = def
	} else {
		s.Terms[q] = def
	}
	return nil
}

func (s *Space) registerImport(module string, imp ast.ImportDecl) error {
	from, loaded := s.Modules[imp.From]
	if !loaded {
		return diag.Errorf(diag.UnknownModule,
			"module %s imports %s from unknown module %s", module, imp.Name, imp.From)
	}
	if !from.Exports.Contains(imp.Name) {
		return diag.Errorf(diag.NotExported,
			"module %s does not export %s (imported by %s)", imp.From, imp.Name, module)
	}

	local := imp.LocalName()
	if _, dup := s.TermEnv[module][local]; dup {
		return diag.Errorf(diag.DuplicateImport,
			"module %s imports %s twice", module, local)
	}
	if _, dup := s.TypeEnv[module][local]; dup {
		return diag.Errorf(diag.DuplicateImport,
			"module %s imports %s twice", module, local)
	}

	// Infer the import's kind from where the source symbol lives. Data
	// declarations have not been expanded yet, so the declared type counts
	// as a type and its constructors count as terms.
	q := ast.QualifiedName{Module: imp.From, Name: imp.Name}
	if _, isType := s.Types[q]; isType {
		s.TypeEnv[module][local] = q
		return nil
	}
	if def, isTerm := s.Terms[q]; isTerm {
		if def.Kind() == ast.KindData {
			s.TypeEnv[module][local] = q
		} else {
			s.TermEnv[module][local] = q
		}
		return nil
	}
	for _, def := range from.Defs {
		data, isData := def.(*ast.DataDef)
		if !isData {
			continue
		}
		for _, c := range data.Constructors {
			if c.Name == imp.Name {
				s.TermEnv[module][local] = q
				return nil
			}
		}
	}
	return diag.Errorf(diag.NoSuchSymbol,
		"%s.%s is neither a term nor a type", imp.From, imp.Name)
}

// Lookup returns the current definition for a qualified name, checking terms
// first, then types.
func (s *Space) Lookup(q ast.QualifiedName) (ast.Definition, bool) {
	if d, ok := s.Terms[q]; ok {
		return d, true
	}
	if d, ok := s.Types[q]; ok {
		return d, true
	}
	return nil, false
}

// Update writes a resolved definition back to both the module's local map
// and the global index.
func (s *Space) Update(q ast.QualifiedName, def ast.Definition) {
	s.Modules[q.Module].Defs[q.Name] = def
	if def.Kind() == ast.KindType {
		s.Types[q] = def
	} else {
		// Lowering changes a definition's kind, but every value kind lives
		// in Terms, so the index entry is simply overwritten.
		s.Terms[q] = def
	}
}

// Replace removes the definition under q and registers def under the same
// module. The data expander uses it to swap a data declaration for its
// expansion.
func (s *Space) Replace(q ast.QualifiedName, def ast.Definition) {
	mod := s.Modules[q.Module]
	delete(mod.Defs, q.Name)
	delete(s.Terms, q)
	delete(s.Types, q)
	mod.Defs[def.DefName()] = def
	nq := ast.QualifiedName{Module: q.Module, Name: def.DefName()}
	if def.Kind() == ast.KindType {
		s.Types[nq] = def
	} else {
		s.Terms[nq] = def
	}
}

// Exporters returns the modules exporting a local name, sorted.
func (s *Space) Exporters(name string) []string {
	mods := append([]string(nil), s.exporters[name]...)
	sort.Strings(mods)
	return mods
}

// FindMain locates the unique exported main entry point.
func (s *Space) FindMain() (ast.QualifiedName, error) {
	mods := s.Exporters("main")
	switch len(mods) {
	case 0:
		return ast.QualifiedName{}, diag.Errorf(diag.NoMain, "no module exports main")
	case 1:
		q := ast.QualifiedName{Module: mods[0], Name: "main"}
		if _, isType := s.Types[q]; isType {
			return ast.QualifiedName{}, diag.Errorf(diag.MainIsType,
				"main in module %s is a type alias", mods[0])
		}
		return q, nil
	default:
		return ast.QualifiedName{}, &diag.LinkError{
			Code:       diag.AmbiguousMain,
			Message:    "main exported by multiple modules",
			Symbol:     "main",
			Candidates: mods,
		}
	}
}

// QualifiedNames returns every definition's qualified name in deterministic
// order: module load order, then local name.
func (s *Space) QualifiedNames() []ast.QualifiedName {
	var out []ast.QualifiedName
	for _, modName := range s.ModuleOrder {
		mod := s.Modules[modName]
		for _, name := range sortedMapKeys(mod.Defs) {
			out = append(out, ast.QualifiedName{Module: modName, Name: name})
		}
	}
	return out
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(s set.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
