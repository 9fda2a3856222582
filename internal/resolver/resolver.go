// Package resolver closes cross-module references by fixpoint inlining.
//
// Resolution walks the dependency graph's strongly connected components in
// condensation order. Acyclic components are substituted once; cyclic
// components iterate until a full pass leaves every member's structural hash
// unchanged. Within one pass all members read the same pre-pass snapshot, so
// intra-pass updates cannot cause convergence oscillations.
package resolver

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/config"
	"github.com/triplang/tripc/internal/debruijn"
	"github.com/triplang/tripc/internal/depgraph"
	"github.com/triplang/tripc/internal/diag"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/lower"
	"github.com/triplang/tripc/internal/set"
	"github.com/triplang/tripc/internal/space"
	"github.com/triplang/tripc/internal/subst"
)

var dim = color.New(color.Faint).SprintFunc()

// Resolver drives data expansion, pre-lowering and fixpoint resolution over
// one program space.
type Resolver struct {
	space *space.Space
	caps  config.Caps

	// rec records definitions that carried the rec flag before pre-lowering
	// erased them; their own name is not an external reference.
	rec set.Set[ast.QualifiedName]

	trace io.Writer // nil unless verbose
}

// New creates a resolver over a constructed program space.
func New(s *space.Space, caps config.Caps) *Resolver {
	return &Resolver{space: s, caps: caps, rec: set.NewSet[ast.QualifiedName]()}
}

// SetTrace enables a verbose phase trace.
func (r *Resolver) SetTrace(w io.Writer) { r.trace = w }

func (r *Resolver) tracef(format string, args ...any) {
	if r.trace != nil {
		fmt.Fprintln(r.trace, dim(fmt.Sprintf(format, args...)))
	}
}

// Run performs the full resolution sequence: expand data declarations,
// pre-lower every term definition to the untyped level, then resolve each
// strongly connected component to a fixpoint.
func (r *Resolver) Run() error {
	if err := r.ExpandData(); err != nil {
		return err
	}
	if err := r.PreLower(); err != nil {
		return err
	}
	return r.Resolve()
}

// Resolve builds the dependency graph and closes every definition.
func (r *Resolver) Resolve() error {
	graph := depgraph.Build(r.space)
	sccs := graph.SCCs()
	r.tracef("resolving %d components", len(sccs))

	for _, scc := range sccs {
		members := append([]ast.QualifiedName(nil), scc...)
		sort.Slice(members, func(i, j int) bool {
			return members[i].String() < members[j].String()
		})

		if !graph.IsCyclic(scc) {
			q := members[0]
			def, ok := r.space.Lookup(q)
			if !ok {
				continue
			}
			resolved, err := r.substituteDeps(def, q, nil)
			if err != nil {
				return err
			}
			if resolved != def {
				r.space.Update(q, resolved)
			}
			continue
		}

		if err := r.resolveCycle(members); err != nil {
			return err
		}
	}
	return nil
}

// resolveCycle iterates one cyclic component until its hashes stabilise.
func (r *Resolver) resolveCycle(members []ast.QualifiedName) error {
	r.tracef("cycle: %v", members)

	hashes := make(map[ast.QualifiedName]string, len(members))
	for _, q := range members {
		if def, ok := r.space.Lookup(q); ok {
			hashes[q] = debruijn.HashDefinition(def)
		}
	}

	for pass := 0; pass < r.caps.SCCPasses; pass++ {
		// All members of this pass consult the same pre-pass snapshot.
		snapshot := make(map[ast.QualifiedName]ast.Definition, len(members))
		for _, q := range members {
			if def, ok := r.space.Lookup(q); ok {
				snapshot[q] = def
			}
		}

		updates := make(map[ast.QualifiedName]ast.Definition, len(members))
		for _, q := range members {
			def, ok := snapshot[q]
			if !ok {
				continue
			}
			resolved, err := r.substituteDeps(def, q, snapshot)
			if err != nil {
				return err
			}
			updates[q] = resolved
		}

		stable := true
		for _, q := range members {
			resolved, ok := updates[q]
			if !ok {
				continue
			}
			r.space.Update(q, resolved)
			h := debruijn.HashDefinition(resolved)
			if h != hashes[q] {
				stable = false
				hashes[q] = h
			}
		}
		if stable {
			r.tracef("cycle stable after %d passes", pass+1)
			return nil
		}
	}

	names := make([]string, len(members))
	for i, q := range members {
		names[i] = q.String()
	}
	return &diag.LinkError{
		Code:       diag.UnresolvableCycle,
		Message:    fmt.Sprintf("cycle did not stabilise within %d passes", r.caps.SCCPasses),
		Candidates: names,
	}
}

// substituteDeps inlines every resolvable external reference of one
// definition. snapshot, when non-nil, overrides the global index for
// definitions belonging to the same in-flight cycle pass.
func (r *Resolver) substituteDeps(def ast.Definition, q ast.QualifiedName, snapshot map[ast.QualifiedName]ast.Definition) (ast.Definition, error) {
	refs := r.externalRefs(def, q)
	if refs.IsEmpty() {
		return def, nil
	}

	var err error
	def, err = r.substituteTermRefs(def, q, snapshot)
	if err != nil {
		return nil, err
	}
	return r.substituteTypeRefs(def, q, snapshot)
}

// externalRefs computes a definition's external references, honouring the
// rec flag: a recursive definition's own name is not external.
func (r *Resolver) externalRefs(def ast.Definition, q ast.QualifiedName) freevars.Refs {
	refs := freevars.Definition(def)
	if r.rec.Contains(q) {
		refs.Terms.Remove(q.Name)
	}
	return refs
}

// substituteTermRefs repeatedly batches and applies term substitutions.
// Inlining a definition can introduce that definition's own references, so
// the scan loops, bounded by the configured cap; when the cap is reached the
// remaining references are left for the caller's fixpoint (or its warning
// pass) to deal with.
func (r *Resolver) substituteTermRefs(def ast.Definition, q ast.QualifiedName, snapshot map[ast.QualifiedName]ast.Definition) (ast.Definition, error) {
	target, ok := def.(*ast.UntypedDef)
	if !ok {
		// Combinator definitions are closed; type aliases carry no term refs.
		return def, nil
	}

	for iter := 0; iter < r.caps.TermRefIterations; iter++ {
		refs := r.externalRefs(target, q).Terms
		if refs.Len() == 0 {
			break
		}

		batch := make(map[string]ast.UntypedTerm, refs.Len())
		unionFV := set.NewSet[string]()
		names := refs.ToSlice()
		sort.Strings(names)
		for _, name := range names {
			tq, err := r.resolveTermRef(q.Module, name)
			if err != nil {
				return nil, err
			}
			repl, err := r.termReplacement(tq, snapshot)
			if err != nil {
				return nil, err
			}
			batch[name] = repl
			unionFV = unionFV.Union(freevars.Scan(repl).Terms)
		}

		next := subst.InUntypedDef(target, batch, unionFV)
		if next == target {
			break
		}
		target = next
	}
	return target, nil
}

// resolveTermRef maps a free term name to its defining qualified name:
// through the import environment, then local definitions, then the export
// index.
func (r *Resolver) resolveTermRef(module, name string) (ast.QualifiedName, error) {
	if target, ok := r.space.TermEnv[module][name]; ok {
		if _, present := r.space.Terms[target]; present {
			return target, nil
		}
	}
	local := ast.QualifiedName{Module: module, Name: name}
	if _, present := r.space.Terms[local]; present {
		return local, nil
	}
	candidates := r.space.Exporters(name)
	if len(candidates) == 1 {
		target := ast.QualifiedName{Module: candidates[0], Name: name}
		if _, present := r.space.Terms[target]; present {
			return target, nil
		}
	}
	msg := fmt.Sprintf("%s is not defined in module %s", name, module)
	if len(candidates) > 0 {
		msg += fmt.Sprintf("; did you mean to import it from %s?", candidates[0])
	}
	return ast.QualifiedName{}, &diag.LinkError{
		Code:       diag.UnresolvedSymbol,
		Message:    msg,
		Module:     module,
		Symbol:     name,
		Candidates: candidates,
	}
}

// termReplacement produces the untyped value to inline for a resolved
// reference. Raw combinator definitions embed through their lambda forms.
func (r *Resolver) termReplacement(q ast.QualifiedName, snapshot map[ast.QualifiedName]ast.Definition) (ast.UntypedTerm, error) {
	def, ok := snapshot[q]
	if !ok {
		def, ok = r.space.Terms[q]
	}
	if !ok {
		return nil, diag.Errorf(diag.UnresolvedSymbol, "%s has no definition", q)
	}
	switch def := def.(type) {
	case *ast.UntypedDef:
		return def.Term, nil
	case *ast.CombinatorDef:
		return lower.SKIToUntyped(def.Term), nil
	case *ast.PolyDef:
		return lower.EraseTyped(lower.ErasePoly(def.Term)), nil
	case *ast.TypedDef:
		return lower.EraseTyped(def.Term), nil
	default:
		return nil, diag.Errorf(diag.UnresolvedSymbol,
			"%s (kind %s) cannot be used as a term", q, def.Kind())
	}
}

// substituteTypeRefs resolves type references one at a time. The loop stops
// as soon as a full pass causes no substitution to change the tree: a
// reference that resolves to nothing substitutable survives by design (data
// type names, for instance) rather than being an error.
func (r *Resolver) substituteTypeRefs(def ast.Definition, q ast.QualifiedName, snapshot map[ast.QualifiedName]ast.Definition) (ast.Definition, error) {
	for iter := 0; iter < r.caps.TypeRefIterations; iter++ {
		refs := freevars.Definition(def).Types
		if refs.Len() == 0 {
			return def, nil
		}

		names := refs.ToSlice()
		sort.Strings(names)
		changed := false
		for _, name := range names {
			tq, ok := r.resolveTypeRef(q.Module, name)
			if !ok || tq == q {
				continue
			}
			repl, ok := r.typeReplacement(tq, snapshot)
			if !ok {
				continue
			}
			next := subst.TypeInDefinition(def, name, repl)
			if next != def {
				def = next
				changed = true
			}
		}
		if !changed {
			return def, nil
		}
	}

	if refs := freevars.Definition(def).Types; refs.Len() > 0 {
		names := refs.ToSlice()
		sort.Strings(names)
		return nil, &diag.LinkError{
			Code:       diag.TypeResolutionCap,
			Message:    fmt.Sprintf("type references in %s did not settle within %d passes", q, r.caps.TypeRefIterations),
			Module:     q.Module,
			Candidates: names,
		}
	}
	return def, nil
}

func (r *Resolver) resolveTypeRef(module, name string) (ast.QualifiedName, bool) {
	if target, ok := r.space.TypeEnv[module][name]; ok {
		if _, present := r.space.Types[target]; present {
			return target, true
		}
	}
	local := ast.QualifiedName{Module: module, Name: name}
	if _, present := r.space.Types[local]; present {
		return local, true
	}
	candidates := r.space.Exporters(name)
	if len(candidates) == 1 {
		target := ast.QualifiedName{Module: candidates[0], Name: name}
		if _, present := r.space.Types[target]; present {
			return target, true
		}
	}
	return ast.QualifiedName{}, false
}

func (r *Resolver) typeReplacement(q ast.QualifiedName, snapshot map[ast.QualifiedName]ast.Definition) (ast.BaseType, bool) {
	def, ok := snapshot[q]
	if !ok {
		def, ok = r.space.Types[q]
	}
	if !ok {
		return nil, false
	}
	alias, ok := def.(*ast.TypeDef)
	if !ok {
		return nil, false
	}
	return alias.Type, true
}
