// Package depgraph builds the cross-module dependency graph over qualified
// names and computes its strongly connected components.
package depgraph

import (
	"sort"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/set"
	"github.com/triplang/tripc/internal/space"
)

// Graph is a directed graph over definition qualified names. An edge q → t
// means q's body references t.
type Graph struct {
	Nodes []ast.QualifiedName
	Edges map[ast.QualifiedName][]ast.QualifiedName
}

// Build constructs the dependency graph for every definition in the space.
//
// The graph is a best-effort over-approximation: a free name that matches
// neither the module's import environment nor a local definition is left out
// here and either resolved through the export index at substitution time or
// reported then.
func Build(s *space.Space) *Graph {
	g := &Graph{Edges: make(map[ast.QualifiedName][]ast.QualifiedName)}

	for _, q := range s.QualifiedNames() {
		def, ok := s.Lookup(q)
		if !ok {
			continue
		}
		g.Nodes = append(g.Nodes, q)

		refs := freevars.Definition(def)
		targets := set.NewSet[ast.QualifiedName]()

		for name := range refs.Terms {
			if target, ok := s.TermEnv[q.Module][name]; ok {
				if _, present := s.Terms[target]; present {
					targets.Add(target)
					continue
				}
			}
			local := ast.QualifiedName{Module: q.Module, Name: name}
			if _, present := s.Terms[local]; present {
				targets.Add(local)
			}
		}
		for name := range refs.Types {
			if target, ok := s.TypeEnv[q.Module][name]; ok {
				if _, present := s.Types[target]; present {
					targets.Add(target)
					continue
				}
			}
			local := ast.QualifiedName{Module: q.Module, Name: name}
			if _, present := s.Types[local]; present {
				targets.Add(local)
			}
		}

		edges := targets.ToSlice()
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].String() < edges[j].String()
		})
		g.Edges[q] = edges
	}

	return g
}

// tarjanFrame is one suspended visit on the explicit work stack.
type tarjanFrame struct {
	v    ast.QualifiedName
	next int // index of the next successor to consider
}

// SCCs computes strongly connected components with Tarjan's algorithm,
// implemented iteratively so deeply nested dependency chains cannot exhaust
// the call stack. Components are returned in topological order of the
// condensation: deepest first, then its dependents.
func (g *Graph) SCCs() [][]ast.QualifiedName {
	index := 0
	indices := make(map[ast.QualifiedName]int, len(g.Nodes))
	lowlinks := make(map[ast.QualifiedName]int, len(g.Nodes))
	onStack := make(map[ast.QualifiedName]bool, len(g.Nodes))
	stack := make([]ast.QualifiedName, 0, len(g.Nodes))
	var sccs [][]ast.QualifiedName

	visit := func(root ast.QualifiedName) {
		work := []tarjanFrame{{v: root}}
		indices[root] = index
		lowlinks[root] = index
		index++
		stack = append(stack, root)
		onStack[root] = true

		for len(work) > 0 {
			frame := &work[len(work)-1]
			v := frame.v
			succ := g.Edges[v]

			if frame.next < len(succ) {
				w := succ[frame.next]
				frame.next++
				if _, visited := indices[w]; !visited {
					indices[w] = index
					lowlinks[w] = index
					index++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, tarjanFrame{v: w})
				} else if onStack[w] {
					if indices[w] < lowlinks[v] {
						lowlinks[v] = indices[w]
					}
				}
				continue
			}

			// All successors done: pop the frame and fold the lowlink into
			// the parent, emitting an SCC if v is a root.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].v
				if lowlinks[v] < lowlinks[parent] {
					lowlinks[parent] = lowlinks[v]
				}
			}
			if lowlinks[v] == indices[v] {
				var scc []ast.QualifiedName
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}

	for _, v := range g.Nodes {
		if _, visited := indices[v]; !visited {
			visit(v)
		}
	}

	return sccs
}

// IsCyclic reports whether an SCC needs fixpoint iteration: either it has
// multiple members, or its single member references itself.
func (g *Graph) IsCyclic(scc []ast.QualifiedName) bool {
	if len(scc) > 1 {
		return true
	}
	v := scc[0]
	for _, w := range g.Edges[v] {
		if w == v {
			return true
		}
	}
	return false
}
