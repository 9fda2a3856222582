// Package debruijn produces a canonical, binder-name-independent form of
// terms and types. α-equivalent inputs normalise to structurally equal nodes
// and hash to the same value; the resolver keys its fixpoint detection on
// these hashes.
package debruijn

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// Node kinds of the normalised form. Term and type variable spaces are
// tracked independently: a term-level binder does not shift indices inside a
// type annotation, and vice versa.
const (
	KindBound     = "bound"      // term variable, de Bruijn index
	KindBoundType = "bound-type" // type variable, de Bruijn index
	KindFree      = "free"       // free term variable, by name
	KindFreeType  = "free-type"  // free type variable, by name
	KindApp       = "app"
	KindAbs       = "abs"      // untyped abstraction
	KindTypedAbs  = "typed-abs" // simply typed abstraction (annotation child)
	KindSysFAbs   = "sysf-abs" // System F abstraction (annotation child)
	KindTyAbs     = "ty-abs"   // type abstraction
	KindTyApp     = "ty-app"   // term applied to a type
	KindArrow     = "arrow"
	KindTypeApp   = "type-app" // type-level application
	KindForall    = "forall"
	KindTerminal  = "terminal"
)

// Node is a normalised AST node. Binders carry no names; bound occurrences
// carry the distance in binders of the same sort from their binder.
type Node struct {
	Kind  string  `json:"kind"`
	Index int     `json:"index"`
	Name  string  `json:"name,omitempty"`
	Kids  []*Node `json:"kids,omitempty"`
}

// Normalise converts a term (any level) or base type to its canonical form.
func Normalise(node any) *Node {
	return normalise(node, nil, nil)
}

// Canonical serialises the normalised form of node to a deterministic string.
func Canonical(node any) string {
	data, err := json.Marshal(Normalise(node))
	if err != nil {
		// Node is a plain tree of marshalable structs; failure here is a bug.
		panic(fmt.Sprintf("debruijn: canonical encoding failed: %v", err))
	}
	return string(data)
}

// Hash returns the structural hash of node: the hex sha256 of its canonical
// serialisation.
func Hash(node any) string {
	sum := sha256.Sum256([]byte(Canonical(node)))
	return hex.EncodeToString(sum[:])
}

// HashDefinition hashes the value a definition binds, prefixed by its kind so
// that, say, a type alias and an untyped term never collide.
func HashDefinition(d ast.Definition) string {
	v := ast.Value(d)
	if v == nil {
		return d.Kind() + ":" + d.DefName()
	}
	return d.Kind() + ":" + Hash(v)
}

// Equal reports α-equivalence of two terms or types.
func Equal(a, b any) bool {
	return Canonical(a) == Canonical(b)
}

// normalise tracks the two binder stacks; innermost binder first.
func normalise(node any, termB, typeB []string) *Node {
	switch n := node.(type) {
	case *ast.PolyVar:
		return variable(n.Name, termB, KindBound, KindFree)
	case *ast.PolyAbs:
		return &Node{Kind: KindSysFAbs, Kids: []*Node{
			normalise(n.Ann, termB, typeB),
			normalise(n.Body, push(termB, n.Param), typeB),
		}}
	case *ast.TyAbs:
		return &Node{Kind: KindTyAbs, Kids: []*Node{
			normalise(n.Body, termB, push(typeB, n.Var)),
		}}
	case *ast.TyApp:
		return &Node{Kind: KindTyApp, Kids: []*Node{
			normalise(n.Term, termB, typeB),
			normalise(n.Arg, termB, typeB),
		}}
	case *ast.PolyApp:
		return app(normalise(n.Fn, termB, typeB), normalise(n.Arg, termB, typeB))

	case *ast.TypedVar:
		return variable(n.Name, termB, KindBound, KindFree)
	case *ast.TypedAbs:
		return &Node{Kind: KindTypedAbs, Kids: []*Node{
			normalise(n.Ann, termB, typeB),
			normalise(n.Body, push(termB, n.Param), typeB),
		}}
	case *ast.TypedApp:
		return app(normalise(n.Fn, termB, typeB), normalise(n.Arg, termB, typeB))

	case *ast.Var:
		return variable(n.Name, termB, KindBound, KindFree)
	case *ast.Lam:
		return &Node{Kind: KindAbs, Kids: []*Node{
			normalise(n.Body, push(termB, n.Param), typeB),
		}}
	case *ast.App:
		return app(normalise(n.Fn, termB, typeB), normalise(n.Arg, termB, typeB))

	case *ast.Terminal:
		return &Node{Kind: KindTerminal, Name: n.Sym}
	case *ast.SKIApp:
		return app(normalise(n.Fn, termB, typeB), normalise(n.Arg, termB, typeB))

	case *ast.TypeVar:
		return variable(n.Name, typeB, KindBoundType, KindFreeType)
	case *ast.Arrow:
		return &Node{Kind: KindArrow, Kids: []*Node{
			normalise(n.Lft, termB, typeB),
			normalise(n.Rgt, termB, typeB),
		}}
	case *ast.TypeApp:
		return &Node{Kind: KindTypeApp, Kids: []*Node{
			normalise(n.Fn, termB, typeB),
			normalise(n.Arg, termB, typeB),
		}}
	case *ast.Forall:
		return &Node{Kind: KindForall, Kids: []*Node{
			normalise(n.Body, termB, push(typeB, n.Var)),
		}}

	default:
		panic(fmt.Sprintf("debruijn: unknown node %T", node))
	}
}

func variable(name string, binders []string, boundKind, freeKind string) *Node {
	for i, b := range binders {
		if b == name {
			return &Node{Kind: boundKind, Index: i}
		}
	}
	return &Node{Kind: freeKind, Name: name}
}

func app(fn, arg *Node) *Node {
	return &Node{Kind: KindApp, Kids: []*Node{fn, arg}}
}

// push prepends a binder so index 0 is the innermost.
func push(binders []string, name string) []string {
	out := make([]string, 0, len(binders)+1)
	out = append(out, name)
	return append(out, binders...)
}
