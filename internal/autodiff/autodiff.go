// Package autodiff implements scalar automatic differentiation over an
// expression graph.
//
// A Graph is an arena of nodes addressed by NodeID. Builders (Add, Mul, Pow,
// ...) allocate one composite node per call and wire it to its operands, so a
// Var used twice becomes a shared subexpression rather than a copy. The graph
// is therefore a DAG, not a tree.
//
// Three passes read and write per-node scratch slots:
//   - Value: post-order evaluation, children before parents
//   - Forward: post-order forward-mode derivative w.r.t. one seed leaf
//   - Backward: reverse-mode accumulation of the root's adjoint into every
//     reachable node, walking parents before children
//
// Architecture:
//   - Arena: Graph owns all nodes, links are NodeID slices in both directions
//   - Operators: closed set of variants in package ops, dispatched by Kind
//   - Traversals: PostOrder and ReverseOrder, both keyed on node identity
//
// Usage:
//
//	g := autodiff.NewGraph()
//	x, y, z := g.Var("x"), g.Var("y"), g.Var("z")
//	f := x.Mul(y).Add(y.Mul(z))
//	x.Assign(3)
//	y.Assign(5)
//	z.Assign(11)
//
//	f.Value()      // 70
//	f.Forward(y)   // 14
//	f.Backward()
//	y.Grad()       // 14
//
// Passes mutate shared scratch state: run at most one pass at a time over a
// given Graph.
package autodiff

import (
	"math"
	"strconv"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// NodeID is a node's index in its Graph's arena.
type NodeID int

// InvalidNodeID is the id of the zero Var.
const InvalidNodeID = NodeID(-1)

// node is one arena slot. value, forward and adjoint are scratch slots
// overwritten by passes; everything else is fixed at construction.
type node struct {
	name string
	kind ops.Kind

	value   float64
	forward float64
	adjoint float64

	children []NodeID // Operands, in operand order.
	parents  []NodeID // One entry per child edge pointing at this node.
}

// Graph owns the nodes of an expression DAG.
//
// Graph is not safe for concurrent use: every pass writes the value, forward
// and adjoint slots of the nodes it visits.
type Graph struct {
	nodes []node
	trace *Trace
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 32),
		trace: NewTrace(),
	}
}

// NumNodes returns the number of nodes ever created in the graph.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// Trace returns the graph's pass trace for manual control.
func (g *Graph) Trace() *Trace {
	return g.trace
}

// Var creates a named leaf. Its value is NaN until assigned.
func (g *Graph) Var(name string) Var {
	return g.newNode(name, ops.Constant, math.NaN())
}

// Const creates an unnamed leaf holding value. This is what scalar operands
// of the builders are promoted to.
func (g *Graph) Const(value float64) Var {
	return g.newNode(strconv.FormatFloat(value, 'g', -1, 64), ops.Constant, value)
}

// Node returns the Var for id.
func (g *Graph) Node(id NodeID) Var {
	g.check(id)
	return Var{graph: g, id: id}
}

// Leaves returns every leaf of the graph, in creation order.
func (g *Graph) Leaves() []Var {
	var leaves []Var
	for i := range g.nodes {
		if g.nodes[i].kind == ops.Constant {
			leaves = append(leaves, Var{graph: g, id: NodeID(i)})
		}
	}
	return leaves
}

func (g *Graph) newNode(name string, kind ops.Kind, value float64, children ...NodeID) Var {
	if len(children) != kind.Arity() {
		exceptions.Panicf("autodiff: %s takes %d operands, got %d", kind, kind.Arity(), len(children))
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{
		name:     name,
		kind:     kind,
		value:    value,
		forward:  math.NaN(),
		adjoint:  math.NaN(),
		children: children,
	})
	// Back-links are added together with the node, so parents always mirrors
	// children.
	for _, child := range children {
		g.nodes[child].parents = append(g.nodes[child].parents, id)
	}
	return Var{graph: g, id: id}
}

func (g *Graph) check(id NodeID) {
	if id < 0 || int(id) >= len(g.nodes) {
		exceptions.Panicf("autodiff: invalid node id %d, graph has %d nodes", id, len(g.nodes))
	}
}

// operands fills buf with the operand view of id's children.
func (g *Graph) operands(id NodeID, buf *[ops.MaxArity]ops.Operand) []ops.Operand {
	children := g.nodes[id].children
	in := buf[:len(children)]
	for i, child := range children {
		c := &g.nodes[child]
		in[i] = ops.Operand{Value: c.value, Forward: c.forward}
	}
	return in
}
