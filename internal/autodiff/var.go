package autodiff

import (
	"fmt"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// Var is a handle to a node of a Graph. It is a small value type: copies
// refer to the same node, and two Vars are the same node iff they are ==.
//
// The zero Var is invalid, and every method except IsValid and String panics
// on it.
type Var struct {
	graph *Graph
	id    NodeID
}

// IsValid reports whether v refers to a node.
func (v Var) IsValid() bool {
	return v.graph != nil && v.id >= 0 && int(v.id) < len(v.graph.nodes)
}

// Graph returns the graph owning v.
func (v Var) Graph() *Graph {
	v.mustValid()
	return v.graph
}

// ID returns v's arena index.
func (v Var) ID() NodeID {
	v.mustValid()
	return v.id
}

// Name returns the display label of v. Composite nodes are named after their
// operator symbol.
func (v Var) Name() string {
	return v.n().name
}

// Kind returns v's operator variant.
func (v Var) Kind() ops.Kind {
	return v.n().kind
}

// IsLeaf reports whether v is a Constant (a leaf).
func (v Var) IsLeaf() bool {
	return v.n().kind == ops.Constant
}

// Children returns v's operands in operand order.
func (v Var) Children() []Var {
	return v.graph.vars(v.n().children)
}

// Parents returns the nodes using v as an operand, one entry per use. A node
// using v twice (x*x) appears twice.
func (v Var) Parents() []Var {
	return v.graph.vars(v.n().parents)
}

// Assign sets the value of a leaf. Assigning to a composite node panics: its
// value is owned by evaluation.
func (v Var) Assign(value float64) {
	n := v.n()
	if n.kind != ops.Constant {
		exceptions.Panicf("autodiff: cannot assign to %s node %s, only leaves can be assigned", n.kind, v)
	}
	n.value = value
}

// LastValue returns the value slot as left by the last pass, without
// evaluating.
func (v Var) LastValue() float64 {
	return v.n().value
}

// LastForward returns the forward derivative slot as left by the last
// Forward pass. It is only meaningful for the seed of that pass.
func (v Var) LastForward() float64 {
	return v.n().forward
}

// Grad returns v's adjoint: the partial derivative of the root of the last
// Backward pass with respect to v. NaN before any Backward pass.
func (v Var) Grad() float64 {
	return v.n().adjoint
}

// Adjoint is an alias of Grad.
func (v Var) Adjoint() float64 {
	return v.Grad()
}

// String implements fmt.Stringer.
func (v Var) String() string {
	if !v.IsValid() {
		return "Var(invalid)"
	}
	n := &v.graph.nodes[v.id]
	if n.kind == ops.Constant {
		return fmt.Sprintf("%s#%d", n.name, v.id)
	}
	return fmt.Sprintf("%s(%s)#%d", n.kind, n.name, v.id)
}

func (v Var) n() *node {
	v.mustValid()
	return &v.graph.nodes[v.id]
}

func (v Var) mustValid() {
	if v.graph == nil {
		exceptions.Panicf("autodiff: operation on invalid (zero) Var")
	}
	v.graph.check(v.id)
}

func (g *Graph) vars(ids []NodeID) []Var {
	out := make([]Var, len(ids))
	for i, id := range ids {
		out[i] = Var{graph: g, id: id}
	}
	return out
}
