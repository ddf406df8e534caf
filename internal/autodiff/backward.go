package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// Backward evaluates v, then accumulates into every node the partial
// derivative of v with respect to it, in a single reverse pass.
//
// Algorithm:
//  1. Evaluate the graph rooted at v
//  2. Reset every adjoint of the graph to 0 and seed v's adjoint with 1
//  3. Walk nodes in ReverseOrder, so a node's adjoint is final when visited
//  4. Each visited node adds its contribution to its children's adjoints
//
// Read the results with Grad. Nodes not reachable from v end with 0.
func (v Var) Backward() {
	v.mustValid()
	g := v.graph
	g.evaluate(g.postOrder(v.id))
	for i := range g.nodes {
		g.nodes[i].adjoint = 0
	}
	g.nodes[v.id].adjoint = 1

	order := g.reverseOrder(v.id)
	var buf [ops.MaxArity]ops.Operand
	for _, id := range order {
		g.trace.Record(PassBackward, id)
		n := &g.nodes[id]
		if n.kind == ops.Constant {
			continue
		}
		grads := ops.Adjoint(n.kind, n.adjoint, n.value, g.operands(id, &buf))
		for i, child := range n.children {
			g.nodes[child].adjoint += grads[i]
		}
	}
	klog.V(3).Infof("autodiff: backward from %s visited %d nodes", v, len(order))
}

// ReverseGradient returns the partial derivatives of root with respect to
// each of wrt, from a single Backward pass. Inputs from another graph get 0.
func ReverseGradient(root Var, wrt ...Var) []float64 {
	root.Backward()
	grads := make([]float64, len(wrt))
	for i, w := range wrt {
		w.mustValid()
		if w.graph != root.graph {
			// Not reachable from root.
			klog.V(2).Infof("autodiff: gradient w.r.t. %s, which belongs to another graph than %s", w, root)
			continue
		}
		grads[i] = w.Grad()
	}
	return grads
}
