package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// Value evaluates every node reachable from v, children before parents, and
// returns v's value. It is idempotent: re-run it after reassigning leaves.
// Unassigned leaves are NaN and poison every downstream value.
func (v Var) Value() float64 {
	v.mustValid()
	g := v.graph
	g.evaluate(g.postOrder(v.id))
	return g.nodes[v.id].value
}

// Forward evaluates v, then returns the directional derivative of v with
// respect to the leaf wrt. Every call recomputes from scratch, so a full
// gradient over k inputs takes k calls. If wrt is not reachable from v the
// result is 0.
func (v Var) Forward(wrt Var) float64 {
	v.mustValid()
	wrt.mustValid()
	g := v.graph
	if wrt.graph != g {
		klog.V(2).Infof("autodiff: forward seed %s belongs to another graph", wrt)
	}
	order := g.postOrder(v.id)
	g.evaluate(order)
	g.propagateForward(order, wrt)
	return g.nodes[v.id].forward
}

// ForwardGradient returns the partial derivatives of root with respect to
// each of wrt, running one forward pass per input.
func ForwardGradient(root Var, wrt ...Var) []float64 {
	grads := make([]float64, len(wrt))
	for i, w := range wrt {
		grads[i] = root.Forward(w)
	}
	return grads
}

func (g *Graph) evaluate(order []NodeID) {
	var buf [ops.MaxArity]ops.Operand
	for _, id := range order {
		g.trace.Record(PassValue, id)
		n := &g.nodes[id]
		if n.kind == ops.Constant {
			continue
		}
		n.value = ops.Eval(n.kind, g.operands(id, &buf))
	}
	if klog.V(3).Enabled() && len(order) > 0 {
		root := order[len(order)-1]
		klog.Infof("autodiff: evaluated %d nodes, root #%d = %g", len(order), root, g.nodes[root].value)
	}
}

// propagateForward expects values in order to be current. Leaves are seeded
// by identity: only the node that is seed gets 1.
func (g *Graph) propagateForward(order []NodeID, seed Var) {
	var buf [ops.MaxArity]ops.Operand
	for _, id := range order {
		g.trace.Record(PassForward, id)
		n := &g.nodes[id]
		if n.kind == ops.Constant {
			n.forward = ops.ConstantForward(seed.graph == g && seed.id == id)
			continue
		}
		n.forward = ops.Forward(n.kind, g.operands(id, &buf), n.value)
	}
}
