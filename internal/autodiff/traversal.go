package autodiff

// PostOrder returns every node reachable from v, each exactly once, with
// every node placed after all of its children. v itself is last.
func (v Var) PostOrder() []Var {
	v.mustValid()
	return v.graph.vars(v.graph.postOrder(v.id))
}

// ReverseOrder returns every node reachable from v, each exactly once, with
// every node placed after all of its parents that are reachable from v. v
// itself is first.
func (v Var) ReverseOrder() []Var {
	v.mustValid()
	return v.graph.vars(v.graph.reverseOrder(v.id))
}

// Visit states used by postOrder.
const (
	unvisited uint8 = iota
	expanding
	done
)

// postOrder is an iterative depth-first walk from root. A node is emitted
// once its last child frame has been popped, so shared subexpressions come
// out before any of their users regardless of which parent reached them
// first.
func (g *Graph) postOrder(root NodeID) []NodeID {
	type frame struct {
		id   NodeID
		next int // Index of the next child to expand.
	}
	state := make([]uint8, len(g.nodes))
	order := make([]NodeID, 0, len(g.nodes))
	stack := []frame{{id: root}}
	state[root] = expanding
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := g.nodes[top.id].children
		if top.next < len(children) {
			child := children[top.next]
			top.next++
			if state[child] == unvisited {
				state[child] = expanding
				stack = append(stack, frame{id: child})
			}
			continue
		}
		state[top.id] = done
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}
	return order
}

// reverseOrder is a readiness-gated breadth-first walk from root: a node is
// queued only once every edge from a reachable parent has been consumed, so a
// node is dequeued only after all of its reachable parents. Parents outside
// root's subgraph never gate scheduling.
func (g *Graph) reverseOrder(root NodeID) []NodeID {
	reachable := g.postOrder(root)

	// pending counts the incoming edges each node still waits on. Edges are
	// counted from the children side so repeated operands (x*x) count twice.
	pending := make([]int, len(g.nodes))
	for _, id := range reachable {
		for _, child := range g.nodes[id].children {
			pending[child]++
		}
	}

	order := make([]NodeID, 0, len(reachable))
	queue := make([]NodeID, 0, len(reachable))
	queue = append(queue, root)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, child := range g.nodes[id].children {
			pending[child]--
			if pending[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return order
}
