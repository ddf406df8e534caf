package ops

// Sub: output = a - b.
//
// Forward pass:
//   - d(a-b) = da - db
//
// Backward pass:
//   - d(a-b)/da = 1, so grad_a = adjoint
//   - d(a-b)/db = -1, so grad_b = -adjoint

func subEval(a, b Operand) float64 {
	return a.Value - b.Value
}

func subForward(a, b Operand) float64 {
	return a.Forward - b.Forward
}

func subAdjoint(adjoint float64) Grads {
	return Grads{adjoint, -adjoint}
}
