package ops

// Mul: output = a * b.
//
// Forward pass (product rule):
//   - d(a*b) = da*b + a*db
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = adjoint * b
//   - d(a*b)/db = a, so grad_b = adjoint * a

func mulEval(a, b Operand) float64 {
	return a.Value * b.Value
}

func mulForward(a, b Operand) float64 {
	return a.Forward*b.Value + a.Value*b.Forward
}

func mulAdjoint(adjoint float64, a, b Operand) Grads {
	return Grads{adjoint * b.Value, adjoint * a.Value}
}
