package ops

// Div: output = a / b.
//
// Forward pass (quotient rule):
//   - d(a/b) = da/b - db*a/b²
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = adjoint / b
//   - d(a/b)/db = -a/b², so grad_b = -adjoint * a / b²
//
// Division by zero is not intercepted: results follow IEEE-754 (Inf or NaN).

func divEval(a, b Operand) float64 {
	return a.Value / b.Value
}

func divForward(a, b Operand) float64 {
	return a.Forward/b.Value - b.Forward*a.Value/(b.Value*b.Value)
}

func divAdjoint(adjoint float64, a, b Operand) Grads {
	return Grads{adjoint / b.Value, -adjoint * a.Value / (b.Value * b.Value)}
}
