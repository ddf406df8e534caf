package ops

import "math"

// PowerRuleTolerance is the largest absolute exponent forward derivative for
// which Pow's forward rule treats the exponent as constant.
const PowerRuleTolerance = 9e-7

// Pow: output = a ** b, a is the base and b the exponent.
//
// Forward pass:
//   - exponent constant w.r.t. the seed: b * a^(b-1) * da (power rule)
//   - otherwise: a^b * (db*ln(a) + b*da/a)
//
// Backward pass:
//   - grad_a = adjoint * b * a^(b-1)
//   - grad_b = adjoint * a^b * ln(a), NaN when a <= 0

func powEval(a, b Operand) float64 {
	return math.Pow(a.Value, b.Value)
}

func powForward(a, b Operand, value float64) float64 {
	if math.Abs(b.Forward) < PowerRuleTolerance {
		return b.Value * math.Pow(a.Value, b.Value-1) * a.Forward
	}
	return value * (b.Forward*math.Log(a.Value) + b.Value*a.Forward/a.Value)
}

func powAdjoint(adjoint, value float64, a, b Operand) Grads {
	gradA := adjoint * b.Value * math.Pow(a.Value, b.Value-1)
	gradB := math.NaN()
	if a.Value > 0 {
		gradB = adjoint * value * math.Log(a.Value)
	}
	return Grads{gradA, gradB}
}
