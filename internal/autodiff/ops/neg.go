package ops

// Neg: output = -a.

func negEval(a Operand) float64 {
	return -a.Value
}

func negForward(a Operand) float64 {
	return -a.Forward
}

func negAdjoint(adjoint float64) Grads {
	return Grads{-adjoint}
}
