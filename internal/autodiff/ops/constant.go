package ops

// ConstantForward is the forward derivative of a leaf: 1 when the leaf is the
// seed of the current forward pass, 0 otherwise. Its value is never computed,
// only assigned.
func ConstantForward(isSeed bool) float64 {
	if isSeed {
		return 1
	}
	return 0
}
