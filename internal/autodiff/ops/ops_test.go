package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		name   string
		symbol string
		arity  int
	}{
		{Constant, "Constant", "const", 0},
		{Add, "Add", "+", 2},
		{Sub, "Sub", "-", 2},
		{Neg, "Neg", "neg", 1},
		{Mul, "Mul", "*", 2},
		{Div, "Div", "/", 2},
		{Pow, "Pow", "**", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.kind.String())
		assert.Equal(t, tt.symbol, tt.kind.Symbol())
		assert.Equal(t, tt.arity, tt.kind.Arity())
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Panics(t, func() { Kind(99).Arity() })
}

func TestConstantForward(t *testing.T) {
	assert.Equal(t, 1.0, ConstantForward(true))
	assert.Equal(t, 0.0, ConstantForward(false))
}

// TestRules checks every variant's three rules on fixed operands, with
// the operands' forward derivatives standing for da and db.
func TestRules(t *testing.T) {
	a := Operand{Value: 3, Forward: 1}
	b := Operand{Value: 2, Forward: 0.5}
	tests := []struct {
		kind    Kind
		in      []Operand
		value   float64
		forward float64
		grads   Grads
	}{
		{Add, []Operand{a, b}, 5, 1.5, Grads{2, 2}},
		{Sub, []Operand{a, b}, 1, 0.5, Grads{2, -2}},
		{Neg, []Operand{a}, -3, -1, Grads{-2, 0}},
		{Mul, []Operand{a, b}, 6, 1*2 + 3*0.5, Grads{2 * 2, 2 * 3}},
		{Div, []Operand{a, b}, 1.5, 1.0/2 - 0.5*3/4, Grads{2.0 / 2, -2 * 3.0 / 4}},
		{
			Pow, []Operand{a, b}, 9,
			9 * (0.5*math.Log(3) + 2*1.0/3),
			Grads{2 * 2 * 3, 2 * 9 * math.Log(3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			value := Eval(tt.kind, tt.in)
			assert.InDelta(t, tt.value, value, 1e-12)
			assert.InDelta(t, tt.forward, Forward(tt.kind, tt.in, value), 1e-12)
			grads := Adjoint(tt.kind, 2, value, tt.in)
			assert.InDeltaSlice(t, tt.grads[:], grads[:], 1e-12)
		})
	}
}

func TestPow_PowerRule(t *testing.T) {
	base := Operand{Value: -2, Forward: 1}
	for _, fwd := range []float64{0, 1e-7, -8e-7} {
		exponent := Operand{Value: 3, Forward: fwd}
		value := Eval(Pow, []Operand{base, exponent})
		assert.Equal(t, -8.0, value)
		// Below tolerance the exponent counts as constant: plain power rule,
		// finite even though ln(-2) is not.
		assert.Equal(t, 12.0, Forward(Pow, []Operand{base, exponent}, value))
	}

	exponent := Operand{Value: 3, Forward: 1e-3}
	assert.True(t, math.IsNaN(Forward(Pow, []Operand{base, exponent}, -8)))
}

func TestPow_ExponentAdjointDomain(t *testing.T) {
	for _, baseValue := range []float64{0, -1.5} {
		in := []Operand{{Value: baseValue}, {Value: 2}}
		grads := Adjoint(Pow, 1, Eval(Pow, in), in)
		assert.InDelta(t, 2*baseValue, grads[0], 1e-12)
		assert.True(t, math.IsNaN(grads[1]))
	}
}

func TestDiv_ByZero(t *testing.T) {
	in := []Operand{{Value: 1}, {Value: 0}}
	assert.True(t, math.IsInf(Eval(Div, in), 1))
	grads := Adjoint(Div, 1, math.Inf(1), in)
	assert.True(t, math.IsInf(grads[0], 1))
}

// TestRules_FiniteDifferences checks the adjoint rules against central
// differences of Eval.
func TestRules_FiniteDifferences(t *testing.T) {
	const eps = 1e-6
	point := []Operand{{Value: 1.7}, {Value: 0.6}}
	for _, kind := range []Kind{Add, Sub, Neg, Mul, Div, Pow} {
		in := point[:kind.Arity()]
		grads := Adjoint(kind, 1, Eval(kind, in), in)
		for i := range in {
			plus := append([]Operand(nil), in...)
			minus := append([]Operand(nil), in...)
			plus[i].Value += eps
			minus[i].Value -= eps
			numerical := (Eval(kind, plus) - Eval(kind, minus)) / (2 * eps)
			assert.InDelta(t, numerical, grads[i], 1e-6, "%s operand %d", kind, i)
		}
	}
}

func TestRules_ArityChecks(t *testing.T) {
	assert.Panics(t, func() { Eval(Add, []Operand{{Value: 1}}) })
	assert.Panics(t, func() { Forward(Neg, []Operand{{}, {}}, 0) })
	assert.Panics(t, func() { Adjoint(Constant, 1, 0, nil) })
}
