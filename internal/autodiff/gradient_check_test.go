package autodiff_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adgraph/internal/autodiff"
)

// numericalGradient computes the partial derivatives of f at point using
// central finite differences.
func numericalGradient(f func([]float64) float64, point []float64, epsilon float64) []float64 {
	grads := make([]float64, len(point))
	shifted := make([]float64, len(point))
	for i := range point {
		copy(shifted, point)
		shifted[i] = point[i] + epsilon
		plus := f(shifted)
		shifted[i] = point[i] - epsilon
		minus := f(shifted)
		grads[i] = (plus - minus) / (2 * epsilon)
	}
	return grads
}

// gradientCase builds a graph over n inputs and evaluates it directly.
type gradientCase struct {
	name   string
	point  []float64
	build  func(in []autodiff.Var) autodiff.Var
	direct func(in []float64) float64
}

var gradientCases = []gradientCase{
	{
		name:  "polynomial",
		point: []float64{2},
		build: func(in []autodiff.Var) autodiff.Var {
			x := in[0]
			return x.Mul(x).Mul(x).Sub(x.Mul(x).MulScalar(2)).Add(x)
		},
		direct: func(in []float64) float64 {
			x := in[0]
			return x*x*x - 2*x*x + x
		},
	},
	{
		name:   "composite",
		point:  []float64{5},
		build:  func(in []autodiff.Var) autodiff.Var { return in[0].AddScalar(2).MulScalar(3) },
		direct: func(in []float64) float64 { return (in[0] + 2) * 3 },
	},
	{
		name:  "rational",
		point: []float64{1.5, -0.7, 2.2},
		build: func(in []autodiff.Var) autodiff.Var {
			x, y, z := in[0], in[1], in[2]
			return x.Mul(y).Sub(z).Div(x.Mul(x).AddScalar(1)).Neg()
		},
		direct: func(in []float64) float64 {
			x, y, z := in[0], in[1], in[2]
			return -((x*y - z) / (x*x + 1))
		},
	},
	{
		name:  "power tower",
		point: []float64{1.3, 0.8},
		build: func(in []autodiff.Var) autodiff.Var {
			x, y := in[0], in[1]
			return x.Pow(y.Mul(x)).Add(y.PowScalar(3))
		},
		direct: func(in []float64) float64 {
			x, y := in[0], in[1]
			return math.Pow(x, y*x) + math.Pow(y, 3)
		},
	},
	{
		name:  "shared subexpression",
		point: []float64{0.4, 1.9},
		build: func(in []autodiff.Var) autodiff.Var {
			s := in[0].Add(in[1])
			return s.Mul(s).Div(s.AddScalar(1)).Sub(s.Mul(in[0]))
		},
		direct: func(in []float64) float64 {
			s := in[0] + in[1]
			return s*s/(s+1) - s*in[0]
		},
	},
}

func TestGradientCheck(t *testing.T) {
	const epsilon = 1e-6
	for _, tc := range gradientCases {
		t.Run(tc.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			in := make([]autodiff.Var, len(tc.point))
			for i, value := range tc.point {
				in[i] = g.Var("")
				in[i].Assign(value)
			}
			f := tc.build(in)

			require.InDelta(t, tc.direct(tc.point), f.Value(), 1e-12)
			numerical := numericalGradient(tc.direct, tc.point, epsilon)
			forward := autodiff.ForwardGradient(f, in...)
			reverse := autodiff.ReverseGradient(f, in...)
			for i := range tc.point {
				assert.InDelta(t, numerical[i], forward[i], 1e-5, "forward d/dx%d", i)
				assert.InDelta(t, forward[i], reverse[i], 1e-12, "reverse d/dx%d", i)
			}
		})
	}
}

// TestGradientCheck_RandomDAG builds random graphs with heavy sharing and
// checks that forward and reverse mode agree on every input.
func TestGradientCheck_RandomDAG(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for trial := 0; trial < 20; trial++ {
		g := autodiff.NewGraph()
		inputs := make([]autodiff.Var, 4)
		pool := make([]autodiff.Var, 0, 40)
		for i := range inputs {
			inputs[i] = g.Var("")
			inputs[i].Assign(0.5 + rng.Float64())
			pool = append(pool, inputs[i])
		}
		for i := 0; i < 30; i++ {
			a := pool[rng.IntN(len(pool))]
			b := pool[rng.IntN(len(pool))]
			var n autodiff.Var
			switch rng.IntN(4) {
			case 0:
				n = a.Add(b)
			case 1:
				n = a.Sub(b)
			case 2:
				n = a.Mul(b).MulScalar(0.5)
			case 3:
				n = a.Neg()
			}
			pool = append(pool, n)
		}
		f := pool[len(pool)-1]
		for _, v := range pool[len(inputs) : len(pool)-1] {
			if rng.IntN(3) == 0 {
				f = f.Add(v)
			}
		}

		forward := autodiff.ForwardGradient(f, inputs...)
		reverse := autodiff.ReverseGradient(f, inputs...)
		for i := range inputs {
			tol := 1e-9 * math.Max(1, math.Abs(forward[i]))
			assert.InDelta(t, forward[i], reverse[i], tol, "trial %d input %d", trial, i)
		}
	}
}
