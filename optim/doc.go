// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms over scalar graph leaves.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//   - Gradients and Minimize, which differentiate a loss in forward or reverse mode
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/adgraph/autodiff"
//	    "github.com/born-ml/adgraph/optim"
//	)
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    w, b, x, y := g.Var("w"), g.Var("b"), g.Var("x"), g.Var("y")
//	    loss := y.Sub(w.Mul(x).Add(b)).PowScalar(2)
//	    w.Assign(0.1)
//	    b.Assign(-0.1)
//
//	    // Create optimizer
//	    optimizer := optim.NewSGD(
//	        []autodiff.Var{w, b},
//	        optim.SGDConfig{LR: 0.005},
//	    )
//
//	    // Training loop
//	    for epoch := range 1000 {
//	        for i := range xs {
//	            x.Assign(xs[i])
//	            y.Assign(ys[i])
//	            optim.Minimize(loss, optimizer, optim.ReverseMode)
//	        }
//	    }
//	}
//
// # Gradient Modes
//
// ReverseMode runs a single backward pass per step. ForwardMode runs one
// forward pass per parameter. Both produce the same gradients up to
// floating point rounding.
//
// # Manual Steps
//
//	grads := optim.Gradients(loss, optimizer.Params(), optim.ForwardMode)
//	optimizer.Step(grads)
package optim
