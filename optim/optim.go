// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/adgraph/autodiff"
	"github.com/born-ml/adgraph/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// GradientMode selects forward-mode or reverse-mode differentiation.
type GradientMode = optim.GradientMode

// Gradient modes.
const (
	ReverseMode = optim.ReverseMode
	ForwardMode = optim.ForwardMode
)

// ParseGradientMode parses "forward", "reverse" or "backward".
func ParseGradientMode(s string) (GradientMode, error) {
	return optim.ParseGradientMode(s)
}

// Gradients returns the partials of loss with respect to params.
func Gradients(loss autodiff.Var, params []autodiff.Var, mode GradientMode) []float64 {
	return optim.Gradients(loss, params, mode)
}

// Minimize takes one optimizer step on loss and returns the loss value
// before the step.
func Minimize(loss autodiff.Var, opt Optimizer, mode GradientMode) float64 {
	return optim.Minimize(loss, opt, mode)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(
//	    []autodiff.Var{w, b},
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
func NewSGD(params []autodiff.Var, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(
//	    []autodiff.Var{w, b},
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
func NewAdam(params []autodiff.Var, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
