// Package optim implements gradient-based optimizers over scalar graph leaves.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Gradients: forward-mode or reverse-mode gradient of a loss
//
// Parameters are leaf Vars: optimizers read their current values and write
// updates back with Assign.
//
// Example usage:
//
//	params := []autodiff.Var{w, b}
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.005})
//
//	for epoch := range epochs {
//	    x.Assign(xData)
//	    y.Assign(yData)
//	    optim.Minimize(loss, optimizer, optim.ReverseMode)
//	}
package optim

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/internal/autodiff"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - Params: The leaves being optimized, in gradient order
//   - GetLR/SetLR: Current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies one update. grads[i] is the partial of the loss with
	// respect to Params()[i].
	Step(grads []float64)

	// Params returns the optimized leaves.
	Params() []autodiff.Var

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// GradientMode selects how gradients are computed.
type GradientMode int

const (
	// ReverseMode runs one backward pass for all parameters.
	ReverseMode GradientMode = iota
	// ForwardMode runs one forward pass per parameter.
	ForwardMode
)

// String implements fmt.Stringer.
func (m GradientMode) String() string {
	switch m {
	case ReverseMode:
		return "reverse"
	case ForwardMode:
		return "forward"
	}
	return fmt.Sprintf("GradientMode(%d)", int(m))
}

// ParseGradientMode parses "forward" or "reverse" (also "backward").
func ParseGradientMode(s string) (GradientMode, error) {
	switch s {
	case "reverse", "backward":
		return ReverseMode, nil
	case "forward":
		return ForwardMode, nil
	}
	return 0, errors.Errorf("unknown gradient mode %q, want forward or reverse", s)
}

// Gradients returns the partials of loss with respect to params.
func Gradients(loss autodiff.Var, params []autodiff.Var, mode GradientMode) []float64 {
	switch mode {
	case ForwardMode:
		return autodiff.ForwardGradient(loss, params...)
	case ReverseMode:
		return autodiff.ReverseGradient(loss, params...)
	}
	exceptions.Panicf("optim: unknown gradient mode %s", mode)
	return nil
}

// Minimize computes the gradient of loss with respect to the optimizer's
// parameters, applies one step and returns the loss value before the step.
func Minimize(loss autodiff.Var, opt Optimizer, mode GradientMode) float64 {
	grads := Gradients(loss, opt.Params(), mode)
	// Both modes leave the values of the current point in place, but forward
	// mode runs no pass at all without parameters.
	value := loss.LastValue()
	if len(grads) == 0 {
		value = loss.Value()
	}
	opt.Step(grads)
	if klog.V(3).Enabled() {
		klog.Infof("optim: loss=%g grads=%v", value, grads)
	}
	return value
}

func checkParams(params []autodiff.Var) {
	for _, p := range params {
		if !p.IsLeaf() {
			exceptions.Panicf("optim: parameter %s is not a leaf", p)
		}
	}
}

func checkGrads(params []autodiff.Var, grads []float64) {
	if len(grads) != len(params) {
		exceptions.Panicf("optim: got %d gradients for %d parameters", len(grads), len(params))
	}
}
