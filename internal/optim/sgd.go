package optim

import (
	"fmt"

	"github.com/born-ml/adgraph/internal/autodiff"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD([]autodiff.Var{w, b}, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []autodiff.Var
	lr         float64
	momentum   float64
	velocities []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over the given leaves.
func NewSGD(params []autodiff.Var, config SGDConfig) *SGD {
	checkParams(params)
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([]float64, len(params)),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(grads []float64) {
	checkGrads(s.params, grads)
	for i, param := range s.params {
		update := grads[i]
		if s.momentum != 0 {
			s.velocities[i] = s.momentum*s.velocities[i] + grads[i]
			update = s.velocities[i]
		}
		param.Assign(param.LastValue() - s.lr*update)
	}
}

// Params returns the optimized leaves.
func (s *SGD) Params() []autodiff.Var {
	return s.params
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}" -> velocity.
func (s *SGD) StateDict() map[string]float64 {
	stateDict := make(map[string]float64)
	if s.momentum == 0 {
		return stateDict
	}
	for i, velocity := range s.velocities {
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity
	}
	return stateDict
}

// LoadStateDict restores velocity buffers exported by StateDict. Missing keys
// leave the corresponding velocity unchanged.
func (s *SGD) LoadStateDict(stateDict map[string]float64) {
	for i := range s.velocities {
		if velocity, ok := stateDict[fmt.Sprintf("velocity.%d", i)]; ok {
			s.velocities[i] = velocity
		}
	}
}
