package main

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/autodiff"
	"github.com/born-ml/adgraph/model"
	"github.com/born-ml/adgraph/optim"
)

// initRange bounds the uniform initialization of unset trainable variables.
const initRange = 0.3

// modelOpts are the flags shared by every command that loads a model.
type modelOpts struct {
	sets []string
	seed uint64
}

func (o *modelOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.sets, "set", nil, "assign a variable before running, as name=value (repeatable)")
	cmd.Flags().Uint64Var(&o.seed, "seed", 1, "seed for initializing trainable variables without a value")
}

// load compiles the model at path, applies --set assignments and initializes
// unset trainable variables.
func (o *modelOpts) load(path string) (*model.Model, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	for _, set := range o.sets {
		name, raw, ok := strings.Cut(set, "=")
		if !ok {
			return nil, errors.Errorf("invalid --set %q, want name=value", set)
		}
		v, err := m.Variable(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --set %q", set)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --set %q", set)
		}
		v.Assign(value)
	}
	initTrainable(m.Trainable(), rand.New(rand.NewPCG(o.seed, o.seed)))
	return m, nil
}

// initTrainable draws uniform(-initRange, initRange) values for the params
// that have not been assigned.
func initTrainable(params []autodiff.Var, rng *rand.Rand) {
	for _, p := range params {
		if !math.IsNaN(p.LastValue()) {
			continue
		}
		value := (2*rng.Float64() - 1) * initRange
		p.Assign(value)
		klog.V(1).Infof("initialized %s = %g", p.Name(), value)
	}
}

// rootNode resolves the --node (or --loss) flag and returns the node with
// its model name.
func rootNode(m *model.Model, name string) (autodiff.Var, string, error) {
	if name == "" {
		names := m.NodeNames()
		if len(names) == 0 {
			return autodiff.Var{}, "", errors.New("model declares no nodes")
		}
		// Default to the last declared node.
		name = names[len(names)-1]
	}
	v, ok := m.Lookup(name)
	if !ok {
		return autodiff.Var{}, "", errors.Errorf("unknown node %q", name)
	}
	return v, name, nil
}

// optimizerOpts configure the optimizer of minimize and fit.
type optimizerOpts struct {
	name     string
	lr       float64
	momentum float64
	mode     string
}

func (o *optimizerOpts) addFlags(cmd *cobra.Command, defaultLR float64) {
	cmd.Flags().StringVar(&o.name, "optimizer", "sgd", "optimizer, one of sgd or adam")
	cmd.Flags().Float64Var(&o.lr, "lr", defaultLR, "learning rate")
	cmd.Flags().Float64Var(&o.momentum, "momentum", 0, "SGD momentum")
	cmd.Flags().StringVar(&o.mode, "mode", "reverse", "gradient mode, one of forward or reverse")
}

func (o *optimizerOpts) build(params []autodiff.Var) (optim.Optimizer, optim.GradientMode, error) {
	if len(params) == 0 {
		return nil, 0, errors.New("model declares no trainable variables")
	}
	mode, err := optim.ParseGradientMode(o.mode)
	if err != nil {
		return nil, 0, err
	}
	switch o.name {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: o.lr, Momentum: o.momentum}), mode, nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: o.lr}), mode, nil
	}
	return nil, 0, errors.Errorf("unknown optimizer %q, want sgd or adam", o.name)
}

// guarded runs fn and turns graph panics into errors.
func guarded(fn func() error) (err error) {
	if caught := exceptions.TryCatch[error](func() { err = fn() }); caught != nil {
		return errors.Wrap(caught, "graph error")
	}
	return err
}
