package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/optim"
)

type minimizeOpts struct {
	modelOpts
	optimizerOpts
	node       string
	iters      int
	printEvery int
}

func newMinimizeCmd() *cobra.Command {
	opts := &minimizeOpts{}
	cmd := &cobra.Command{
		Use:   "minimize MODEL",
		Short: "Minimize a node over the trainable variables",
		Long: `Minimize a node of the model by gradient descent over the variables marked
trainable, then print the final values.`,
		Example: `adgraph minimize bowl.hcl --node f --lr 0.1 --iters 200
adgraph minimize bowl.hcl --optimizer adam --mode forward`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return guarded(func() error { return runMinimize(cmd.OutOrStdout(), args[0], opts) })
		},
	}
	opts.modelOpts.addFlags(cmd)
	opts.optimizerOpts.addFlags(cmd, 0.1)
	cmd.Flags().StringVar(&opts.node, "node", "", "node to minimize (default: last declared node)")
	cmd.Flags().IntVar(&opts.iters, "iters", 100, "number of optimization steps")
	cmd.Flags().IntVar(&opts.printEvery, "print-every", 0, "print the value every N steps (0 to disable)")
	return cmd
}

func runMinimize(out io.Writer, path string, opts *minimizeOpts) error {
	if opts.iters < 0 {
		return errors.Errorf("--iters must be non-negative, got %d", opts.iters)
	}
	m, err := opts.load(path)
	if err != nil {
		return err
	}
	root, name, err := rootNode(m, opts.node)
	if err != nil {
		return err
	}
	optimizer, mode, err := opts.build(m.Trainable())
	if err != nil {
		return err
	}
	klog.V(1).Infof("minimizing %s over %d variables with %s (%s mode)", name, len(optimizer.Params()), opts.name, mode)

	for i := range opts.iters {
		value := optim.Minimize(root, optimizer, mode)
		if opts.printEvery > 0 && i%opts.printEvery == 0 {
			fmt.Fprintf(out, "step %d: %s = %g\n", i, name, value)
		}
	}

	for _, p := range optimizer.Params() {
		fmt.Fprintf(out, "%s = %g\n", p.Name(), p.LastValue())
	}
	_, err = fmt.Fprintf(out, "%s = %g\n", name, root.Value())
	return err
}
