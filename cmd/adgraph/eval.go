package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/adgraph/autodiff"
	"github.com/born-ml/adgraph/model"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

type evalOpts struct {
	modelOpts
	node   string
	mode   string
	format string
	row    int
}

func newEvalCmd() *cobra.Command {
	opts := &evalOpts{}
	cmd := &cobra.Command{
		Use:   "eval MODEL",
		Short: "Evaluate a node and its partial derivatives",
		Long: `Evaluate a node of the model and print its partial derivative with respect
to every variable, followed by a dump of the node's graph.`,
		Example: `adgraph eval linreg.hcl --node loss --row 2
adgraph eval mix.hcl --set x=3 --set y=2 --mode both --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return guarded(func() error { return runEval(cmd.OutOrStdout(), args[0], opts) })
		},
	}
	opts.modelOpts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.node, "node", "", "node to evaluate (default: last declared node)")
	cmd.Flags().StringVar(&opts.mode, "mode", "both", "differentiation mode, one of forward, reverse or both")
	cmd.Flags().StringVar(&opts.format, "format", "tree", "graph dump format, one of tree, table or none")
	cmd.Flags().IntVar(&opts.row, "row", -1, "dataset row to bind before evaluating (-1 for none)")
	return cmd
}

func runEval(out io.Writer, path string, opts *evalOpts) error {
	var forward, reverse bool
	switch opts.mode {
	case "forward":
		forward = true
	case "reverse", "backward":
		reverse = true
	case "both":
		forward, reverse = true, true
	default:
		return errors.Errorf("unknown mode %q, want forward, reverse or both", opts.mode)
	}
	switch opts.format {
	case "tree", "table", "none":
	default:
		return errors.Errorf("unknown format %q, want tree, table or none", opts.format)
	}

	m, err := opts.load(path)
	if err != nil {
		return err
	}
	if opts.row >= 0 {
		if err := m.Bind(opts.row); err != nil {
			return err
		}
	}
	root, name, err := rootNode(m, opts.node)
	if err != nil {
		return err
	}

	vars := variables(m)
	var fwdGrads, revGrads []float64
	if forward {
		fwdGrads = autodiff.ForwardGradient(root, vars...)
	}
	// Reverse runs last so the dump shows adjoints.
	if reverse {
		revGrads = autodiff.ReverseGradient(root, vars...)
	}

	fmt.Fprintf(out, "%s = %g\n", name, root.Value())
	for i, v := range vars {
		fmt.Fprintf(out, "d/d%s:", v.Name())
		if forward {
			fmt.Fprintf(out, " forward=%g", fwdGrads[i])
		}
		if reverse {
			fmt.Fprintf(out, " reverse=%g", revGrads[i])
		}
		fmt.Fprintln(out)
	}

	switch opts.format {
	case "tree":
		fmt.Fprintln(out, headingStyle.Render("graph:"))
		return root.Dump(out)
	case "table":
		fmt.Fprintln(out, headingStyle.Render("graph:"))
		_, err := fmt.Fprintln(out, root.Table())
		return err
	}
	return nil
}

func variables(m *model.Model) []autodiff.Var {
	names := m.VariableNames()
	vars := make([]autodiff.Var, 0, len(names))
	for _, name := range names {
		v, _ := m.Variable(name)
		vars = append(vars, v)
	}
	return vars
}
