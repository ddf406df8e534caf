package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/model"
	"github.com/born-ml/adgraph/optim"
)

type fitOpts struct {
	modelOpts
	optimizerOpts
	loss     string
	epochs   int
	shuffle  bool
	predict  string
	progress bool
}

func newFitCmd() *cobra.Command {
	opts := &fitOpts{}
	cmd := &cobra.Command{
		Use:   "fit MODEL",
		Short: "Fit the trainable variables to the model's dataset",
		Long: `Fit the trainable variables by per-row stochastic gradient descent on a loss
node, visiting the dataset rows in a fresh random order every epoch.`,
		Example: `adgraph fit linreg.hcl --loss loss --epochs 1000 --lr 0.005 --predict estimate`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return guarded(func() error {
				return runFit(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
			})
		},
	}
	opts.modelOpts.addFlags(cmd)
	opts.optimizerOpts.addFlags(cmd, 0.005)
	cmd.Flags().StringVar(&opts.loss, "loss", "", "loss node (default: last declared node)")
	cmd.Flags().IntVar(&opts.epochs, "epochs", 1000, "number of passes over the dataset")
	cmd.Flags().BoolVar(&opts.shuffle, "shuffle", true, "shuffle the rows every epoch")
	cmd.Flags().StringVar(&opts.predict, "predict", "", "node to print for every dataset row after fitting")
	cmd.Flags().BoolVar(&opts.progress, "progress", true, "show a progress bar")
	return cmd
}

func runFit(out, progressOut io.Writer, path string, opts *fitOpts) error {
	if opts.epochs < 0 {
		return errors.Errorf("--epochs must be non-negative, got %d", opts.epochs)
	}
	m, err := opts.load(path)
	if err != nil {
		return err
	}
	if m.Rows() == 0 {
		return errors.Errorf("model %s has no dataset to fit", path)
	}
	loss, lossName, err := rootNode(m, opts.loss)
	if err != nil {
		return err
	}
	optimizer, mode, err := opts.build(m.Trainable())
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions(opts.epochs,
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription("fitting"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("epochs"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionClearOnFinish(),
		)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	order := make([]int, m.Rows())
	for i := range order {
		order[i] = i
	}
	var meanLoss float64
	for epoch := range opts.epochs {
		if opts.shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		var total float64
		for _, row := range order {
			if err := m.Bind(row); err != nil {
				return err
			}
			total += optim.Minimize(loss, optimizer, mode)
		}
		meanLoss = total / float64(len(order))
		klog.V(2).Infof("epoch %d: mean %s = %g", epoch, lossName, meanLoss)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	for _, p := range optimizer.Params() {
		fmt.Fprintf(out, "%s = %g\n", p.Name(), p.LastValue())
	}
	fmt.Fprintf(out, "mean %s = %g\n", lossName, meanLoss)

	if opts.predict != "" {
		return printPredictions(out, m, opts.predict)
	}
	return nil
}

// printPredictions renders every dataset row next to the value of node.
func printPredictions(out io.Writer, m *model.Model, node string) error {
	v, ok := m.Lookup(node)
	if !ok {
		return errors.Errorf("unknown node %q", node)
	}
	columns := m.Columns()
	table := lgtable.New().Headers(append(append([]string{"row"}, columns...), node)...)
	for row := range m.Rows() {
		if err := m.Bind(row); err != nil {
			return err
		}
		cells := []string{strconv.Itoa(row)}
		for _, name := range columns {
			col, _ := m.Column(name)
			cells = append(cells, strconv.FormatFloat(col[row], 'g', 6, 64))
		}
		cells = append(cells, strconv.FormatFloat(v.Value(), 'g', 6, 64))
		table.Row(cells...)
	}
	_, err := fmt.Fprintln(out, table.Render())
	return err
}
