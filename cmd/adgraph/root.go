package main

import (
	"flag"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var longRootCmdDescription = `adgraph loads a scalar expression graph from an HCL model file and
evaluates it, differentiates it in forward or reverse mode, minimizes it
over its trainable variables or fits it to the model's dataset.
`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adgraph",
		Short:         "Scalar automatic differentiation over HCL model files.",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// klog flags (-v, --logtostderr, ...) on every command.
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.AddCommand(newVersionCmd(), newEvalCmd(), newMinimizeCmd(), newFitCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version info",
		Args:    cobra.NoArgs,
		Example: `adgraph version`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "adgraph %s\n", version)
			return err
		},
	}
}
