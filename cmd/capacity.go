package cmd

import (
	"fmt"

	"github.com/Beastly713/lsbtext/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newCapacityCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "capacity [image]",
		Short: "Show how much text an image can hold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}

			report, err := pipeline.CapacityPipeline(args[0], pipeline.PipelineConfig{
				Options: opts,
				Logger:  log,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s, %d bit slots, up to %d bytes of text\n",
				args[0], report.Width, report.Height, report.Format, report.Bits, report.MaxBytes)
			return nil
		},
	}
}
