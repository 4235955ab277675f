package cmd

import (
	"fmt"

	"github.com/Beastly713/lsbtext/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newDecodeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [image]",
		Short: "Recover a hidden message from an image",
		Long: `Recover a message hidden by encode. The channels, pattern and skip
must match the ones used to encode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}

			message, err := pipeline.DecodePipeline(args[0], pipeline.PipelineConfig{
				Options: opts,
				Logger:  log,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}
