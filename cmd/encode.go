package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/Beastly713/lsbtext/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newEncodeCmd(g *globalFlags) *cobra.Command {
	var (
		message     string
		messageFile string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "encode [image]",
		Short: "Hide a message in an image",
		Long: `Hide a UTF-8 message in a copy of the image. The original is left
untouched and the result is written as a lossless image.

Example:
  lsbtext encode holiday.png -m "meet at noon"

  This writes holiday-out.png. Use -m - to read the message from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Gather inputs
			text, err := readMessage(cmd, message, messageFile)
			if err != nil {
				return err
			}
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}

			// 2. Run
			result, err := pipeline.EncodePipeline(args[0], output, text, pipeline.PipelineConfig{
				Options: opts,
				Logger:  log,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Message encoded into %s (%d of %d bits used)\n",
				result.Output, result.BitsUsed, result.Capacity)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to hide, or - to read it from stdin")
	cmd.Flags().StringVar(&messageFile, "message-file", "", "Read the message from a file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image (default: <name>-out.<ext>)")

	cmd.MarkFlagsMutuallyExclusive("message", "message-file")
	cmd.MarkFlagsOneRequired("message", "message-file")
	return cmd
}

// readMessage returns the message text exactly as given; no trailing
// newline is trimmed from files or stdin.
func readMessage(cmd *cobra.Command, message, messageFile string) (string, error) {
	var data []byte
	switch {
	case messageFile != "":
		b, err := os.ReadFile(messageFile)
		if err != nil {
			return "", fmt.Errorf("failed to read message file: %w", err)
		}
		data = b
	case message == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		data = b
	default:
		data = []byte(message)
	}

	if !utf8.Valid(data) {
		return "", errors.New("message is not valid UTF-8")
	}
	return string(data), nil
}
