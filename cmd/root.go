package cmd

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/Beastly713/lsbtext/pkg/profile"
	"github.com/Beastly713/lsbtext/pkg/stego"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	profile  string
	logLevel string
	channels string
	pattern  []uint
	skip     uint32
}

// NewRootCmd builds a fresh command tree, so tests can run it repeatedly
// without flag values leaking between runs.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "lsbtext",
		Short: "Hide text in the least significant bits of an image",
		Long: `lsbtext hides a UTF-8 message in the lowest bit of selected color
components of an image, and recovers it later.

Which pixels carry data is set by a repeating gap pattern (--pattern) after
an initial --skip; which components of those pixels carry data is set by a
repeating list of channel masks (--channels). Both sides must agree on all
three, which is easiest with a shared --profile file.`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&g.profile, "profile", "", "YAML or JSONC file with channels, offsets and skip (env "+profile.EnvVar+")")
	f.StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	f.StringVarP(&g.channels, "channels", "c", "rgb", "Comma separated channel masks cycled per target pixel, e.g. rgb,a. Each mask is built from the letters r, g, b and a only, so \"red\" is rejected; \"-\" selects nothing")
	f.UintSliceVarP(&g.pattern, "pattern", "p", []uint{0}, "Comma separated gaps between target pixels")
	f.Uint32VarP(&g.skip, "skip", "s", 0, "Pixels to pass over before the pattern starts")

	root.AddCommand(
		newEncodeCmd(g),
		newDecodeCmd(g),
		newCapacityCmd(g),
		newInteractiveCmd(g),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// logger builds the process logger on the command's error stream.
func (g *globalFlags) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", g.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})), nil
}

// options resolves codec settings: defaults, then the profile, then any
// flag given explicitly on the command line.
func (g *globalFlags) options(cmd *cobra.Command) (stego.Options, error) {
	opts := stego.DefaultOptions()

	path := g.profile
	if path == "" {
		path = os.Getenv(profile.EnvVar)
	}
	if path != "" {
		p, err := profile.Load(path)
		if err != nil {
			return stego.Options{}, err
		}
		if opts, err = p.Options(); err != nil {
			return stego.Options{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("channels") {
		channels, err := stego.ParseChannels(g.channels)
		if err != nil {
			return stego.Options{}, fmt.Errorf("invalid --channels: %w", err)
		}
		opts.Channels = channels
	}
	if flags.Changed("pattern") {
		offsets := make([]uint32, len(g.pattern))
		for i, v := range g.pattern {
			if v > math.MaxUint32 {
				return stego.Options{}, fmt.Errorf("invalid --pattern: gap %d is too large", v)
			}
			offsets[i] = uint32(v)
		}
		opts.Offsets = offsets
	}
	if flags.Changed("skip") {
		opts.Skip = g.skip
	}

	if err := opts.Validate(); err != nil {
		return stego.Options{}, err
	}
	return opts, nil
}
