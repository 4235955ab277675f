package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Beastly713/lsbtext/pkg/imageio"
	"github.com/Beastly713/lsbtext/pkg/stego"
)

// PipelineConfig holds the parameters shared by every file operation.
type PipelineConfig struct {
	Options stego.Options
	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
}

func (c PipelineConfig) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// EncodeResult describes a finished encode.
type EncodeResult struct {
	Output string
	// BitsUsed is the framed message size.
	BitsUsed int
	// Capacity is the number of bit slots the carrier offered.
	Capacity int
}

// CapacityReport describes how much text a carrier can take.
type CapacityReport struct {
	Format   string
	Width    int
	Height   int
	Bits     int
	MaxBytes int
}

// EncodePipeline orchestrates the flow: Load -> Embed -> Save.
// An empty output selects imageio.OutputName(input). Nothing is written
// unless the whole message fits.
func EncodePipeline(input, output, message string, config PipelineConfig) (*EncodeResult, error) {
	log := config.logger()

	if output == "" {
		output = imageio.OutputName(input)
	}
	// Fail before decoding a large carrier for nothing.
	ext := filepath.Ext(output)
	if !imageio.Writable(ext) {
		return nil, fmt.Errorf("%w: %s", imageio.ErrUnsupportedOutput, output)
	}
	if config.Options.UsesAlpha() && !imageio.KeepsAlpha(ext) {
		return nil, fmt.Errorf("%w: %s cannot carry alpha bits", imageio.ErrUnsupportedOutput, output)
	}

	// 1. Load
	carrier, format, err := imageio.Load(input)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded carrier", "path", input, "format", format,
		"width", carrier.Width(), "height", carrier.Height())

	// 2. Embed
	stegoGrid, err := stego.Embed(carrier, message, config.Options)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	// 3. Save
	if err := imageio.Save(output, stegoGrid); err != nil {
		return nil, err
	}

	capacity, err := stego.Capacity(carrier.Width(), carrier.Height(), config.Options)
	if err != nil {
		return nil, err
	}
	result := &EncodeResult{
		Output:   output,
		BitsUsed: stego.FrameBits(len(message)),
		Capacity: capacity,
	}
	log.Info("message encoded", "output", output, "bits", result.BitsUsed, "capacity", result.Capacity)
	return result, nil
}

// DecodePipeline orchestrates the reverse: Load -> Extract.
func DecodePipeline(input string, config PipelineConfig) (string, error) {
	log := config.logger()

	grid, format, err := imageio.Load(input)
	if err != nil {
		return "", err
	}
	log.Debug("loaded image", "path", input, "format", format,
		"width", grid.Width(), "height", grid.Height())

	message, err := stego.Extract(grid, config.Options)
	if err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}
	log.Info("message decoded", "path", input, "bytes", len(message))
	return message, nil
}

// CapacityPipeline reports how much text the image at input can carry.
func CapacityPipeline(input string, config PipelineConfig) (*CapacityReport, error) {
	grid, format, err := imageio.Load(input)
	if err != nil {
		return nil, err
	}

	bits, err := stego.Capacity(grid.Width(), grid.Height(), config.Options)
	if err != nil {
		return nil, err
	}

	report := &CapacityReport{
		Format:   format,
		Width:    grid.Width(),
		Height:   grid.Height(),
		Bits:     bits,
		MaxBytes: stego.MaxMessageBytes(bits),
	}
	config.logger().Debug("computed capacity", "path", input, "bits", bits)
	return report, nil
}
