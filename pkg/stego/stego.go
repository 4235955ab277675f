// Package stego hides UTF-8 text in the least significant bits of selected
// pixel components and recovers it again.
//
// Target pixels are picked by a repeating gap pattern (Schedule) and the
// components used at each target by a repeating list of masks
// (ChannelSequence). The payload is framed as an 8-byte big-endian length
// followed by the text bytes.
package stego

import (
	"errors"
	"fmt"

	"github.com/Beastly713/lsbtext/pkg/raster"
)

// ErrCapacityExceeded indicates the carrier cannot hold the framed message
// with the configured channels and offsets.
var ErrCapacityExceeded = errors.New("message too long or offsets too sparse")

// ErrUnderflow indicates too few bytes were recovered for the length prefix
// or for the length it declares.
var ErrUnderflow = errors.New("not enough hidden data")

// ErrInvalidEncoding indicates the recovered payload is not valid UTF-8.
var ErrInvalidEncoding = errors.New("hidden data is not valid UTF-8")

// ErrNoChannels indicates an empty channel list.
var ErrNoChannels = errors.New("at least one channel is required")

// ErrNoOffsets indicates an empty offset pattern.
var ErrNoOffsets = errors.New("at least one offset is required")

// Options configures where payload bits live. Encoder and decoder must use
// identical options.
type Options struct {
	// Channels is cycled once per target pixel.
	Channels []Channel
	// Offsets is the repeating gap pattern between target pixels.
	Offsets []uint32
	// Skip is the number of pixels passed over before the pattern starts.
	Skip uint32
}

// DefaultOptions uses the color components of every pixel.
func DefaultOptions() Options {
	return Options{
		Channels: []Channel{RGB},
		Offsets:  []uint32{0},
	}
}

func (o Options) Validate() error {
	if len(o.Channels) == 0 {
		return ErrNoChannels
	}
	if len(o.Offsets) == 0 {
		return ErrNoOffsets
	}
	return nil
}

// UsesAlpha reports whether any mask writes the alpha component.
func (o Options) UsesAlpha() bool {
	for _, c := range o.Channels {
		if c.Alpha {
			return true
		}
	}
	return false
}

func (o Options) cursors()(*ChannelSequence, *Schedule, error) {
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}
	channels, err := NewChannelSequence(o.Channels)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := NewSchedule(o.Offsets, o.Skip)
	if err != nil {
		return nil, nil, err
	}
	return channels, schedule, nil
}

// Embed hides message in a copy of src. src is not modified. If the message
// does not fit, no grid is returned.
func Embed(src *raster.Grid, message string, opts Options) (*raster.Grid, error) {
	channels, schedule, err := opts.cursors()
	if err != nil {
		return nil, err
	}

	packer := NewPacker(message)
	out := raster.New(src.Width(), src.Height())
	target := schedule.Next()

	for i := 0; i < src.Len(); i++ {
		px := src.At(i)

		if uint64(i) == target {
			for c, on := range channels.Next().components() {
				if !on {
					continue
				}
				bit, ok := packer.Next()
				if !ok {
					continue
				}
				if bit {
					px[c] |= 1
				} else {
					px[c] &^= 1
				}
			}
			target = schedule.Next()
		}

		out.Set(i, px)
	}

	if left := packer.Remaining(); left > 0 {
		need := FrameBits(len(message))
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, need, need-left)
	}
	return out, nil
}

// Extract recovers a message hidden by Embed with the same options.
func Extract(src *raster.Grid, opts Options) (string, error) {
	channels, schedule, err := opts.cursors()
	if err != nil {
		return "", err
	}

	var bits []bool
	target := schedule.Next()

	for i := 0; i < src.Len(); i++ {
		if uint64(i) != target {
			continue
		}
		px := src.At(i)
		for c, on := range channels.Next().components() {
			if on {
				bits = append(bits, px[c]&1 == 1)
			}
		}
		target = schedule.Next()
	}

	return Unpack(bits)
}

// Capacity counts the bit slots a width × height grid offers under opts.
func Capacity(width, height int, opts Options) (int, error) {
	channels, schedule, err := opts.cursors()
	if err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, nil
	}

	pixels := uint64(width) * uint64(height)
	bits := 0
	for target := schedule.Next(); target < pixels; target = schedule.Next() {
		bits += channels.Next().Bits()
	}
	return bits, nil
}

// MaxMessageBytes is the longest message, in bytes, that fits in bits slots.
func MaxMessageBytes(bits int) int {
	n := bits/8 - lengthPrefixSize
	if n < 0 {
		return 0
	}
	return n
}
