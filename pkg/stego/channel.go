package stego

import (
	"fmt"
	"strings"
)

// Channel selects which components of a target pixel carry payload bits.
type Channel struct {
	Red   bool
	Green bool
	Blue  bool
	Alpha bool
}

// RGB is the default mask: every color component except alpha.
var RGB = Channel{Red: true, Green: true, Blue: true}

// Bits returns how many payload bits a pixel carries under this mask.
func (c Channel) Bits() int {
	n := 0
	for _, on := range c.components() {
		if on {
			n++
		}
	}
	return n
}

// components returns the mask in R, G, B, A order, matching the pixel layout.
func (c Channel) components() [4]bool {
	return [4]bool{c.Red, c.Green, c.Blue, c.Alpha}
}

func (c Channel) String() string {
	var b strings.Builder
	for i, on := range c.components() {
		if on {
			b.WriteByte("rgba"[i])
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// ParseChannel parses a token such as "rgb" or "GA". Letters may repeat
// and appear in any order; anything other than r, g, b or a is rejected.
// "-" is the mask that carries nothing, as printed by String.
func ParseChannel(token string) (Channel, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Channel{}, fmt.Errorf("empty channel token")
	}
	if token == "-" {
		return Channel{}, nil
	}

	var c Channel
	for _, r := range strings.ToLower(token) {
		switch r {
		case 'r':
			c.Red = true
		case 'g':
			c.Green = true
		case 'b':
			c.Blue = true
		case 'a':
			c.Alpha = true
		default:
			return Channel{}, fmt.Errorf("invalid channel %q: unknown component %q", token, r)
		}
	}
	return c, nil
}

// ParseChannels parses a comma separated list of channel tokens.
func ParseChannels(list string) ([]Channel, error) {
	parts := strings.Split(list, ",")
	channels := make([]Channel, 0, len(parts))
	for _, p := range parts {
		c, err := ParseChannel(p)
		if err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, nil
}

// ChannelSequence cycles through a fixed list of masks.
type ChannelSequence struct {
	channels []Channel
	index    int
}

// NewChannelSequence copies channels so later changes by the caller do not
// affect the cycle.
func NewChannelSequence(channels []Channel) (*ChannelSequence, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	owned := make([]Channel, len(channels))
	copy(owned, channels)
	return &ChannelSequence{channels: owned}, nil
}

// Next returns the mask under the cursor and moves the cursor forward,
// wrapping after the last mask.
func (s *ChannelSequence) Next() Channel {
	c := s.channels[s.index]
	s.index = (s.index + 1) % len(s.channels)
	return c
}
