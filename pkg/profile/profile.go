// Package profile loads codec settings from a file so that the side hiding
// a message and the side recovering it can share them.
//
// A profile is YAML or JSON with comments:
//
//	channels: [rgb, r, ga]
//	offsets: [0, 3, 1]
//	skip: 10
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/lsbtext/pkg/stego"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no profile flag is
// given.
const EnvVar = "LSBTEXT_PROFILE"

// Profile mirrors stego.Options in a file friendly form.
type Profile struct {
	// Channels lists masks such as "rgb" or "a", cycled per target pixel.
	Channels []string `yaml:"channels" json:"channels"`

	// Offsets is the repeating gap pattern between target pixels.
	Offsets []uint32 `yaml:"offsets" json:"offsets"`

	// Skip is the number of pixels passed over before the first gap.
	Skip uint32 `yaml:"skip" json:"skip"`
}

// Load reads a profile, choosing the decoder by extension: .yaml and .yml
// are YAML, .json and .jsonc are JSON with comments and trailing commas.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	p, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes data in the format named by ext.
func Parse(data []byte, ext string) (*Profile, error) {
	var p Profile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing yaml profile: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &p); err != nil {
			return nil, fmt.Errorf("parsing json profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown profile format %q (use .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile describes a usable configuration.
func (p *Profile) Validate() error {
	if len(p.Channels) == 0 {
		return errors.New("profile has no channels")
	}
	if len(p.Offsets) == 0 {
		return errors.New("profile has no offsets")
	}
	for _, c := range p.Channels {
		if _, err := stego.ParseChannel(c); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}
	return nil
}

// Options converts the profile for use with the stego package.
func (p *Profile) Options() (stego.Options, error) {
	if err := p.Validate(); err != nil {
		return stego.Options{}, err
	}

	channels := make([]stego.Channel, len(p.Channels))
	for i, token := range p.Channels {
		c, err := stego.ParseChannel(token)
		if err != nil {
			return stego.Options{}, err
		}
		channels[i] = c
	}

	offsets := make([]uint32, len(p.Offsets))
	copy(offsets, p.Offsets)

	return stego.Options{Channels: channels, Offsets: offsets, Skip: p.Skip}, nil
}

// FromOptions is the inverse of Options.
func FromOptions(opts stego.Options) *Profile {
	p := &Profile{Skip: opts.Skip}
	for _, c := range opts.Channels {
		p.Channels = append(p.Channels, c.String())
	}
	p.Offsets = append(p.Offsets, opts.Offsets...)
	return p
}

// Encode renders the profile as a YAML document Load can read back.
func (p *Profile) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}
