package tests

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Beastly713/lsbtext/cmd"
	"github.com/Beastly713/lsbtext/pkg/imageio"
	"github.com/Beastly713/lsbtext/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCarrier saves an opaque noisy PNG and returns its path.
func writeCarrier(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	g := raster.New(width, height)
	rd := rand.New(rand.NewSource(99))
	for i := 0; i < g.Len(); i++ {
		g.Set(i, raster.Pixel{uint8(rd.Intn(256)), uint8(rd.Intn(256)), uint8(rd.Intn(256)), 255})
	}
	path := filepath.Join(dir, name)
	require.NoError(t, imageio.Save(path, g))
	return path
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

// TestFullRoundTrip simulates the full user journey: Encode -> Decode.
func TestFullRoundTrip(t *testing.T) {
	// 1. Setup specific test environment
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "holiday.png", 64, 48)
	secret := "meet at noon, bring the 🗝"

	// 2. Execute ENCODE Command
	out, err := run(t, "", "encode", input, "-m", secret, "-c", "rgb,a", "-p", "2,0,1", "-s", "17")
	require.NoError(t, err, "Encode command failed")
	assert.Contains(t, out, "holiday-out.png")

	// 3. Verify output exists and the input is unchanged
	encoded := filepath.Join(tmpDir, "holiday-out.png")
	require.FileExists(t, encoded)

	original, _, err := imageio.Load(input)
	require.NoError(t, err)
	stego, _, err := imageio.Load(encoded)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(original.Pix(), stego.Pix()), "encoded image should differ from the carrier")

	// 4. Execute DECODE Command
	out, err = run(t, "", "decode", encoded, "-c", "rgb,a", "-p", "2,0,1", "-s", "17")
	require.NoError(t, err, "Decode command failed")
	assert.Equal(t, secret+"\n", out)
}

func TestProfileRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "carrier.png", 40, 40)
	profilePath := filepath.Join(tmpDir, "shared.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("channels: [r, gb]\noffsets: [3]\nskip: 5\n"), 0644))
	output := filepath.Join(tmpDir, "hidden.bmp")

	_, err := run(t, "from stdin", "encode", input, "-m", "-", "-o", output, "--profile", profilePath)
	require.NoError(t, err)

	out, err := run(t, "", "decode", output, "--profile", profilePath)
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", out)

	// Same profile through the environment variable.
	t.Setenv("LSBTEXT_PROFILE", profilePath)
	out, err = run(t, "", "decode", output)
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", out)

	// Flags override the profile, so decoding with other gaps fails or differs.
	out, err = run(t, "", "decode", output, "-p", "0")
	if err == nil {
		assert.NotEqual(t, "from stdin\n", out)
	}
}

func TestMessageFile(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "carrier.png", 32, 32)
	msgPath := filepath.Join(tmpDir, "msg.txt")
	require.NoError(t, os.WriteFile(msgPath, []byte("line one\nline two"), 0644))

	_, err := run(t, "", "encode", input, "--message-file", msgPath)
	require.NoError(t, err)

	out, err := run(t, "", "decode", filepath.Join(tmpDir, "carrier-out.png"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", out)
}

func TestEncodeTooLong(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "tiny.png", 4, 4)

	// 4x4 with rgb gives 48 bit slots; even an empty message needs 64.
	_, err := run(t, "", "encode", input, "-m", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message too long")
	assert.NoFileExists(t, filepath.Join(tmpDir, "tiny-out.png"))
}

func TestInvalidFlags(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "carrier.png", 16, 16)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown channel letter", args: []string{"encode", input, "-m", "x", "-c", "rgbz"}},
		{name: "empty channel list", args: []string{"encode", input, "-m", "x", "-c", ""}},
		{name: "no message", args: []string{"encode", input}},
		{name: "message and message file", args: []string{"encode", input, "-m", "x", "--message-file", "y"}},
		{name: "lossy output", args: []string{"encode", input, "-m", "x", "-o", filepath.Join(tmpDir, "out.jpg")}},
		{name: "alpha bits into bmp", args: []string{"encode", input, "-m", "x", "-c", "rgba", "-o", filepath.Join(tmpDir, "out.bmp")}},
		{name: "unknown log level", args: []string{"decode", input, "--log-level", "loud"}},
		{name: "missing profile", args: []string{"decode", input, "--profile", filepath.Join(tmpDir, "missing.yaml")}},
		{name: "decode without input", args: []string{"decode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			assert.Error(t, err, "args %v", tt.args)
		})
	}
	assert.NoFileExists(t, filepath.Join(tmpDir, "out.bmp"))
}

func TestAlphaChannelOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "carrier.png", 24, 24)

	tiff := filepath.Join(tmpDir, "alpha.tiff")
	_, err := run(t, "", "encode", input, "-m", "in the alpha", "-c", "rgba", "-o", tiff)
	require.NoError(t, err)

	out, err := run(t, "", "decode", tiff, "-c", "rgba")
	require.NoError(t, err)
	assert.Equal(t, "in the alpha\n", out)

	bmp := filepath.Join(tmpDir, "alpha.bmp")
	_, err = run(t, "", "encode", input, "-m", "in the alpha", "-c", "rgba", "-o", bmp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.NoFileExists(t, bmp)
}

func TestCapacityCommand(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeCarrier(t, tmpDir, "carrier.png", 10, 10)

	out, err := run(t, "", "capacity", input)
	require.NoError(t, err)
	assert.Contains(t, out, "10x10 png")
	assert.Contains(t, out, "300 bit slots")
	assert.Contains(t, out, "29 bytes")

	out, err = run(t, "", "capacity", input, "-c", "r", "-p", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "10 bit slots")
}
