package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Beastly713/lsbtext/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opaqueGrid returns noisy color components with full alpha.
func opaqueGrid(width, height int) *raster.Grid {
	g := raster.New(width, height)
	rd := rand.New(rand.NewSource(7))
	for i := 0; i < g.Len(); i++ {
		g.Set(i, raster.Pixel{uint8(rd.Intn(256)), uint8(rd.Intn(256)), uint8(rd.Intn(256)), 255})
	}
	return g
}

func TestSaveLoadLossless(t *testing.T) {
	for _, ext := range []string{".png", ".bmp", ".tiff", ".TIF"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "carrier"+ext)
			g := opaqueGrid(13, 7)

			require.NoError(t, Save(path, g))

			loaded, _, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, g.Width(), loaded.Width())
			require.Equal(t, g.Height(), loaded.Height())
			assert.True(t, bytes.Equal(g.Pix(), loaded.Pix()), "pixels changed in %s round trip", ext)
		})
	}
}

func TestSaveLoadTranslucent(t *testing.T) {
	g := raster.New(4, 1)
	g.Set(0, raster.Pixel{11, 21, 31, 41})
	g.Set(1, raster.Pixel{255, 0, 1, 3})
	g.Set(2, raster.Pixel{5, 6, 7, 0})
	g.Set(3, raster.Pixel{7, 8, 9, 254})

	// Every writable format either keeps alpha exactly or refuses the grid.
	for _, ext := range []string{".png", ".bmp", ".tif", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			require.True(t, Writable(ext))
			path := filepath.Join(t.TempDir(), "alpha"+ext)

			err := Save(path, g)
			if !KeepsAlpha(ext) {
				assert.ErrorIs(t, err, ErrUnsupportedOutput)
				assert.NoFileExists(t, path)
				return
			}
			require.NoError(t, err)

			loaded, _, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, g.Pix(), loaded.Pix())
		})
	}
}

func TestEncodeBMPRejectsTranslucent(t *testing.T) {
	g := opaqueGrid(3, 3)
	require.NoError(t, Encode(io.Discard, ".bmp", g))

	g.Set(4, raster.Pixel{1, 2, 3, 254})
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, ".bmp", g), ErrUnsupportedOutput)
	assert.Zero(t, buf.Len())
}

func TestSaveRejectsLossyFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.jpg", "out.jpeg", "out.gif", "out.webp", "out"} {
		path := filepath.Join(dir, name)
		err := Save(path, opaqueGrid(2, 2))
		if !errors.Is(err, ErrUnsupportedOutput) {
			t.Errorf("%s: expected ErrUnsupportedOutput, got %v", name, err)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Errorf("%s: file should not have been created", name)
		}
	}
}

func TestLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	img.Set(0, 0, color.RGBA{200, 10, 10, 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	g, format, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, g.Len())
}

func TestLoadErrors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, _, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"photo.png":          "photo-out.png",
		"my.holiday.pic.png": "my.holiday.pic-out.png",
		"dir/sub/img.bmp":    "dir/sub/img-out.bmp",
		"noext":              "noext-out",
		".png":               ".png-out",
	}
	for in, want := range tests {
		assert.Equal(t, want, OutputName(in), in)
	}
}

func TestWritable(t *testing.T) {
	assert.True(t, Writable(".PNG"))
	assert.True(t, Writable(".tif"))
	assert.False(t, Writable(".jpg"))
	assert.False(t, Writable(""))

	assert.True(t, KeepsAlpha(".png"))
	assert.True(t, KeepsAlpha(".TIFF"))
	assert.False(t, KeepsAlpha(".bmp"))
	assert.False(t, KeepsAlpha(".jpg"))
}
