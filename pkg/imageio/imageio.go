// Package imageio moves pixel grids between image files and memory.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/lsbtext/pkg/raster"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrUnsupportedOutput indicates an output format that cannot keep the
// least significant bits intact, or one we cannot write at all.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// Load decodes the image at path into a grid. The returned name is the
// format reported by the decoder, e.g. "png".
func Load(path string) (*raster.Grid, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (*raster.Grid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return raster.FromImage(img), format, nil
}

// Save writes g to path in the lossless format picked by its extension.
// The file is only created once the format is known to be writable.
func Save(path string, g *raster.Grid) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !Writable(ext) {
		return fmt.Errorf("%w: %q (use .png, .bmp or .tiff)", ErrUnsupportedOutput, ext)
	}
	if err := checkAlpha(ext, g); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if err := Encode(file, ext, g); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

// Writable reports whether ext (with its leading dot) names a lossless
// format Encode supports.
func Writable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// KeepsAlpha reports whether ext names a writable format that stores the
// alpha component. BMP files read back with every pixel opaque.
func KeepsAlpha(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".tif", ".tiff":
		return true
	}
	return false
}

// checkAlpha rejects translucent grids for formats that would flatten them.
func checkAlpha(ext string, g *raster.Grid) error {
	if Writable(ext) && !KeepsAlpha(ext) && !g.Opaque() {
		return fmt.Errorf("%w: %q does not keep alpha (use .png or .tiff)", ErrUnsupportedOutput, ext)
	}
	return nil
}

// Encode writes g to w in the format named by ext.
func Encode(w io.Writer, ext string, g *raster.Grid) error {
	if err := checkAlpha(ext, g); err != nil {
		return err
	}
	img := g.Image()

	var err error
	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(w, img)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return nil
}

// OutputName derives the default output path: photo.png -> photo-out.png.
// Only the last extension is split off, so a.b.png becomes a.b-out.png.
func OutputName(input string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// Dotfiles such as ".png" have no stem to keep.
		stem, ext = base, ""
	}
	return dir + stem + "-out" + ext
}
