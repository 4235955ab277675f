// Package raster holds a format agnostic pixel grid: width × height pixels,
// row major, four non-premultiplied 8-bit components per pixel.
package raster

import (
	"image"
	"image/color"
)

// Pixel is one grid cell in R, G, B, A order.
type Pixel [4]uint8

// Grid is a rectangular block of pixels addressed by linear index
// x + y*width.
type Grid struct {
	width  int
	height int
	pix    []uint8
}

// New returns a zero filled grid. Negative dimensions are treated as zero.
func New(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies img into a new grid with its origin moved to (0, 0).
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	g := New(bounds.Dx(), bounds.Dy())
	row := g.width * 4

	// Fast path: straight copy, no round trip through premultiplied color
	// which would disturb the low bits of translucent pixels.
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(g.pix[y*row:(y+1)*row], src.Pix[start:start+row])
		}
		return g
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			g.Set(x+y*g.width, Pixel{c.R, c.G, c.B, c.A})
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len is the number of pixels.
func (g *Grid) Len() int { return g.width * g.height }

// At returns the pixel at linear index i.
func (g *Grid) At(i int) Pixel {
	o := i * 4
	return Pixel{g.pix[o], g.pix[o+1], g.pix[o+2], g.pix[o+3]}
}

// Set stores p at linear index i.
func (g *Grid) Set(i int, p Pixel) {
	o := i * 4
	copy(g.pix[o:o+4], p[:])
}

// Pix exposes the backing components, four per pixel in raster order.
func (g *Grid) Pix() []uint8 { return g.pix }

// Opaque reports whether every pixel has full alpha.
func (g *Grid) Opaque() bool {
	for i := 3; i < len(g.pix); i += 4 {
		if g.pix[i] != 0xff {
			return false
		}
	}
	return true
}

func (g *Grid) Clone() *Grid {
	pix := make([]uint8, len(g.pix))
	copy(pix, g.pix)
	return &Grid{width: g.width, height: g.height, pix: pix}
}

// Image wraps the grid as an *image.NRGBA sharing the same memory.
func (g *Grid) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    g.pix,
		Stride: g.width * 4,
		Rect:   image.Rect(0, 0, g.width, g.height),
	}
}
