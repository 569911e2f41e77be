package mandel

import (
	"fmt"
	"image"
	"image/color"
)

// Raster is the assembled output of a render: one byte per channel, row
// major, top row first. Channels is 1 (grayscale) or 3 (RGB with the
// intensity replicated into every channel).
type Raster struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// Stride returns the number of bytes per row.
func (r Raster) Stride() int {
	return r.Width * r.Channels
}

// Check verifies that Pix matches the declared dimensions.
func (r Raster) Check() error {
	if r.Channels != 1 && r.Channels != 3 {
		return fmt.Errorf("raster: unsupported channel count %d", r.Channels)
	}
	if want := r.Width * r.Height * r.Channels; len(r.Pix) != want {
		return fmt.Errorf("raster: %d bytes for %dx%dx%d, want %d", len(r.Pix), r.Width, r.Height, r.Channels, want)
	}
	return nil
}

// Image exposes the raster to image encoders without copying: an
// *image.Gray for one channel and an *RGB for three.
func (r Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Channels == 1 {
		return &image.Gray{Pix: r.Pix, Stride: r.Stride(), Rect: rect}
	}
	return &RGB{Pix: r.Pix, Stride: r.Stride(), Rect: rect}
}

// RGB is an image.Image over packed 8-bit R, G, B triples.
type RGB struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

func (p *RGB) ColorModel() color.Model { return color.RGBAModel }

func (p *RGB) Bounds() image.Rectangle { return p.Rect }

func (p *RGB) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

// RGBAAt returns the opaque color of pixel (x, y).
func (p *RGB) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{s[0], s[1], s[2], 0xff}
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// Opaque reports that every pixel is fully opaque.
func (p *RGB) Opaque() bool { return true }
