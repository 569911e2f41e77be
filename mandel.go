package mandel

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrInvalidViewport is wrapped by every configuration validation failure.
var ErrInvalidViewport = errors.New("invalid viewport")

// MaxDepth is the largest iteration depth whose results fit one byte.
const MaxDepth = 255

// MaxSide bounds the canvas width and height. Together with the product
// check in Validate it keeps every buffer size of a render addressable,
// including row padding and three channels.
const MaxSide = 1 << 20

// Viewport describes one render: canvas size in pixels, pixel offsets of the
// canvas centre, the complex-plane distance of one pixel step and the
// iteration depth ceiling.
//
// Pixel (px, py) maps to
//
//	re = (px - Width/2  + XOffset) * Scale
//	im = (py - Height/2 + YOffset) * Scale
type Viewport struct {
	Width, Height    int
	XOffset, YOffset int
	Scale            float64
	DepthMax         int
}

// DefaultViewport is the 8000×6000 full-set render.
func DefaultViewport() Viewport {
	return Viewport{
		Width:    8000,
		Height:   6000,
		Scale:    0.0005,
		DepthMax: MaxDepth,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidViewport.
func (v Viewport) Validate() error {
	switch {
	case v.Width <= 0:
		return fmt.Errorf("%w: width %d must be positive", ErrInvalidViewport, v.Width)
	case v.Height <= 0:
		return fmt.Errorf("%w: height %d must be positive", ErrInvalidViewport, v.Height)
	case v.Width > MaxSide || v.Height > MaxSide:
		return fmt.Errorf("%w: %d×%d canvas exceeds %d pixels per side", ErrInvalidViewport, v.Width, v.Height, MaxSide)
	case v.Width > math.MaxInt/v.Height/3:
		return fmt.Errorf("%w: %d×%d canvas is too large to address", ErrInvalidViewport, v.Width, v.Height)
	case math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) || v.Scale <= 0:
		return fmt.Errorf("%w: scale %v must be a positive finite number", ErrInvalidViewport, v.Scale)
	case v.DepthMax < 1 || v.DepthMax > MaxDepth:
		return fmt.Errorf("%w: depth %d must be in [1, %d]", ErrInvalidViewport, v.DepthMax, MaxDepth)
	}
	return nil
}

// Pixels returns Width×Height. It does not overflow for a valid viewport,
// even with three bytes per pixel.
func (v Viewport) Pixels() int {
	return v.Width * v.Height
}

// Re returns the real coordinate of pixel column px.
func (v Viewport) Re(px int) float64 {
	return float64(px-v.Width/2+v.XOffset) * v.Scale
}

// Im returns the imaginary coordinate of pixel row py.
func (v Viewport) Im(py int) float64 {
	return float64(py-v.Height/2+v.YOffset) * v.Scale
}

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Viewport fits the region into a w×h canvas. The scale is chosen so the
// whole region is visible; offsets are rounded to whole pixels.
func (r Region) Viewport(w, h, depth int) Viewport {
	scale := max((r.Xmax-r.Xmin)/float64(w), (r.Ymax-r.Ymin)/float64(h))
	cx := (r.Xmin + r.Xmax) / 2
	cy := (r.Ymin + r.Ymax) / 2
	return Viewport{
		Width:    w,
		Height:   h,
		XOffset:  int(math.Round(cx / scale)),
		YOffset:  int(math.Round(cy / scale)),
		Scale:    scale,
		DepthMax: depth,
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Full set, centred on the main cardioid
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.5,
		Ymin: -1.5,
		Ymax: 1.5,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var presets = map[string]Region{
	"full":                 FullSet,
	"seahorse-valley":      SeahorseValley,
	"elephant-valley":      ElephantValley,
	"spiral-minibrot":      SpiralMinibrot,
	"triple-spiral":        TripleSpiral,
	"valley-of-the-dragon": ValleyOfTheDragon,
	"minibrot-mini-spiral": MinibrotInMiniSpiral,
}

// PresetByName looks up a landmark region by its kebab-case name.
func PresetByName(name string) (Region, bool) {
	r, ok := presets[strings.ToLower(name)]
	return r, ok
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
