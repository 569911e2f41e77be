// Package raster renders a mandel.Viewport into an assembled mandel.Raster.
//
// Rows are the unit of work. A persistent worker pool evaluates the rows the
// mirror plan marks for computation; every worker writes only to the rows
// it was handed. After the pool's barrier the mirrored rows are copied from
// their conjugate partners and the aligned rows are packed into one
// contiguous buffer.
package raster

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	mandel "github.com/marben/mandelraster"
	"github.com/marben/mandelraster/cplx"
	"github.com/marben/mandelraster/escape"
)

// Options configure a Renderer.
type Options struct {
	// Workers is the pool size; <= 0 uses GOMAXPROCS.
	Workers int
	// BatchRows is how many consecutive rows a worker takes at a time;
	// <= 0 means one.
	BatchRows int
	Kernel    escape.Kernel
	Start     escape.Start
	// Symmetry evaluates only one half of conjugate row pairs.
	Symmetry bool
	// Channels is 1 for grayscale or 3 for RGB output.
	Channels int
	// OnRow, if set, is called after every evaluated row with the number
	// of rows done so far. It is called from worker goroutines.
	OnRow func(done, total int)
}

// DefaultOptions renders grayscale with the unrolled kernel and symmetry on.
func DefaultOptions() Options {
	return Options{
		Kernel:   escape.KernelUnrolled,
		Start:    escape.StartZero,
		Symmetry: true,
		Channels: 1,
	}
}

// Renderer owns a worker pool and can be reused for many renders, also
// concurrently.
type Renderer struct {
	opts Options
	pool *workerpool.Pool
}

var _ mandel.Renderer = (*Renderer)(nil)

// New starts the worker pool.
func New(opts Options) *Renderer {
	pool := workerpool.New(opts.Workers)
	Logger().Info("raster: worker pool started", "workers", pool.NumWorkers(), "simd", hwy.CurrentName())
	return &Renderer{opts: opts, pool: pool}
}

// Close stops the worker pool. Renders after Close run sequentially.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Workers returns the pool size.
func (r *Renderer) Workers() int {
	return r.pool.NumWorkers()
}

// Render implements mandel.Renderer.
func (r *Renderer) Render(v mandel.Viewport) (mandel.Raster, error) {
	return r.RenderWith(v, r.opts)
}

// RenderWith renders v with per-call options on the renderer's pool.
// opts.Workers is ignored.
func (r *Renderer) RenderWith(v mandel.Viewport, opts Options) (mandel.Raster, error) {
	if err := v.Validate(); err != nil {
		return mandel.Raster{}, err
	}
	if opts.Channels == 0 {
		opts.Channels = 1
	}
	if opts.Channels != 1 && opts.Channels != 3 {
		return mandel.Raster{}, fmt.Errorf("%w: %d channels, want 1 or 3", mandel.ErrInvalidViewport, opts.Channels)
	}

	start := time.Now()
	plan := mirrorPlan(v, opts.Symmetry)
	rows := computedRows(plan)
	img := hwyimage.NewImage[uint8](v.Width, v.Height)

	r.evaluate(img, v, rows, opts)
	mirrored := mirror(img, plan)
	out := assemble(img, opts.Channels)

	Logger().Debug("raster: render finished",
		"width", v.Width,
		"height", v.Height,
		"depth", v.DepthMax,
		"kernel", opts.Kernel,
		"lanes", escape.Lanes(),
		"computed", len(rows),
		"mirrored", mirrored,
		"elapsed", time.Since(start),
	)
	return out, nil
}

// evaluate runs the escape-time kernel over the given rows on the pool.
func (r *Renderer) evaluate(img *hwyimage.Image[uint8], v mandel.Viewport, rows []int, opts Options) {
	re := make([]cplx.Float, v.Width)
	for px := range re {
		re[px] = cplx.Float(v.Re(px))
	}
	cfg := escape.Config{
		Kernel: opts.Kernel,
		Start:  opts.Start,
		Depth:  v.DepthMax,
	}

	var done atomic.Int64
	total := len(rows)
	batch := max(opts.BatchRows, 1)
	onRow := opts.OnRow

	r.pool.ParallelForAtomicBatched(total, batch, func(first, last int) {
		for _, py := range rows[first:last] {
			cfg.Row(img.RowSlice(py), re, cplx.Float(v.Im(py)))
			if onRow != nil {
				onRow(int(done.Add(1)), total)
			}
		}
	})
}

// mirror copies every planned row from its conjugate partner and returns
// how many rows were copied.
func mirror(img *hwyimage.Image[uint8], plan []int) int {
	n := 0
	for py, src := range plan {
		if src != py {
			copy(img.RowSlice(py), img.RowSlice(src))
			n++
		}
	}
	return n
}

// assemble packs the aligned rows into a contiguous row-major buffer,
// replicating the intensity into every channel.
func assemble(img *hwyimage.Image[uint8], channels int) mandel.Raster {
	w, h := img.Width(), img.Height()
	out := mandel.Raster{
		Pix:      make([]byte, w*h*channels),
		Width:    w,
		Height:   h,
		Channels: channels,
	}
	stride := out.Stride()
	for py := 0; py < h; py++ {
		row := img.RowSlice(py)
		dst := out.Pix[py*stride : (py+1)*stride]
		if channels == 1 {
			copy(dst, row)
			continue
		}
		for px, v := range row {
			o := px * channels
			for ch := 0; ch < channels; ch++ {
				dst[o+ch] = v
			}
		}
	}
	return out
}
