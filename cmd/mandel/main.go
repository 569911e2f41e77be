// Command mandel renders an escape-time Mandelbrot raster and writes it to an
// image file.
//
// Usage:
//
//	mandel -width 8000 -height 6000 -scale 0.0005 -out mandel.png
//	mandel -preset seahorse-valley -width 1920 -height 1080 -out seahorse.jpg
//	mandel -kernel lanes -channels 3 -format tiff -out mandel.tif
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mandel "github.com/marben/mandelraster"
	"github.com/marben/mandelraster/encode"
	"github.com/marben/mandelraster/escape"
	"github.com/marben/mandelraster/raster"
)

// config is everything the command line selects.
type config struct {
	viewport mandel.Viewport
	opts     raster.Options
	out      string
	format   encode.Format
	verbose  bool
}

// main is the entry point for the CLI renderer.
// Invalid flags exit with status 2 before any rendering starts.
func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	def := mandel.DefaultViewport()
	var (
		width    = fs.Int("width", def.Width, "canvas width in pixels")
		height   = fs.Int("height", def.Height, "canvas height in pixels")
		xoff     = fs.Int("xoff", def.XOffset, "horizontal offset of the canvas centre in pixels")
		yoff     = fs.Int("yoff", def.YOffset, "vertical offset of the canvas centre in pixels")
		scale    = fs.Float64("scale", def.Scale, "complex-plane distance of one pixel step")
		depth    = fs.Int("depth", def.DepthMax, "maximum iteration depth (1-255)")
		preset   = fs.String("preset", "", "landmark region to frame, overrides -scale/-xoff/-yoff")
		out      = fs.String("out", "mandel.png", "output image path")
		format   = fs.String("format", "", "png, jpeg, bmp or tiff (default: from -out extension)")
		channels = fs.Int("channels", 1, "1 for grayscale, 3 for RGB")
		kernel   = fs.String("kernel", escape.KernelUnrolled.String(), "evaluator: unrolled, single, bailout or lanes")
		start    = fs.String("start", escape.StartZero.String(), "orbit start: zero or const")
		symmetry = fs.Bool("symmetry", true, "mirror conjugate rows instead of evaluating them")
		workers  = fs.Int("workers", 0, "worker pool size (default: GOMAXPROCS)")
		batch    = fs.Int("batch", 1, "rows a worker takes at a time")
		verbose  = fs.Bool("v", false, "log renderer diagnostics")
	)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{
		viewport: mandel.Viewport{
			Width:    *width,
			Height:   *height,
			XOffset:  *xoff,
			YOffset:  *yoff,
			Scale:    *scale,
			DepthMax: *depth,
		},
		out:     *out,
		verbose: *verbose,
	}
	if *preset != "" {
		r, ok := mandel.PresetByName(*preset)
		if !ok {
			return config{}, fmt.Errorf("unknown preset %q (want one of %v)", *preset, mandel.PresetNames())
		}
		cfg.viewport = r.Viewport(*width, *height, *depth)
	}
	if err := cfg.viewport.Validate(); err != nil {
		return config{}, err
	}

	var err error
	if *format != "" {
		cfg.format, err = encode.ParseFormat(*format)
	} else {
		cfg.format, err = encode.FormatFromPath(*out)
	}
	if err != nil {
		return config{}, err
	}

	if *channels != 1 && *channels != 3 {
		return config{}, fmt.Errorf("%w: -channels %d, want 1 or 3", mandel.ErrInvalidViewport, *channels)
	}
	k, err := escape.ParseKernel(*kernel)
	if err != nil {
		return config{}, err
	}
	s, err := escape.ParseStart(*start)
	if err != nil {
		return config{}, err
	}
	cfg.opts = raster.Options{
		Workers:   *workers,
		BatchRows: *batch,
		Kernel:    k,
		Start:     s,
		Symmetry:  *symmetry,
		Channels:  *channels,
	}
	return cfg, nil
}

// run renders the configured viewport and saves it.
// Returns an error if rendering or encoding fails.
func run(cfg config) error {
	if cfg.verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	p := message.NewPrinter(language.English)

	renderer := raster.New(cfg.opts)
	defer renderer.Close()

	v := cfg.viewport
	log.Print(p.Sprintf("[info] Rendering %d×%d (%d pixels, depth %d) on %d workers...",
		v.Width, v.Height, v.Pixels(), v.DepthMax, renderer.Workers()))
	start := time.Now()
	img, err := renderer.Render(v)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("[info] Rendering took %.2f seconds, writing %v to %q...",
		time.Since(start).Seconds(), cfg.format, cfg.out)

	if err := encode.WriteFile(cfg.out, img, cfg.format); err != nil {
		return fmt.Errorf("save %q: %w", cfg.out, err)
	}
	log.Print(p.Sprintf("[info] Done: %d bytes of pixels saved to %q.", len(img.Pix), cfg.out))
	return nil
}
