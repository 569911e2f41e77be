package main

import (
	"fmt"
	"net/url"
	"strconv"

	mandel "github.com/marben/mandelraster"
	"github.com/marben/mandelraster/encode"
	"github.com/marben/mandelraster/escape"
	"github.com/marben/mandelraster/raster"
)

// renderRequest is what clients send, as query parameters on /render or as
// the first JSON message on /ws. Zero fields take the defaults below.
type renderRequest struct {
	Preset   string  `json:"preset,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	XOffset  int     `json:"xoff,omitempty"`
	YOffset  int     `json:"yoff,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Depth    int     `json:"depth,omitempty"`
	Format   string  `json:"format,omitempty"`
	Channels int     `json:"channels,omitempty"`
	Kernel   string  `json:"kernel,omitempty"`
	Start    string  `json:"start,omitempty"`
	Symmetry *bool   `json:"symmetry,omitempty"`
}

// Defaults for the preview server, much smaller than the CLI's.
const (
	defaultWidth  = 1920
	defaultHeight = 1080
	defaultScale  = 0.002
	maxPixels     = 64 << 20
)

// render is a resolved request.
type render struct {
	viewport mandel.Viewport
	opts     raster.Options
	format   encode.Format
}

func (req renderRequest) resolve() (render, error) {
	out := render{
		viewport: mandel.Viewport{
			Width:    or(req.Width, defaultWidth),
			Height:   or(req.Height, defaultHeight),
			XOffset:  req.XOffset,
			YOffset:  req.YOffset,
			Scale:    req.Scale,
			DepthMax: or(req.Depth, mandel.MaxDepth),
		},
		opts: raster.DefaultOptions(),
	}
	if out.viewport.Scale == 0 {
		out.viewport.Scale = defaultScale
	}
	if req.Preset != "" {
		r, ok := mandel.PresetByName(req.Preset)
		if !ok {
			return render{}, fmt.Errorf("%w: unknown preset %q", mandel.ErrInvalidViewport, req.Preset)
		}
		out.viewport = r.Viewport(out.viewport.Width, out.viewport.Height, out.viewport.DepthMax)
	}
	if err := out.viewport.Validate(); err != nil {
		return render{}, err
	}
	if v := out.viewport; v.Width > maxPixels/v.Height {
		return render{}, fmt.Errorf("%w: %d×%d exceeds the server limit of %d pixels", mandel.ErrInvalidViewport, v.Width, v.Height, maxPixels)
	}

	var err error
	if req.Format != "" {
		if out.format, err = encode.ParseFormat(req.Format); err != nil {
			return render{}, fmt.Errorf("%w: %v", mandel.ErrInvalidViewport, err)
		}
	}
	if req.Kernel != "" {
		if out.opts.Kernel, err = escape.ParseKernel(req.Kernel); err != nil {
			return render{}, fmt.Errorf("%w: %v", mandel.ErrInvalidViewport, err)
		}
	}
	if req.Start != "" {
		if out.opts.Start, err = escape.ParseStart(req.Start); err != nil {
			return render{}, fmt.Errorf("%w: %v", mandel.ErrInvalidViewport, err)
		}
	}
	if req.Symmetry != nil {
		out.opts.Symmetry = *req.Symmetry
	}
	out.opts.Channels = or(req.Channels, 1)
	if out.opts.Channels != 1 && out.opts.Channels != 3 {
		return render{}, fmt.Errorf("%w: %d channels, want 1 or 3", mandel.ErrInvalidViewport, out.opts.Channels)
	}
	return out, nil
}

func or(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// requestFromQuery reads a renderRequest from /render query parameters.
func requestFromQuery(q url.Values) (renderRequest, error) {
	req := renderRequest{
		Preset: q.Get("preset"),
		Format: q.Get("format"),
		Kernel: q.Get("kernel"),
		Start:  q.Get("start"),
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"width", &req.Width},
		{"height", &req.Height},
		{"xoff", &req.XOffset},
		{"yoff", &req.YOffset},
		{"depth", &req.Depth},
		{"channels", &req.Channels},
	}
	for _, p := range ints {
		s := q.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return renderRequest{}, fmt.Errorf("%w: %s: %v", mandel.ErrInvalidViewport, p.key, err)
		}
		*p.dst = n
	}
	if s := q.Get("scale"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return renderRequest{}, fmt.Errorf("%w: scale: %v", mandel.ErrInvalidViewport, err)
		}
		req.Scale = f
	}
	if s := q.Get("symmetry"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return renderRequest{}, fmt.Errorf("%w: symmetry: %v", mandel.ErrInvalidViewport, err)
		}
		req.Symmetry = &b
	}
	return req, nil
}
