package escape

import (
	"math"
	"testing"

	"github.com/marben/mandelraster/cplx"
)

// grid returns constants covering the set, its boundary and the far field.
func grid() []cplx.Complex {
	var pts []cplx.Complex
	for re := -2.5; re <= 1.5; re += 0.0625 {
		for im := -1.5; im <= 1.5; im += 0.0625 {
			pts = append(pts, cplx.New(cplx.Float(re), cplx.Float(im)))
		}
	}
	pts = append(pts,
		cplx.New(-0.743643887037151, 0.131825904205330),
		cplx.New(0.25, 0),
		cplx.New(-2, 0),
		cplx.New(3, 0),
		cplx.New(1e3, -1e3),
	)
	return pts
}

var kernels = []Kernel{KernelUnrolled, KernelSingle, KernelBailout, KernelLanes}

func TestOriginIsInside(t *testing.T) {
	for _, k := range kernels {
		for _, s := range []Start{StartZero, StartConst} {
			cfg := Config{Kernel: k, Start: s}
			for depth := 1; depth <= MaxDepth; depth++ {
				cfg.Depth = depth
				if got := cfg.Point(cplx.Complex{}); got != 0 {
					t.Fatalf("%v/%v depth %d: origin = %d, want 0", k, s, depth, got)
				}
			}
		}
	}
}

func TestZeroDepth(t *testing.T) {
	if got := Count(cplx.New(10, 10), 0); got != 0 {
		t.Errorf("Count with depth 0 = %d, want 0", got)
	}
	dst := []uint8{7, 7, 7, 7, 7}
	CountRow(dst, []cplx.Float{10, 20, 30, 40, 50}, 1, 0)
	for x, v := range dst {
		if v != 0 {
			t.Errorf("CountRow depth 0: dst[%d] = %d, want 0", x, v)
		}
	}
}

func TestRapidDivergence(t *testing.T) {
	const depth = 255
	for _, re := range []cplx.Float{2.001, 2.5, 3, 10, 1e6} {
		for _, k := range kernels {
			got := Config{Kernel: k, Depth: depth}.Point(cplx.New(re, 0))
			if got == 0 || got >= depth {
				t.Errorf("%v: c = %v: got %d, want in (0, %d)", k, re, got, depth)
			}
			if iters := depth - int(got); iters > 40 {
				t.Errorf("%v: c = %v escaped after %d applications", k, re, iters)
			}
		}
	}
}

func TestConjugateSymmetry(t *testing.T) {
	for _, k := range kernels {
		cfg := Config{Kernel: k, Depth: 200}
		for _, c := range grid() {
			if a, b := cfg.Point(c), cfg.Point(c.Conj()); a != b {
				t.Errorf("%v: %v -> %d, conjugate -> %d", k, c, a, b)
			}
		}
	}
}

func TestUnrolledMatchesSingle(t *testing.T) {
	for _, depth := range []int{1, 2, 3, 10, 11, 100, 254, 255, 1000} {
		for _, c := range grid() {
			for _, z0 := range []cplx.Complex{{}, c} {
				u := CountFrom(z0, c, depth)
				s := CountSingle(z0, c, depth)
				if u != s {
					t.Errorf("depth %d z0 %v c %v: unrolled %d, single %d", depth, z0, c, u, s)
				}
			}
		}
	}
}

// The sentinel's first appearance fixes the label: application 0 reports
// depth, application 1 reports depth-1, in either half of an unrolled turn.
func TestSubStepLabels(t *testing.T) {
	const depth = 10
	inf := cplx.Float(math.Inf(1))
	nan := cplx.Float(math.NaN())
	tests := []struct {
		name  string
		z0, c cplx.Complex
		want  uint8
	}{
		// (NaN)² + 0 is NaN after the first sub-step.
		{"first sub-step", cplx.New(nan, 0), cplx.Complex{}, depth},
		// (∞, 0) gains a NaN imaginary part, then ∞² − NaN² in the second.
		{"second sub-step", cplx.New(inf, 0), cplx.New(inf, 0), depth - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountFrom(tt.z0, tt.c, depth); got != tt.want {
				t.Errorf("CountFrom = %d, want %d", got, tt.want)
			}
			if got := CountSingle(tt.z0, tt.c, depth); got != tt.want {
				t.Errorf("CountSingle = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartConstIsOneAhead(t *testing.T) {
	const depth = 255
	for _, re := range []cplx.Float{2.5, 3, 10} {
		c := cplx.New(re, 0.5)
		zero := Count(c, depth)
		fromC := CountFrom(c, c, depth)
		if int(fromC) != int(zero)+1 {
			t.Errorf("c = %v: z0=c gives %d, z0=0 gives %d", c, fromC, zero)
		}
	}
}

func TestCountRowMatchesCount(t *testing.T) {
	lanes := Lanes()
	for _, width := range []int{1, 2, lanes - 1, lanes, lanes + 1, 3*lanes + 2, 97} {
		if width <= 0 {
			continue
		}
		re := make([]cplx.Float, width)
		for x := range re {
			re[x] = cplx.Float(-2.5 + 4*float64(x)/float64(width))
		}
		for _, im := range []cplx.Float{0, 0.1, -0.65, 1.2} {
			for _, start := range []Start{StartZero, StartConst} {
				for _, depth := range []int{1, 7, 64, 255} {
					lanesCfg := Config{Kernel: KernelLanes, Start: start, Depth: depth}
					scalarCfg := Config{Kernel: KernelUnrolled, Start: start, Depth: depth}
					got := make([]uint8, width)
					want := make([]uint8, width)
					lanesCfg.Row(got, re, im)
					scalarCfg.Row(want, re, im)
					for x := range got {
						if got[x] != want[x] {
							t.Fatalf("width %d im %v %v depth %d: x=%d lanes %d, scalar %d",
								width, im, start, depth, x, got[x], want[x])
						}
					}
				}
			}
		}
	}
}

func TestDepthClamped(t *testing.T) {
	c := cplx.New(0.3, 0.5)
	if a, b := Count(c, 10000), Count(c, MaxDepth); a != b {
		t.Errorf("depth 10000 = %d, depth %d = %d", a, MaxDepth, b)
	}
}

func TestParseKernel(t *testing.T) {
	for _, k := range kernels {
		got, err := ParseKernel(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKernel(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKernel("gpu"); err == nil {
		t.Error("ParseKernel(gpu) succeeded")
	}
	if got := Kernel(42).String(); got != "Kernel(42)" {
		t.Errorf("Kernel(42).String() = %q", got)
	}
}

func TestParseStart(t *testing.T) {
	tests := []struct {
		in   string
		want Start
		ok   bool
	}{
		{"zero", StartZero, true},
		{"CONST", StartConst, true},
		{"c", StartConst, true},
		{"one", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseStart(tt.in)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Errorf("ParseStart(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func benchRow(b *testing.B, k Kernel) {
	re := make([]cplx.Float, 1024)
	for x := range re {
		re[x] = cplx.Float(-2 + 2.5*float64(x)/1024)
	}
	dst := make([]uint8, len(re))
	cfg := Config{Kernel: k, Depth: MaxDepth}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.Row(dst, re, 0.3)
	}
}

func BenchmarkRowUnrolled(b *testing.B) { benchRow(b, KernelUnrolled) }
func BenchmarkRowSingle(b *testing.B)   { benchRow(b, KernelSingle) }
func BenchmarkRowBailout(b *testing.B)  { benchRow(b, KernelBailout) }
func BenchmarkRowLanes(b *testing.B)    { benchRow(b, KernelLanes) }
