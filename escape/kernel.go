package escape

import (
	"fmt"
	"strings"

	"github.com/marben/mandelraster/cplx"
)

// Kernel selects the evaluation loop.
type Kernel int

const (
	// KernelUnrolled is the two-step overflow loop (Count).
	KernelUnrolled Kernel = iota
	// KernelSingle is the one-step overflow loop (CountSingle).
	KernelSingle
	// KernelBailout uses a magnitude threshold (CountBailout).
	KernelBailout
	// KernelLanes evaluates whole rows with SIMD lanes (CountRow).
	KernelLanes
)

var kernelNames = [...]string{
	KernelUnrolled: "unrolled",
	KernelSingle:   "single",
	KernelBailout:  "bailout",
	KernelLanes:    "lanes",
}

func (k Kernel) String() string {
	if k < 0 || int(k) >= len(kernelNames) {
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
	return kernelNames[k]
}

// ParseKernel returns the kernel with the given name.
func ParseKernel(s string) (Kernel, error) {
	for k, name := range kernelNames {
		if strings.EqualFold(s, name) {
			return Kernel(k), nil
		}
	}
	return 0, fmt.Errorf("unknown kernel %q (want one of %s)", s, strings.Join(kernelNames[:], ", "))
}

// Start selects the initial value of the orbit.
type Start int

const (
	// StartZero starts every orbit at z₀ = 0.
	StartZero Start = iota
	// StartConst starts every orbit at z₀ = c.
	StartConst
)

func (s Start) String() string {
	switch s {
	case StartZero:
		return "zero"
	case StartConst:
		return "const"
	}
	return fmt.Sprintf("Start(%d)", int(s))
}

// ParseStart returns the start mode with the given name.
func ParseStart(s string) (Start, error) {
	switch strings.ToLower(s) {
	case "zero", "0":
		return StartZero, nil
	case "const", "c":
		return StartConst, nil
	}
	return 0, fmt.Errorf("unknown start %q (want zero or const)", s)
}

// Config binds a kernel, a start mode and a depth ceiling.
type Config struct {
	Kernel Kernel
	Start  Start
	Depth  int
}

func (cfg Config) z0(c cplx.Complex) cplx.Complex {
	if cfg.Start == StartConst {
		return c
	}
	return cplx.Complex{}
}

// Point evaluates a single constant.
func (cfg Config) Point(c cplx.Complex) uint8 {
	switch cfg.Kernel {
	case KernelSingle:
		return CountSingle(cfg.z0(c), c, cfg.Depth)
	case KernelBailout:
		return CountBailout(cfg.z0(c), c, cfg.Depth)
	default:
		return CountFrom(cfg.z0(c), c, cfg.Depth)
	}
}

// Row evaluates the constants re[x] + im·i into dst[x].
func (cfg Config) Row(dst []uint8, re []cplx.Float, im cplx.Float) {
	if cfg.Kernel == KernelLanes {
		countRow(dst, re, im, cfg.Depth, cfg.Start == StartConst)
		return
	}
	n := min(len(dst), len(re))
	for x := 0; x < n; x++ {
		dst[x] = cfg.Point(cplx.Complex{Re: re[x], Im: im})
	}
}
