package escape

import (
	"github.com/ajroetker/go-highway/hwy"

	"github.com/marben/mandelraster/cplx"
)

// Lanes returns how many points CountRow evaluates per vector.
func Lanes() int {
	return hwy.MaxLanes[cplx.Float]()
}

// CountRow evaluates re[x] + im·i for every x with z₀ = 0 and stores the
// intensities in dst. Results are identical to Count.
func CountRow(dst []uint8, re []cplx.Float, im cplx.Float, depth int) {
	countRow(dst, re, im, depth, false)
}

func countRow(dst []uint8, re []cplx.Float, im cplx.Float, depth int, fromC bool) {
	depth = clampDepth(depth)
	n := min(len(dst), len(re))
	lanes := Lanes()

	x := 0
	if lanes > 1 {
		escaped := make([]bool, lanes)
		ci := hwy.Set(im)
		for ; x+lanes <= n; x += lanes {
			cr := hwy.Load(re[x : x+lanes])
			countVec(dst[x:x+lanes], escaped, cr, ci, depth, fromC)
		}
	}

	// Tail shorter than a vector.
	for ; x < n; x++ {
		c := cplx.Complex{Re: re[x], Im: im}
		z0 := cplx.Complex{}
		if fromC {
			z0 = c
		}
		dst[x] = CountFrom(z0, c, depth)
	}
}

// countVec runs one vector of orbits until every lane has shown the NaN
// sentinel or the depth is exhausted. escaped is scratch of length lanes.
func countVec(dst []uint8, escaped []bool, cr, ci hwy.Vec[cplx.Float], depth int, fromC bool) {
	for l := range escaped {
		escaped[l] = false
		dst[l] = 0
	}
	remaining := len(escaped)

	zr, zi := hwy.Zero[cplx.Float](), hwy.Zero[cplx.Float]()
	if fromC {
		zr, zi = cr, ci
	}

	// mark records the first sentinel of every lane at application n.
	mark := func(n int) {
		nan := hwy.IsNaN(zr)
		if !nan.AnyTrue() {
			return
		}
		for l := range escaped {
			if !escaped[l] && nan.GetBit(l) {
				escaped[l] = true
				dst[l] = uint8(depth - n)
				remaining--
			}
		}
	}

	step := func() {
		cross := hwy.Mul(zr, zi)
		zr = hwy.Add(hwy.Sub(hwy.Mul(zr, zr), hwy.Mul(zi, zi)), cr)
		zi = hwy.Add(hwy.Add(cross, cross), ci)
	}

	i := 0
	for ; i+1 < depth && remaining > 0; i += 2 {
		step()
		mark(i)
		step()
		mark(i + 1)
	}
	if i < depth && remaining > 0 {
		step()
		mark(i)
	}
}
