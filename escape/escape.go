// Package escape implements the escape-time evaluation of the quadratic
// recurrence z ← z² + c.
//
// Divergence is detected through IEEE-754 overflow instead of a bailout
// radius: once an orbit escapes, repeated squaring overflows to infinity and
// the next step produces ∞-∞ (or ∞·0) in the real part. The evaluators only
// test that NaN sentinel.
//
// Intensity convention: if the n-th application (0-based) of the recurrence
// is the first whose real part is NaN, the point's intensity is depth-n.
// Points that never show the sentinel within depth applications are inside
// the set and get 0. For a finite c the first application yields c itself,
// so escaping points always land in [1, depth-1].
package escape

import (
	"github.com/marben/mandelraster/cplx"
)

// MaxDepth is the largest depth whose intensities fit a byte.
const MaxDepth = 255

func clampDepth(depth int) int {
	return min(depth, MaxDepth)
}

// Count evaluates c starting from z₀ = 0.
func Count(c cplx.Complex, depth int) uint8 {
	return CountFrom(cplx.Complex{}, c, depth)
}

// CountFrom evaluates c starting from z0. The loop applies the recurrence
// twice per turn and tests the sentinel after each sub-step. The first
// sub-step of turn i is application i and reports depth-i; the second is
// application i+1 and reports depth-i-1. Labelling the first sub-step
// depth-i-1 instead would shift every odd escape by one against
// CountSingle.
func CountFrom(z0, c cplx.Complex, depth int) uint8 {
	depth = clampDepth(depth)
	z := z0
	i := 0
	for ; i+1 < depth; i += 2 {
		z = z.Square().Add(c)
		if z.Re != z.Re {
			return uint8(depth - i)
		}
		z = z.Square().Add(c)
		if z.Re != z.Re {
			return uint8(depth - i - 1)
		}
	}
	if i < depth {
		z = z.Square().Add(c)
		if z.Re != z.Re {
			return uint8(depth - i)
		}
	}
	return 0
}

// CountSingle is the one-step-per-turn reference loop.
func CountSingle(z0, c cplx.Complex, depth int) uint8 {
	depth = clampDepth(depth)
	z := z0
	for n := 0; n < depth; n++ {
		z = z.Square().Add(c)
		if z.Re != z.Re {
			return uint8(depth - n)
		}
	}
	return 0
}

// BailoutRadius2 is the squared modulus past which CountBailout declares
// divergence. It is large enough that no finite c escapes on the first
// application in practice, like the overflow test.
const BailoutRadius2 = 1 << 64

// CountBailout is the magnitude-threshold variant for runtimes without IEEE
// overflow semantics. It escapes earlier than the overflow test, so its
// intensities are not identical to Count's.
func CountBailout(z0, c cplx.Complex, depth int) uint8 {
	depth = clampDepth(depth)
	z := z0
	for n := 0; n < depth; n++ {
		z = z.Square().Add(c)
		if z.Abs2() > BailoutRadius2 {
			return uint8(depth - n)
		}
	}
	return 0
}
