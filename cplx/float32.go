//go:build mandel_single

package cplx

// Float is the component type of Complex, single precision in this build.
type Float = float32

// FloatBits is the width of Float in bits.
const FloatBits = 32
