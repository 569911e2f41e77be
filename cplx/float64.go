//go:build !mandel_single

package cplx

// Float is the component type of Complex. Build with the mandel_single tag
// to switch every computation to single precision.
type Float = float64

// FloatBits is the width of Float in bits.
const FloatBits = 64
