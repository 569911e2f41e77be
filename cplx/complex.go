// Package cplx provides the complex value type used by the escape-time
// evaluator.
//
// Complex is a plain value: every operator returns a new value and never
// touches its operands. The Assign variants only replace the receiver.
//
// Products are rounded explicitly with a Float conversion so the compiler
// never fuses them into a multiply-add. The evaluator depends on that for
// Square to match Mul bit for bit and for conjugate points to produce
// mirrored trajectories.
package cplx

import (
	"math"
	"strconv"
)

// Complex represents Re + Im·i.
type Complex struct {
	Re, Im Float
}

// New returns re + im·i.
func New(re, im Float) Complex {
	return Complex{Re: re, Im: im}
}

func (z Complex) Add(w Complex) Complex {
	return Complex{z.Re + w.Re, z.Im + w.Im}
}

func (z Complex) Sub(w Complex) Complex {
	return Complex{z.Re - w.Re, z.Im - w.Im}
}

func (z Complex) Neg() Complex {
	return Complex{-z.Re, -z.Im}
}

// Conj returns the complex conjugate Re - Im·i.
func (z Complex) Conj() Complex {
	return Complex{z.Re, -z.Im}
}

func (z Complex) Mul(w Complex) Complex {
	return Complex{
		Float(z.Re*w.Re) - Float(z.Im*w.Im),
		Float(z.Re*w.Im) + Float(z.Im*w.Re),
	}
}

// Square returns z·z. The cross term is computed once and doubled, which
// gives exactly the same bits as z.Mul(z).
func (z Complex) Square() Complex {
	cross := Float(z.Re * z.Im)
	return Complex{
		Float(z.Re*z.Re) - Float(z.Im*z.Im),
		cross + cross,
	}
}

// Div returns z/w computed as z·conj(w)/|w|².
//
// The quotient is undefined when |w|² is zero. No clamping is done: the
// result is whatever IEEE-754 division yields (Inf or NaN components).
func (z Complex) Div(w Complex) Complex {
	d := w.Abs2()
	return Complex{
		(Float(z.Re*w.Re) + Float(z.Im*w.Im)) / d,
		(Float(z.Im*w.Re) - Float(z.Re*w.Im)) / d,
	}
}

// Scale multiplies both components by s.
func (z Complex) Scale(s Float) Complex {
	return Complex{z.Re * s, z.Im * s}
}

// DivScalar divides both components by s. Same domain restriction as Div
// for s == 0.
func (z Complex) DivScalar(s Float) Complex {
	return Complex{z.Re / s, z.Im / s}
}

// Abs2 returns the squared modulus Re² + Im².
func (z Complex) Abs2() Float {
	return Float(z.Re*z.Re) + Float(z.Im*z.Im)
}

// Abs returns the modulus.
func (z Complex) Abs() Float {
	return Float(math.Hypot(float64(z.Re), float64(z.Im)))
}

// IsNaN reports whether either component is NaN.
func (z Complex) IsNaN() bool {
	return z.Re != z.Re || z.Im != z.Im
}

func (z *Complex) AddAssign(w Complex)     { *z = z.Add(w) }
func (z *Complex) SubAssign(w Complex)     { *z = z.Sub(w) }
func (z *Complex) MulAssign(w Complex)     { *z = z.Mul(w) }
func (z *Complex) DivAssign(w Complex)     { *z = z.Div(w) }
func (z *Complex) ScaleAssign(s Float)     { *z = z.Scale(s) }
func (z *Complex) DivScalarAssign(s Float) { *z = z.DivScalar(s) }
func (z *Complex) SquareAssign()           { *z = z.Square() }
func (z *Complex) NegAssign()              { *z = z.Neg() }

// String formats z as "re", "re + imi" or "re - imi" depending on the sign
// of the imaginary part.
func (z Complex) String() string {
	re := formatFloat(z.Re)
	switch {
	case z.Im == 0:
		return re
	case z.Im < 0:
		return re + " - " + formatFloat(-z.Im) + "i"
	default:
		return re + " + " + formatFloat(z.Im) + "i"
	}
}

func formatFloat(f Float) string {
	return strconv.FormatFloat(float64(f), 'g', -1, FloatBits)
}
