package cplx

import (
	"math"
	"testing"
)

var samples = []Complex{
	{0, 0},
	{1, 0},
	{0, 1},
	{-1.5, 0.25},
	{0.3, -0.7},
	{1e10, -3e-5},
	{-0.743643887037151, 0.131825904205330},
	{2, 2},
	{-7, 13.5},
}

func approxEqual(a, b Complex, tol float64) bool {
	return math.Abs(float64(a.Re-b.Re)) <= tol*(1+math.Abs(float64(a.Re))) &&
		math.Abs(float64(a.Im-b.Im)) <= tol*(1+math.Abs(float64(a.Im)))
}

func TestAddCommutative(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			if a.Add(b) != b.Add(a) {
				t.Errorf("(%v)+(%v) = %v, reversed = %v", a, b, a.Add(b), b.Add(a))
			}
		}
	}
}

func TestMulAssociative(t *testing.T) {
	tol := 1e-12
	if FloatBits == 32 {
		tol = 1e-4
	}
	small := samples[:5]
	for _, a := range small {
		for _, b := range small {
			for _, c := range small {
				l := a.Mul(b).Mul(c)
				r := a.Mul(b.Mul(c))
				if !approxEqual(l, r, tol) {
					t.Errorf("(%v * %v) * %v = %v, want %v", a, b, c, l, r)
				}
			}
		}
	}
}

func TestSquareMatchesMul(t *testing.T) {
	for _, a := range samples {
		sq := a.Square()
		mul := a.Mul(a)
		if math.Float64bits(float64(sq.Re)) != math.Float64bits(float64(mul.Re)) ||
			math.Float64bits(float64(sq.Im)) != math.Float64bits(float64(mul.Im)) {
			t.Errorf("Square(%v) = %v, Mul = %v", a, sq, mul)
		}
	}
}

func TestDiv(t *testing.T) {
	tol := 1e-12
	if FloatBits == 32 {
		tol = 1e-5
	}
	for _, a := range samples {
		for _, b := range samples {
			if b.Abs2() == 0 {
				continue
			}
			got := a.Div(b).Mul(b)
			if !approxEqual(got, a, tol*(1+float64(a.Abs()))) {
				t.Errorf("(%v / %v) * %v = %v, want %v", a, b, b, got, a)
			}
		}
	}
}

func TestDivByZeroIsNotClamped(t *testing.T) {
	got := New(1, 1).Div(Complex{})
	if !got.IsNaN() && !math.IsInf(float64(got.Re), 0) {
		t.Errorf("1+1i / 0 = %v, want non-finite", got)
	}
	got = New(2, -4).DivScalar(0)
	if !math.IsInf(float64(got.Re), 1) || !math.IsInf(float64(got.Im), -1) {
		t.Errorf("2-4i / 0 = %v, want +Inf -Inf", got)
	}
}

func TestScalar(t *testing.T) {
	z := New(3, -4)
	if got := z.Scale(2); got != New(6, -8) {
		t.Errorf("Scale = %v", got)
	}
	if got := z.DivScalar(2); got != New(1.5, -2) {
		t.Errorf("DivScalar = %v", got)
	}
	if got := z.Abs(); got != 5 {
		t.Errorf("Abs = %v, want 5", got)
	}
	if got := z.Abs2(); got != 25 {
		t.Errorf("Abs2 = %v, want 25", got)
	}
}

func TestAssignVariants(t *testing.T) {
	a, b := New(1.5, -2), New(0.5, 3)

	tests := []struct {
		name string
		op   func(z *Complex)
		want Complex
	}{
		{"AddAssign", func(z *Complex) { z.AddAssign(b) }, a.Add(b)},
		{"SubAssign", func(z *Complex) { z.SubAssign(b) }, a.Sub(b)},
		{"MulAssign", func(z *Complex) { z.MulAssign(b) }, a.Mul(b)},
		{"DivAssign", func(z *Complex) { z.DivAssign(b) }, a.Div(b)},
		{"ScaleAssign", func(z *Complex) { z.ScaleAssign(3) }, a.Scale(3)},
		{"DivScalarAssign", func(z *Complex) { z.DivScalarAssign(4) }, a.DivScalar(4)},
		{"SquareAssign", func(z *Complex) { z.SquareAssign() }, a.Square()},
		{"NegAssign", func(z *Complex) { z.NegAssign() }, a.Neg()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := a
			arg := b
			tt.op(&z)
			if z != tt.want {
				t.Errorf("got %v, want %v", z, tt.want)
			}
			if arg != b {
				t.Errorf("operand changed to %v", arg)
			}
		})
	}
}

func TestConjugateSquare(t *testing.T) {
	for _, a := range samples {
		l := a.Conj().Square()
		r := a.Square().Conj()
		if l != r {
			t.Errorf("conj(%v)^2 = %v, conj(%v^2) = %v", a, l, a, r)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		z    Complex
		want string
	}{
		{New(1, 0), "1"},
		{New(-2.5, 0), "-2.5"},
		{New(1, 2), "1 + 2i"},
		{New(1, -2), "1 - 2i"},
		{New(0, 0.5), "0 + 0.5i"},
		{New(-3, -0.25), "-3 - 0.25i"},
		{Complex{4, Float(math.Copysign(0, -1))}, "4"},
	}
	for _, tt := range tests {
		if got := tt.z.String(); got != tt.want {
			t.Errorf("String(%#v) = %q, want %q", tt.z, got, tt.want)
		}
	}
}

func BenchmarkSquare(b *testing.B) {
	z := New(0.3, -0.7)
	var sink Complex
	for i := 0; i < b.N; i++ {
		sink = z.Square()
	}
	_ = sink
}

func BenchmarkMulSelf(b *testing.B) {
	z := New(0.3, -0.7)
	var sink Complex
	for i := 0; i < b.N; i++ {
		sink = z.Mul(z)
	}
	_ = sink
}
