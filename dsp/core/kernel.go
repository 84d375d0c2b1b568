package core

import (
	"fmt"
	"math"
)

// SincThreshold is the magnitude below which Sinc and SincNorm return 1.
const SincThreshold = 1e-9

// besselTerms is the number of power-series terms used by Bessel.
const besselTerms = 9

// Convolve returns the discrete linear convolution of x and h, of length
// len(x)+len(h)-1.
func Convolve[T Scalar](x, h []T) ([]T, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, fmt.Errorf("%w: convolve operands must be non-empty", ErrEmptyInput)
	}

	y := make([]T, len(x)+len(h)-1)
	convolve(y, x, h)

	return y, nil
}

// ConvolveTo writes the linear convolution of x and h into dst, which must
// have length len(x)+len(h)-1 and must not overlap x or h.
func ConvolveTo[T Scalar](dst, x, h []T) error {
	if len(x) == 0 || len(h) == 0 {
		return fmt.Errorf("%w: convolve operands must be non-empty", ErrEmptyInput)
	}

	if want := len(x) + len(h) - 1; len(dst) != want {
		return fmt.Errorf("%w: dst has %d samples, want %d", ErrLengthMismatch, len(dst), want)
	}

	convolve(dst, x, h)

	return nil
}

func convolve[T Scalar](y, x, h []T) {
	m := len(x)
	n := len(h)

	for k := range y {
		kMin := 0
		if k >= n-1 {
			kMin = k - (n - 1)
		}

		kMax := k
		if k >= m-1 {
			kMax = m - 1
		}

		var acc T
		for j := kMin; j <= kMax; j++ {
			acc += x[j] * h[k-j]
		}

		y[k] = acc
	}
}

// Bessel approximates the zeroth-order modified Bessel function of the first
// kind with the power series 1 + Σ ((x/2)^i / i!)², i = 1..9.
func Bessel[F Float](x F) F {
	half := x / 2
	sum := F(1)
	term := F(1)

	for i := 1; i <= besselTerms; i++ {
		term *= half / F(i)
		sum += term * term
	}

	return sum
}

// Sinc returns sin(x)/x, or 1 when |x| < SincThreshold.
func Sinc[F Float](x F) F {
	if math.Abs(float64(x)) < SincThreshold {
		return 1
	}

	return F(math.Sin(float64(x))) / x
}

// SincNorm returns the normalised sinc sin(πx)/(πx), or 1 when
// |x| < SincThreshold.
func SincNorm[F Float](x F) F {
	if math.Abs(float64(x)) < SincThreshold {
		return 1
	}

	px := Pi[F]() * x

	return F(math.Sin(float64(px))) / px
}

// Sine evaluates amplitude·sin(2π·freq·t + phase) + offset.
func Sine[F Float](amplitude, t, freq, phase, offset F) F {
	arg := TwoPi[F]()*freq*t + phase
	return amplitude*F(math.Sin(float64(arg))) + offset
}

// Gcd returns the greatest common divisor of a and b using the binary
// (Stein) algorithm. Gcd(0, b) is b.
func Gcd[U Unsigned](a, b U) U {
	if a == 0 {
		return b
	}

	if b == 0 {
		return a
	}

	var shift uint
	for (a|b)&1 == 0 {
		a >>= 1
		b >>= 1
		shift++
	}

	for a&1 == 0 {
		a >>= 1
	}

	for b != 0 {
		for b&1 == 0 {
			b >>= 1
		}

		if a > b {
			a, b = b, a
		}

		b -= a
	}

	return a << shift
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2[I Integer](n I) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOf2 returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
