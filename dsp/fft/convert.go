package fft

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/dac1976/dsp/dsp/core"
)

// ToMagnitude replaces the converted bins with their single-sided magnitude
// in the real part. Every bin except DC is doubled before taking |z|.
func ToMagnitude[C core.Complex](x []C, opts ...Option) {
	cfg := applyOptions(opts)
	n := cfg.span(len(x))

	for i := range n {
		z := complex128(x[i])
		if i > 0 {
			z *= 2
		}
		x[i] = C(complex(cmplx.Abs(z), 0))
	}

	if cfg.zeroUnused {
		core.Zero(x[n:])
	}
}

// MagnitudeTo writes the single-sided magnitude of x into dst, resized to
// the converted span, and returns it.
func MagnitudeTo[F core.Float, C core.Complex](dst []F, x []C, opts ...Option) []F {
	n := applyOptions(opts).span(len(x))
	dst = core.EnsureLen(dst, n)

	for i := range n {
		m := cmplx.Abs(complex128(x[i]))
		if i > 0 {
			m *= 2
		}
		dst[i] = F(m)
	}

	return dst
}

// ToPower replaces the converted bins with |z|² in the real part.
func ToPower[C core.Complex](x []C, opts ...Option) {
	cfg := applyOptions(opts)
	n := cfg.span(len(x))

	for i := range n {
		x[i] = C(complex(norm(x[i]), 0))
	}

	if cfg.zeroUnused {
		core.Zero(x[n:])
	}
}

// PowerTo writes |z|² of the converted bins into dst and returns it.
func PowerTo[F core.Float, C core.Complex](dst []F, x []C, opts ...Option) []F {
	n := applyOptions(opts).span(len(x))
	dst = core.EnsureLen(dst, n)

	for i := range n {
		dst[i] = F(norm(x[i]))
	}

	return dst
}

// ToPsd divides the real part of the converted bins of a power spectrum by
// binWidthHz.
func ToPsd[C core.Complex, F core.Float](x []C, binWidthHz F, opts ...Option) error {
	if err := validateBinWidth(float64(binWidthHz)); err != nil {
		return err
	}

	cfg := applyOptions(opts)
	n := cfg.span(len(x))
	bw := float64(binWidthHz)

	for i := range n {
		z := complex128(x[i])
		x[i] = C(complex(real(z)/bw, imag(z)))
	}

	if cfg.zeroUnused {
		core.Zero(x[n:])
	}

	return nil
}

// PsdTo writes the PSD of a complex power spectrum into dst and returns it.
func PsdTo[F core.Float, C core.Complex](dst []F, x []C, binWidthHz F, opts ...Option) ([]F, error) {
	if err := validateBinWidth(float64(binWidthHz)); err != nil {
		return dst, err
	}

	n := applyOptions(opts).span(len(x))
	dst = core.EnsureLen(dst, n)

	for i := range n {
		dst[i] = F(real(complex128(x[i]))) / binWidthHz
	}

	return dst, nil
}

// PsdReal divides a real power spectrum by binWidthHz in place.
func PsdReal[F core.Float](x []F, binWidthHz F) error {
	if err := validateBinWidth(float64(binWidthHz)); err != nil {
		return err
	}

	for i := range x {
		x[i] /= binWidthHz
	}

	return nil
}

// To3BinSum converts the converted span of a power spectrum (real parts)
// to 3-bin summed peak amplitudes. The imaginary parts are cleared.
func To3BinSum[C core.Complex](x []C, opts ...Option) {
	cfg := applyOptions(opts)
	n := cfg.span(len(x))

	var prev float64
	for i := range n {
		cur := real(complex128(x[i]))

		var next float64
		if i+1 < n {
			next = real(complex128(x[i+1]))
		}

		x[i] = C(complex(math.Sqrt(prev+cur+next)*math.Sqrt2, 0))
		prev = cur
	}

	if cfg.zeroUnused {
		core.Zero(x[n:])
	}
}

// ThreeBinSumReal converts a real power spectrum to 3-bin summed peak
// amplitudes in place. The result equals √2·√y[k+1] where y is the
// convolution of x with [1 1 1].
func ThreeBinSumReal[F core.Float](x []F) {
	sqrt2 := core.SqrtTwo[F]()

	var prev F
	for i, cur := range x {
		var next F
		if i+1 < len(x) {
			next = x[i+1]
		}

		x[i] = F(math.Sqrt(float64(prev+cur+next))) * sqrt2
		prev = cur
	}
}

// Phases writes arg(x[i]) for the first n bins into dst and returns it.
func Phases[F core.Float, C core.Complex](dst []F, x []C, n int) []F {
	n = min(n, len(x))
	dst = core.EnsureLen(dst, n)

	for i := range n {
		dst[i] = F(cmplx.Phase(complex128(x[i])))
	}

	return dst
}

func norm[C core.Complex](z C) float64 {
	c := complex128(z)
	re, im := real(c), imag(c)
	return re*re + im*im
}

func validateBinWidth(bw float64) error {
	if !(bw > 0) || math.IsInf(bw, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidBinWidth, bw)
	}
	return nil
}
