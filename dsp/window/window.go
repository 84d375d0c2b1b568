// Package window provides window generators and precomputed windows with
// their amplitude and noise gains.
//
// A Generator evaluates one coefficient in float64; Generate mirrors the
// first half so windows are exactly symmetric. New wraps the coefficients
// in a Window that also carries the coherent gain, equivalent noise
// bandwidth (ENBW), power gain, and combined gain used to correct
// windowed spectra.
package window

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/internal/simdops"
)

// enbwSumThreshold guards the ENBW ratio against windows summing to zero.
const enbwSumThreshold = 1e-9

// Generator evaluates window coefficient n of a window spanning
// [0, sizeMinusOne].
type Generator interface {
	Coefficient(n, sizeMinusOne float64) float64
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(n, sizeMinusOne float64) float64

// Coefficient calls f(n, sizeMinusOne).
func (f GeneratorFunc) Coefficient(n, sizeMinusOne float64) float64 {
	return f(n, sizeMinusOne)
}

// Generate returns size coefficients of gen. The first half is evaluated
// and mirrored; an odd middle coefficient is evaluated once.
func Generate[F core.Float](gen Generator, size int) ([]F, error) {
	if err := validateGenerator(gen); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}

	out := make([]F, size)
	last := float64(size - 1)
	half := size / 2

	for i := range half {
		v := F(gen.Coefficient(float64(i), last))
		out[i] = v
		out[size-1-i] = v
	}

	if size%2 == 1 {
		out[half] = F(gen.Coefficient(float64(half), last))
	}

	return out, nil
}

// Window is an immutable set of window coefficients with precomputed gains.
type Window[F core.Float] struct {
	coeffs    []F
	effective int

	coherentGain F
	enbw         F
	powerGain    F
	combinedGain F
}

// New generates a window of size coefficients. When size is odd and
// ignoreLastValue is set, the last coefficient is excluded from gains and
// application, which yields a periodic window of size-1 samples.
func New[F core.Float](gen Generator, size int, ignoreLastValue bool) (*Window[F], error) {
	coeffs, err := Generate[F](gen, size)
	if err != nil {
		return nil, err
	}

	effective := size
	if ignoreLastValue && size%2 == 1 {
		effective = size - 1
	}

	w := &Window[F]{
		coeffs:    coeffs,
		effective: effective,
	}
	w.computeGains()

	return w, nil
}

func (w *Window[F]) computeGains() {
	c := w.coeffs[:w.effective]
	ops := simdops.For[F]()

	sum := float64(ops.Sum(c))
	sumSq := float64(ops.DotProduct(c, c))
	n := float64(len(c))

	coherent := sum / n

	var enbw float64
	if sum*sum > enbwSumThreshold {
		enbw = n * sumSq / (sum * sum)
	}

	power := coherent * coherent * enbw

	w.coherentGain = F(coherent)
	w.enbw = F(enbw)
	w.powerGain = F(power)
	w.combinedGain = F(coherent * power)
}

// Size returns the number of generated coefficients.
func (w *Window[F]) Size() int { return len(w.coeffs) }

// EffectiveSize returns the number of coefficients applied to signals.
func (w *Window[F]) EffectiveSize() int { return w.effective }

// Coefficients returns a copy of the effective coefficients.
func (w *Window[F]) Coefficients() []F {
	return append([]F(nil), w.coeffs[:w.effective]...)
}

// CoherentGain returns Σc/n, the window's DC amplitude gain.
func (w *Window[F]) CoherentGain() F { return w.coherentGain }

// EffectiveNoiseBandwidth returns n·Σc²/(Σc)² in bins, or 0 when the
// coefficients sum to (nearly) zero.
func (w *Window[F]) EffectiveNoiseBandwidth() F { return w.enbw }

// PowerGain returns CoherentGain²·ENBW.
func (w *Window[F]) PowerGain() F { return w.powerGain }

// CombinedGain returns CoherentGain·PowerGain.
func (w *Window[F]) CombinedGain() F { return w.combinedGain }

// Apply writes dst[i] = src[i]·c[i]. dst and src may be the same slice;
// both must have the effective size.
func (w *Window[F]) Apply(dst, src []F) error {
	if err := w.validateLengths(len(dst), len(src)); err != nil {
		return err
	}

	c := w.coeffs[:w.effective]

	if d, ok := any(dst).([]float64); ok {
		vecmath.MulBlock(d, any(src).([]float64), any(c).([]float64))
		return nil
	}

	for i, v := range src {
		dst[i] = v * c[i]
	}

	return nil
}

// ApplyComplex windows a complex signal with the real coefficients of w.
func ApplyComplex[F core.Float, C core.Complex](w *Window[F], dst, src []C) error {
	if err := w.validateLengths(len(dst), len(src)); err != nil {
		return err
	}

	for i, v := range src {
		dst[i] = v * C(complex(float64(w.coeffs[i]), 0))
	}

	return nil
}

// ApplyGainCorrection writes dst[i] = src[i]/gain.
func ApplyGainCorrection[F core.Float](dst, src []F, gain F) error {
	if err := validateGain(float64(gain), len(dst), len(src)); err != nil {
		return err
	}

	simdops.For[F]().Scale(dst, src, 1/gain)

	return nil
}

// ApplyGainCorrectionComplex writes dst[i] = src[i]/gain for complex data.
func ApplyGainCorrectionComplex[F core.Float, C core.Complex](dst, src []C, gain F) error {
	if err := validateGain(float64(gain), len(dst), len(src)); err != nil {
		return err
	}

	g := C(complex(float64(gain), 0))
	for i, v := range src {
		dst[i] = v / g
	}

	return nil
}

func (w *Window[F]) validateLengths(dst, src int) error {
	if src != w.effective {
		return fmt.Errorf("%w: signal has %d samples, want %d", ErrInvalidSize, src, w.effective)
	}
	if dst != src {
		return fmt.Errorf("%w: dst has %d samples, want %d", ErrInvalidSize, dst, src)
	}
	return nil
}
