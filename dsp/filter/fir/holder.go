package fir

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/conv"
	"github.com/dac1976/dsp/dsp/core"
)

// Holder applies one coefficient set to signals of a fixed length. The
// full convolution is written to an internal workspace of
// signalLen+taps-1 samples, so dst may alias src. A Holder must not be
// used concurrently.
type Holder[F core.Float, C core.Complex] struct {
	signalLen int
	coeffs    []F
	filtered  []F
	fast      *conv.FFTConvolver[F, C]
}

// Holder32 filters in single precision.
type Holder32 = Holder[float32, complex64]

// Holder64 filters in double precision.
type Holder64 = Holder[float64, complex128]

// NewHolder copies coeffs and sizes the workspace for signalLen samples.
// With useFastConvolution the kernel spectrum is computed once and every
// ApplyTo runs through the FFT; otherwise the convolution is direct.
func NewHolder[F core.Float, C core.Complex](signalLen int, coeffs []F, useFastConvolution bool) (*Holder[F, C], error) {
	if signalLen <= 2 {
		return nil, fmt.Errorf("%w: must be > 2, got %d", ErrInvalidSignalLength, signalLen)
	}
	if len(coeffs) == 0 {
		return nil, ErrEmptyCoefficients
	}

	h := &Holder[F, C]{
		signalLen: signalLen,
		coeffs:    append([]F(nil), coeffs...),
		filtered:  make([]F, signalLen+len(coeffs)-1),
	}

	if useFastConvolution {
		c, err := conv.NewFFTConvolver[F, C](signalLen, len(coeffs))
		if err != nil {
			return nil, err
		}
		if err := c.PrepareKernel(h.coeffs); err != nil {
			return nil, err
		}
		h.fast = c
	}

	return h, nil
}

// NewHolder32 is NewHolder[float32, complex64].
func NewHolder32(signalLen int, coeffs []float32, useFastConvolution bool) (*Holder32, error) {
	return NewHolder[float32, complex64](signalLen, coeffs, useFastConvolution)
}

// NewHolder64 is NewHolder[float64, complex128].
func NewHolder64(signalLen int, coeffs []float64, useFastConvolution bool) (*Holder64, error) {
	return NewHolder[float64, complex128](signalLen, coeffs, useFastConvolution)
}

// SignalLen returns the input length.
func (h *Holder[F, C]) SignalLen() int { return h.signalLen }

// Taps returns the number of coefficients.
func (h *Holder[F, C]) Taps() int { return len(h.coeffs) }

// Coefficients returns a copy of the coefficients.
func (h *Holder[F, C]) Coefficients() []F {
	return append([]F(nil), h.coeffs...)
}

// UsesFFT reports whether ApplyTo convolves in the frequency domain.
func (h *Holder[F, C]) UsesFFT() bool { return h.fast != nil }

// OutputLen returns the length ApplyTo expects for dst.
func (h *Holder[F, C]) OutputLen(removeDelay bool) int {
	if removeDelay {
		return h.signalLen
	}
	return len(h.filtered)
}

// ApplyTo filters src into dst. With removeDelay the (taps-1)/2 sample group
// delay is dropped and dst holds signalLen samples; otherwise dst receives
// the full signalLen+taps-1 sample convolution.
func (h *Holder[F, C]) ApplyTo(dst, src []F, removeDelay bool) error {
	if len(src) != h.signalLen {
		return fmt.Errorf("fir: src has %d samples, want %d: %w", len(src), h.signalLen, core.ErrLengthMismatch)
	}
	if want := h.OutputLen(removeDelay); len(dst) != want {
		return fmt.Errorf("fir: dst has %d samples, want %d: %w", len(dst), want, core.ErrLengthMismatch)
	}

	var err error
	if h.fast != nil {
		err = h.fast.ConvolvePreparedTo(h.filtered, src)
	} else {
		err = core.ConvolveTo(h.filtered, src, h.coeffs)
	}
	if err != nil {
		return err
	}

	mode := conv.ModeFull
	if removeDelay {
		mode = conv.ModeSame
	}
	copy(dst, conv.Trim(h.filtered, h.signalLen, len(h.coeffs), mode))

	return nil
}

// Apply is ApplyTo into a new slice.
func (h *Holder[F, C]) Apply(src []F, removeDelay bool) ([]F, error) {
	dst := make([]F, h.OutputLen(removeDelay))
	if err := h.ApplyTo(dst, src, removeDelay); err != nil {
		return nil, err
	}
	return dst, nil
}
