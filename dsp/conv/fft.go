package conv

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/fft"
	"github.com/dac1976/dsp/internal/simdops"
)

// FFTConvolver computes full linear convolutions of a fixed signal length
// and kernel length through the frequency domain. Both operands are
// zero-padded to the next power of two >= M+N-1. Workspaces are allocated
// once; a convolver must not be used concurrently.
type FFTConvolver[F core.Float, C core.Complex] struct {
	signalLen int
	kernelLen int
	outputLen int

	work       []C
	kernelSpec []C
	prepared   bool
}

// FFTConvolver32 computes in single precision.
type FFTConvolver32 = FFTConvolver[float32, complex64]

// FFTConvolver64 computes in double precision.
type FFTConvolver64 = FFTConvolver[float64, complex128]

// NewFFTConvolver sizes a convolver for signals of up to signalLen samples
// and kernels of up to kernelLen taps.
func NewFFTConvolver[F core.Float, C core.Complex](signalLen, kernelLen int) (*FFTConvolver[F, C], error) {
	if signalLen <= 0 || kernelLen <= 0 {
		return nil, fmt.Errorf("%w: signal %d, kernel %d", ErrInvalidSize, signalLen, kernelLen)
	}

	outputLen := signalLen + kernelLen - 1
	size := core.NextPowerOf2(outputLen)

	return &FFTConvolver[F, C]{
		signalLen:  signalLen,
		kernelLen:  kernelLen,
		outputLen:  outputLen,
		work:       make([]C, size),
		kernelSpec: make([]C, size),
	}, nil
}

// NewFFTConvolver32 is NewFFTConvolver[float32, complex64].
func NewFFTConvolver32(signalLen, kernelLen int) (*FFTConvolver32, error) {
	return NewFFTConvolver[float32, complex64](signalLen, kernelLen)
}

// NewFFTConvolver64 is NewFFTConvolver[float64, complex128].
func NewFFTConvolver64(signalLen, kernelLen int) (*FFTConvolver64, error) {
	return NewFFTConvolver[float64, complex128](signalLen, kernelLen)
}

// SignalLen returns the maximum signal length.
func (c *FFTConvolver[F, C]) SignalLen() int { return c.signalLen }

// KernelLen returns the maximum kernel length.
func (c *FFTConvolver[F, C]) KernelLen() int { return c.kernelLen }

// OutputLen returns signalLen + kernelLen - 1.
func (c *FFTConvolver[F, C]) OutputLen() int { return c.outputLen }

// FFTSize returns the transform length.
func (c *FFTConvolver[F, C]) FFTSize() int { return len(c.work) }

// ConvolveTo writes the first OutputLen samples of signal*kernel to dst.
func (c *FFTConvolver[F, C]) ConvolveTo(dst, signal, kernel []F) error {
	if err := c.PrepareKernel(kernel); err != nil {
		return err
	}

	return c.ConvolvePreparedTo(dst, signal)
}

// Convolve is ConvolveTo into a new slice.
func (c *FFTConvolver[F, C]) Convolve(signal, kernel []F) ([]F, error) {
	dst := make([]F, c.outputLen)
	if err := c.ConvolveTo(dst, signal, kernel); err != nil {
		return nil, err
	}

	return dst, nil
}

// PrepareKernel transforms kernel once for use by ConvolvePreparedTo.
func (c *FFTConvolver[F, C]) PrepareKernel(kernel []F) error {
	if len(kernel) == 0 {
		return ErrEmptyKernel
	}
	if len(kernel) > c.kernelLen {
		return fmt.Errorf("%w: kernel has %d taps, max %d", ErrInvalidSize, len(kernel), c.kernelLen)
	}

	load(c.kernelSpec, kernel)
	if err := fft.Forward(c.kernelSpec); err != nil {
		return err
	}
	c.prepared = true

	return nil
}

// ConvolvePreparedTo convolves signal with the kernel given to the last
// PrepareKernel or ConvolveTo call.
func (c *FFTConvolver[F, C]) ConvolvePreparedTo(dst, signal []F) error {
	if !c.prepared {
		return fmt.Errorf("conv: no kernel prepared: %w", core.ErrInvalidArgument)
	}
	if len(signal) == 0 {
		return ErrEmptyInput
	}
	if len(signal) > c.signalLen {
		return fmt.Errorf("%w: signal has %d samples, max %d", ErrInvalidSize, len(signal), c.signalLen)
	}
	if len(dst) != c.outputLen {
		return fmt.Errorf("%w: dst has %d samples, want %d", ErrLengthMismatch, len(dst), c.outputLen)
	}

	load(c.work, signal)
	if err := fft.Forward(c.work); err != nil {
		return err
	}

	simdops.MulComplex(c.work, c.work, c.kernelSpec)

	if err := fft.Inverse(c.work); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = F(real(complex128(c.work[i])))
	}

	return nil
}

// load copies x into the real parts of buf and zeroes the rest.
func load[F core.Float, C core.Complex](buf []C, x []F) {
	for i, v := range x {
		buf[i] = C(complex(float64(v), 0))
	}
	core.Zero(buf[len(x):])
}
