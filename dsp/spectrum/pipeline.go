package spectrum

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/fft"
	"github.com/dac1976/dsp/dsp/window"
)

var (
	// ErrInvalidSize is returned for FFT sizes that are not a power of two.
	ErrInvalidSize = fmt.Errorf("spectrum: invalid fft size: %w", core.ErrInvalidSize)

	// ErrLengthMismatch is returned when a signal block is not FFTSize long.
	ErrLengthMismatch = fmt.Errorf("spectrum: signal length mismatch: %w", core.ErrLengthMismatch)
)

// pipeline holds what both composites share: a periodic window of fftSize
// samples and the complex workspace of the last transform.
type pipeline[F core.Float, C core.Complex] struct {
	win      *window.Window[F]
	work     []C
	windowed []F
	span     int

	// vecmath fast path, set when C is complex128: work64 aliases work,
	// re/im/out are split scratch.
	work64      []complex128
	re, im, out []float64
}

func newPipeline[F core.Float, C core.Complex](gen window.Generator, fftSize int) (pipeline[F, C], error) {
	if fftSize < 2 || !core.IsPowerOf2(fftSize) {
		return pipeline[F, C]{}, fmt.Errorf("%w: got %d", ErrInvalidSize, fftSize)
	}

	win, err := window.New[F](gen, fftSize+1, true)
	if err != nil {
		return pipeline[F, C]{}, err
	}

	p := pipeline[F, C]{
		win:      win,
		work:     make([]C, fftSize),
		windowed: make([]F, fftSize),
	}
	if w, ok := any(p.work).([]complex128); ok {
		p.work64 = w
		p.re = make([]float64, fftSize)
		p.im = make([]float64, fftSize)
		p.out = make([]float64, fftSize)
	}
	return p, nil
}

// FFTSize returns the transform length.
func (p *pipeline[F, C]) FFTSize() int { return len(p.work) }

// Window returns the analysis window.
func (p *pipeline[F, C]) Window() *window.Window[F] { return p.win }

// PhasesTo writes the phase of the bins produced by the last Process call
// into dst and returns it.
func (p *pipeline[F, C]) PhasesTo(dst []F) []F {
	return fft.Phases(dst, p.work, p.span)
}

func (p *pipeline[F, C]) transformReal(signal []F) error {
	if len(signal) != len(p.work) {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(signal), len(p.work))
	}
	if err := p.win.Apply(p.windowed, signal); err != nil {
		return err
	}
	_, err := fft.ForwardReal(p.work, p.windowed)
	return err
}

func (p *pipeline[F, C]) transformComplex(signal []C) error {
	if len(signal) != len(p.work) {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(signal), len(p.work))
	}
	if err := window.ApplyComplex(p.win, p.work, signal); err != nil {
		return err
	}
	return fft.Forward(p.work)
}

// magnitude converts the workspace to single-sided magnitudes in dst.
func (p *pipeline[F, C]) magnitude(dst []F, opts []fft.Option) []F {
	if p.work64 == nil {
		dst = fft.MagnitudeTo(dst, p.work, opts...)
		p.span = len(dst)
		return dst
	}

	n := fft.Span(len(p.work64), opts...)
	dst = core.EnsureLen(dst, n)
	magnitudeSplit(p.out[:n], p.re[:n], p.im[:n], p.work64[:n])
	for i, m := range p.out[:n] {
		if i > 0 {
			m *= 2
		}
		dst[i] = F(m)
	}
	p.span = n
	return dst
}

// power converts the workspace to |X|² in dst.
func (p *pipeline[F, C]) power(dst []F, opts []fft.Option) []F {
	if p.work64 == nil {
		dst = fft.PowerTo(dst, p.work, opts...)
		p.span = len(dst)
		return dst
	}

	n := fft.Span(len(p.work64), opts...)
	dst = core.EnsureLen(dst, n)
	powerSplit(p.out[:n], p.re[:n], p.im[:n], p.work64[:n])
	for i, v := range p.out[:n] {
		dst[i] = F(v)
	}
	p.span = n
	return dst
}

// MagnitudeFFT computes amplitude-corrected magnitude spectra of blocks of
// FFTSize samples. A MagnitudeFFT must not be used concurrently.
type MagnitudeFFT[F core.Float, C core.Complex] struct {
	pipeline[F, C]
}

// MagnitudeFFT32 works in single precision.
type MagnitudeFFT32 = MagnitudeFFT[float32, complex64]

// MagnitudeFFT64 works in double precision.
type MagnitudeFFT64 = MagnitudeFFT[float64, complex128]

// NewMagnitudeFFT builds a pipeline for fftSize-sample blocks windowed by
// gen. fftSize must be a power of two.
func NewMagnitudeFFT[F core.Float, C core.Complex](gen window.Generator, fftSize int) (*MagnitudeFFT[F, C], error) {
	p, err := newPipeline[F, C](gen, fftSize)
	if err != nil {
		return nil, err
	}
	return &MagnitudeFFT[F, C]{pipeline: p}, nil
}

// NewMagnitudeFFT32 is NewMagnitudeFFT[float32, complex64].
func NewMagnitudeFFT32(gen window.Generator, fftSize int) (*MagnitudeFFT32, error) {
	return NewMagnitudeFFT[float32, complex64](gen, fftSize)
}

// NewMagnitudeFFT64 is NewMagnitudeFFT[float64, complex128].
func NewMagnitudeFFT64(gen window.Generator, fftSize int) (*MagnitudeFFT64, error) {
	return NewMagnitudeFFT[float64, complex128](gen, fftSize)
}

// ProcessTo writes the magnitude spectrum of signal into dst, resized to
// FFTSize/2 bins (FFTSize with fft.WithFullSpectrum), and returns it.
func (m *MagnitudeFFT[F, C]) ProcessTo(dst, signal []F, opts ...fft.Option) ([]F, error) {
	if err := m.transformReal(signal); err != nil {
		return dst, err
	}
	return m.finish(dst, opts)
}

// ProcessComplexTo is ProcessTo for complex input.
func (m *MagnitudeFFT[F, C]) ProcessComplexTo(dst []F, signal []C, opts ...fft.Option) ([]F, error) {
	if err := m.transformComplex(signal); err != nil {
		return dst, err
	}
	return m.finish(dst, opts)
}

func (m *MagnitudeFFT[F, C]) finish(dst []F, opts []fft.Option) ([]F, error) {
	dst = m.magnitude(dst, opts)
	gain := m.win.CoherentGain() * F(len(m.work))
	if err := window.ApplyGainCorrection(dst, dst, gain); err != nil {
		return dst, err
	}
	return dst, nil
}

// ThreeBinSumFFT computes 3-bin summed amplitude spectra of blocks of
// FFTSize samples. A ThreeBinSumFFT must not be used concurrently.
type ThreeBinSumFFT[F core.Float, C core.Complex] struct {
	pipeline[F, C]
}

// ThreeBinSumFFT32 works in single precision.
type ThreeBinSumFFT32 = ThreeBinSumFFT[float32, complex64]

// ThreeBinSumFFT64 works in double precision.
type ThreeBinSumFFT64 = ThreeBinSumFFT[float64, complex128]

// NewThreeBinSumFFT builds a pipeline for fftSize-sample blocks windowed
// by gen. fftSize must be a power of two.
func NewThreeBinSumFFT[F core.Float, C core.Complex](gen window.Generator, fftSize int) (*ThreeBinSumFFT[F, C], error) {
	p, err := newPipeline[F, C](gen, fftSize)
	if err != nil {
		return nil, err
	}
	return &ThreeBinSumFFT[F, C]{pipeline: p}, nil
}

// NewThreeBinSumFFT32 is NewThreeBinSumFFT[float32, complex64].
func NewThreeBinSumFFT32(gen window.Generator, fftSize int) (*ThreeBinSumFFT32, error) {
	return NewThreeBinSumFFT[float32, complex64](gen, fftSize)
}

// NewThreeBinSumFFT64 is NewThreeBinSumFFT[float64, complex128].
func NewThreeBinSumFFT64(gen window.Generator, fftSize int) (*ThreeBinSumFFT64, error) {
	return NewThreeBinSumFFT[float64, complex128](gen, fftSize)
}

// ProcessTo writes the 3-bin summed spectrum of signal into dst and
// returns it.
func (s *ThreeBinSumFFT[F, C]) ProcessTo(dst, signal []F, opts ...fft.Option) ([]F, error) {
	if err := s.transformReal(signal); err != nil {
		return dst, err
	}
	return s.finish(dst, opts)
}

// ProcessComplexTo is ProcessTo for complex input.
func (s *ThreeBinSumFFT[F, C]) ProcessComplexTo(dst []F, signal []C, opts ...fft.Option) ([]F, error) {
	if err := s.transformComplex(signal); err != nil {
		return dst, err
	}
	return s.finish(dst, opts)
}

func (s *ThreeBinSumFFT[F, C]) finish(dst []F, opts []fft.Option) ([]F, error) {
	dst = s.power(dst, opts)
	n := F(len(s.work))
	if err := window.ApplyGainCorrection(dst, dst, s.win.CombinedGain()*n*n); err != nil {
		return dst, err
	}
	fft.ThreeBinSumReal(dst)
	return dst, nil
}
