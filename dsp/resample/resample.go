package resample

import (
	"fmt"
	"math"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/filter/fir"
	"github.com/dac1976/dsp/dsp/window"
)

var (
	// ErrInvalidRatio indicates a resampling ratio that is not a positive
	// finite number.
	ErrInvalidRatio = fmt.Errorf("resample: invalid ratio: %w", core.ErrInvalidArgument)
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = fmt.Errorf("resample: invalid sample rate: %w", core.ErrInvalidArgument)
	// ErrInvalidFactor indicates a non-positive up or down factor or bound.
	ErrInvalidFactor = fmt.Errorf("resample: invalid factor: %w", core.ErrInvalidArgument)
	// ErrNoFactors is returned by ComputeFactors when no fraction fits the
	// bounds.
	ErrNoFactors = fmt.Errorf("resample: no factors within bounds: %w", core.ErrInvalidArgument)
	// ErrInvalidLength indicates an empty signal or a buffer of the wrong
	// length.
	ErrInvalidLength = fmt.Errorf("resample: invalid length: %w", core.ErrLengthMismatch)
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast uses a short filter.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	Taps              int
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{Taps: 255, KaiserBeta: 6, NominalStopbandDB: 60}
	case QualityBest:
		return Profile{Taps: 2001, KaiserBeta: 12, NominalStopbandDB: 120}
	default:
		return Profile{Taps: 1001, KaiserBeta: 10, NominalStopbandDB: 100}
	}
}

type config struct {
	quality    Quality
	taps       int
	kaiserBeta float64
	fast       bool
	maxNum     int
	maxDen     int
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithFilterTaps overrides the anti-aliasing filter length.
func WithFilterTaps(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.taps = n
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 && !math.IsInf(beta, 0) {
			cfg.kaiserBeta = beta
		}
	}
}

// WithFastConvolution selects FFT (true, the default) or direct filtering.
func WithFastConvolution(enabled bool) Option {
	return func(cfg *config) {
		cfg.fast = enabled
	}
}

// WithMaxFactors bounds the factors NewForRates may choose.
func WithMaxFactors(maxNumerator, maxDenominator int) Option {
	return func(cfg *config) {
		if maxNumerator > 0 {
			cfg.maxNum = maxNumerator
		}
		if maxDenominator > 0 {
			cfg.maxDen = maxDenominator
		}
	}
}

func defaultConfig() config {
	return config{
		quality:    QualityBalanced,
		kaiserBeta: -1,
		fast:       true,
		maxNum:     DefaultMaxNumerator,
		maxDen:     DefaultMaxDenominator,
	}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.taps <= 0 {
		c.taps = p.Taps
	}
	if c.kaiserBeta < 0 {
		c.kaiserBeta = p.KaiserBeta
	}
	return c
}

func buildConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg.finalized()
}

// Resampler converts signals of one fixed length by up/down. Construction
// designs the filter and allocates every buffer; Process does not allocate.
// A Resampler must not be used concurrently.
type Resampler[F core.Float, C core.Complex] struct {
	signalLen    int
	up           int
	down         int
	resampledLen int
	cutoffHz     F

	holder *fir.Holder[F, C]
	work   []F
}

// Resampler32 resamples in single precision.
type Resampler32 = Resampler[float32, complex64]

// Resampler64 resamples in double precision.
type Resampler64 = Resampler[float64, complex128]

// New builds a resampler for signalLen samples at samplingHz. The filter
// cutoff is the Nyquist frequency of the slower of the two rates, lowered
// to maxCutoffHz when upsampling and raised to it when downsampling.
func New[F core.Float, C core.Complex](signalLen, up, down int, samplingHz, maxCutoffHz F, opts ...Option) (*Resampler[F, C], error) {
	if signalLen <= 0 {
		return nil, fmt.Errorf("%w: signal length %d", ErrInvalidLength, signalLen)
	}
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidFactor, up, down)
	}
	fs := float64(samplingHz)
	if !(fs > 0) || math.IsInf(fs, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, samplingHz)
	}

	cfg := buildConfig(opts)

	resampledHz := fs * float64(up) / float64(down)
	cutoff := math.Min(fs, resampledHz) / 2
	if up > down {
		cutoff = math.Min(cutoff, float64(maxCutoffHz))
	} else {
		cutoff = math.Max(cutoff, float64(maxCutoffHz))
	}

	coeffs, err := fir.LowPass(cfg.taps, F(cutoff), F(fs*float64(up)), window.Kaiser{Beta: cfg.kaiserBeta})
	if err != nil {
		return nil, err
	}

	workLen := signalLen * up
	holder, err := fir.NewHolder[F, C](workLen, coeffs, cfg.fast)
	if err != nil {
		return nil, err
	}

	return &Resampler[F, C]{
		signalLen:    signalLen,
		up:           up,
		down:         down,
		resampledLen: int(math.Floor(float64(workLen)/float64(down) + 0.5)),
		cutoffHz:     F(cutoff),
		holder:       holder,
		work:         make([]F, workLen),
	}, nil
}

// New32 is New[float32, complex64].
func New32(signalLen, up, down int, samplingHz, maxCutoffHz float32, opts ...Option) (*Resampler32, error) {
	return New[float32, complex64](signalLen, up, down, samplingHz, maxCutoffHz, opts...)
}

// New64 is New[float64, complex128].
func New64(signalLen, up, down int, samplingHz, maxCutoffHz float64, opts ...Option) (*Resampler64, error) {
	return New[float64, complex128](signalLen, up, down, samplingHz, maxCutoffHz, opts...)
}

// NewForRates builds a resampler from inRate to outRate, approximating the
// rate ratio with ComputeFactors within the WithMaxFactors bounds.
func NewForRates[F core.Float, C core.Complex](signalLen int, inRate, outRate F, opts ...Option) (*Resampler[F, C], error) {
	in, out := float64(inRate), float64(outRate)
	if !(in > 0) || !(out > 0) || math.IsInf(in, 0) || math.IsInf(out, 0) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidRate, inRate, outRate)
	}

	cfg := buildConfig(opts)

	up, down, err := ComputeFactors(out/in, cfg.maxNum, cfg.maxDen)
	if err != nil {
		return nil, err
	}

	return New[F, C](signalLen, up, down, inRate, F(math.Min(in, out)/2), opts...)
}

// Resample is a one-shot helper that builds a Resampler and runs it once.
func Resample[F core.Float](src []F, up, down int, samplingHz, maxCutoffHz F, opts ...Option) ([]F, error) {
	r, err := New[F, complex128](len(src), up, down, samplingHz, maxCutoffHz, opts...)
	if err != nil {
		return nil, err
	}

	dst := make([]F, r.ResampledSize())
	if err := r.Process(dst, src); err != nil {
		return nil, err
	}

	return dst, nil
}

// DataSize returns the input length.
func (r *Resampler[F, C]) DataSize() int { return r.signalLen }

// ResampledSize returns the output length floor(N*U/D + 0.5).
func (r *Resampler[F, C]) ResampledSize() int { return r.resampledLen }

// Factors returns the up and down factors.
func (r *Resampler[F, C]) Factors() (up, down int) { return r.up, r.down }

// CutoffHz returns the anti-aliasing filter cutoff.
func (r *Resampler[F, C]) CutoffHz() F { return r.cutoffHz }

// Taps returns the anti-aliasing filter length.
func (r *Resampler[F, C]) Taps() int { return r.holder.Taps() }

// UsesFFT reports whether filtering runs through the FFT.
func (r *Resampler[F, C]) UsesFFT() bool { return r.holder.UsesFFT() }

// Process resamples src (DataSize samples) into dst (ResampledSize
// samples).
func (r *Resampler[F, C]) Process(dst, src []F) error {
	if len(src) != r.signalLen {
		return fmt.Errorf("%w: src has %d samples, want %d", ErrInvalidLength, len(src), r.signalLen)
	}
	if len(dst) != r.resampledLen {
		return fmt.Errorf("%w: dst has %d samples, want %d", ErrInvalidLength, len(dst), r.resampledLen)
	}

	if r.up > 1 {
		core.Zero(r.work)
		gain := F(r.up)
		for i, x := range src {
			r.work[i*r.up] = x * gain
		}
		if err := r.holder.ApplyTo(r.work, r.work, true); err != nil {
			return err
		}
	} else if err := r.holder.ApplyTo(r.work, src, true); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = r.work[i*r.down]
	}

	return nil
}
