// Package signal builds deterministic test signals: sinusoidal tones,
// multi-tone mixtures and seeded white noise.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dac1976/dsp/dsp/core"
)

// ErrInvalidSampleRate is returned for non-positive sample rates.
var ErrInvalidSampleRate = fmt.Errorf("signal: sample rate must be > 0: %w", core.ErrInvalidArgument)

// ToneParams defines one sinusoid A·sin(2πft + φ) + offset.
type ToneParams struct {
	// Amplitude is the peak amplitude.
	Amplitude float64 `yaml:"amplitude" json:"amplitude" mapstructure:"amplitude"`
	// Frequency is in Hz and should not exceed half the sample rate.
	Frequency float64 `yaml:"frequency" json:"frequency" mapstructure:"frequency"`
	// Phase is the phase offset in radians.
	Phase float64 `yaml:"phase" json:"phase" mapstructure:"phase"`
	// Offset is the DC offset.
	Offset float64 `yaml:"offset" json:"offset" mapstructure:"offset"`
}

// At evaluates the tone at time t seconds.
func (p ToneParams) At(t float64) float64 {
	return core.Sine(p.Amplitude, t, p.Frequency, p.Phase, p.Offset)
}

// Tone returns count samples of a single tone sampled at sampleRateHz.
func Tone[F core.Float](p ToneParams, sampleRateHz float64, count int) ([]F, error) {
	return MultiTone[F]([]ToneParams{p}, sampleRateHz, count)
}

// MultiTone returns count samples of the sum of tones.
func MultiTone[F core.Float](tones []ToneParams, sampleRateHz float64, count int) ([]F, error) {
	out := make([]F, max(count, 0))
	if err := MultiToneTo(out, tones, sampleRateHz); err != nil {
		return nil, err
	}
	return out, nil
}

// MultiToneTo overwrites dst with the sum of tones.
func MultiToneTo[F core.Float](dst []F, tones []ToneParams, sampleRateHz float64) error {
	if !(sampleRateHz > 0) || math.IsInf(sampleRateHz, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidSampleRate, sampleRateHz)
	}

	dt := 1 / sampleRateHz
	for i := range dst {
		t := float64(i) * dt

		sum := 0.0
		for _, p := range tones {
			sum += p.At(t)
		}
		dst[i] = F(sum)
	}

	return nil
}

// WhiteNoise returns count uniformly distributed samples in
// [-amplitude, amplitude]. Equal seeds produce equal sequences.
func WhiteNoise[F core.Float](amplitude F, count int, seed int64) ([]F, error) {
	if count < 0 {
		return nil, fmt.Errorf("signal: noise sample count must be >= 0, got %d: %w", count, core.ErrInvalidSize)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0, got %v: %w", amplitude, core.ErrInvalidArgument)
	}

	out := make([]F, count)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = F(rng.Float64()*2-1) * amplitude
	}

	return out, nil
}

// Normalize scales data to targetPeak and returns a new slice.
func Normalize[F core.Float](data []F, targetPeak F) ([]F, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: target peak must be >= 0, got %v: %w", targetPeak, core.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input: %w", core.ErrEmptyInput)
	}

	var peak F
	for _, v := range data {
		peak = max(peak, F(math.Abs(float64(v))))
	}

	out := make([]F, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
