// Package frequency summarises magnitude spectra.
//
// The spectra are the single-sided outputs of the spectrum pipelines:
// bin i of an FFT of fftSize samples sits at i*sampleRate/fftSize Hz.
package frequency

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dac1976/dsp/dsp/core"
)

// DefaultRolloff is the energy fraction used for Stats.Rolloff.
const DefaultRolloff = 0.85

// ErrInvalidLayout is returned when the FFT size or sample rate cannot
// describe the given spectrum.
var ErrInvalidLayout = fmt.Errorf("frequency: invalid spectrum layout: %w", core.ErrInvalidArgument)

// Stats holds frequency-domain statistics of a magnitude spectrum.
type Stats struct {
	BinCount int
	BinWidth float64 // Hz
	DC       float64 // bin 0 magnitude
	Sum      float64 // sum of magnitudes
	Mean     float64
	Max      float64
	MaxBin   int
	MaxHz    float64
	MaxdB    float64
	Min      float64
	MinBin   int
	Energy   float64 // sum of squared magnitudes
	Power    float64 // Energy / BinCount

	Centroid  float64 // Hz
	Spread    float64 // Hz, standard deviation around the centroid
	Flatness  float64 // 0..1, DC excluded
	Rolloff   float64 // Hz below which DefaultRolloff of the energy lies
	Bandwidth float64 // Hz, -3 dB width around the peak
}

// layout maps bins to frequencies.
type layout struct {
	binWidth float64
}

func (l layout) hz(bin float64) float64 { return bin * l.binWidth }

func newLayout(bins, fftSize int, sampleRate float64) (layout, error) {
	if fftSize <= 0 || bins > fftSize {
		return layout{}, fmt.Errorf("%w: %d bins for fft size %d", ErrInvalidLayout, bins, fftSize)
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return layout{}, fmt.Errorf("%w: sample rate %v", ErrInvalidLayout, sampleRate)
	}
	return layout{binWidth: sampleRate / float64(fftSize)}, nil
}

// Calculate computes the statistics of a linear magnitude spectrum. An
// empty spectrum yields a zero Stats with MaxdB at -Inf.
func Calculate[F core.Float](magnitude []F, fftSize int, sampleRate float64) (Stats, error) {
	l, err := newLayout(len(magnitude), fftSize, sampleRate)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		BinCount: len(magnitude),
		BinWidth: l.binWidth,
		MaxdB:    math.Inf(-1),
	}
	if len(magnitude) == 0 {
		return s, nil
	}

	mag := toFloat64(magnitude)
	n := float64(len(mag))

	s.DC = mag[0]
	s.Sum = floats.Sum(mag)
	s.Mean = s.Sum / n
	s.MaxBin = floats.MaxIdx(mag)
	s.Max = mag[s.MaxBin]
	s.MaxHz = l.hz(float64(s.MaxBin))
	s.MaxdB = core.LinearToDB(s.Max)
	s.MinBin = floats.MinIdx(mag)
	s.Min = mag[s.MinBin]
	s.Energy = floats.Dot(mag, mag)
	s.Power = s.Energy / n

	s.Centroid = centroid(mag, l, s.Sum)
	s.Spread = spread(mag, l, s.Centroid, s.Sum)
	s.Flatness = flatness(mag)
	s.Rolloff = rolloff(mag, l, DefaultRolloff, s.Energy)
	s.Bandwidth = bandwidth(mag, l, s.MaxBin)

	return s, nil
}

// Centroid returns the magnitude-weighted mean frequency in Hz.
func Centroid[F core.Float](magnitude []F, fftSize int, sampleRate float64) (float64, error) {
	l, err := newLayout(len(magnitude), fftSize, sampleRate)
	if err != nil {
		return 0, err
	}
	mag := toFloat64(magnitude)
	return centroid(mag, l, floats.Sum(mag)), nil
}

// Flatness returns the ratio of the geometric to the arithmetic mean of
// bins 1 and up. It is 0 when any of them is zero.
func Flatness[F core.Float](magnitude []F) float64 {
	return flatness(toFloat64(magnitude))
}

// Rolloff returns the frequency below which fraction (0..1) of the
// spectral energy lies.
func Rolloff[F core.Float](magnitude []F, fftSize int, sampleRate, fraction float64) (float64, error) {
	l, err := newLayout(len(magnitude), fftSize, sampleRate)
	if err != nil {
		return 0, err
	}
	mag := toFloat64(magnitude)
	return rolloff(mag, l, fraction, floats.Dot(mag, mag)), nil
}

// Bandwidth returns the width in Hz between the points either side of
// the peak where the magnitude falls to peak/√2. Crossings are linearly
// interpolated between bins.
func Bandwidth[F core.Float](magnitude []F, fftSize int, sampleRate float64) (float64, error) {
	l, err := newLayout(len(magnitude), fftSize, sampleRate)
	if err != nil {
		return 0, err
	}
	if len(magnitude) == 0 {
		return 0, nil
	}
	mag := toFloat64(magnitude)
	return bandwidth(mag, l, floats.MaxIdx(mag)), nil
}

func centroid(mag []float64, l layout, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	weighted := 0.0
	for i, v := range mag {
		weighted += l.hz(float64(i)) * v
	}
	return weighted / sum
}

func spread(mag []float64, l layout, cent, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	acc := 0.0
	for i, v := range mag {
		d := l.hz(float64(i)) - cent
		acc += d * d * v
	}
	return math.Sqrt(acc / sum)
}

func flatness(mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	bins := mag[1:]
	sumLog := 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLog += math.Log(v)
	}

	n := float64(len(bins))
	return math.Exp(sumLog/n) / (floats.Sum(bins) / n)
}

func rolloff(mag []float64, l layout, fraction, energy float64) float64 {
	if len(mag) == 0 || energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0
	for i, v := range mag {
		cum += v * v
		if cum >= threshold {
			return l.hz(float64(i))
		}
	}
	return l.hz(float64(len(mag) - 1))
}

func bandwidth(mag []float64, l layout, peak int) float64 {
	peakVal := mag[peak]
	if peakVal <= 0 {
		return 0
	}
	threshold := peakVal / math.Sqrt2

	lower := 0.0
	for i := peak; i >= 1; i-- {
		if mag[i-1] <= threshold && mag[i] > threshold {
			lower = crossing(i-1, mag[i-1], mag[i], threshold)
			break
		}
	}

	upper := float64(len(mag) - 1)
	for i := peak; i < len(mag)-1; i++ {
		if mag[i+1] <= threshold && mag[i] > threshold {
			upper = crossing(i, mag[i], mag[i+1], threshold)
			break
		}
	}

	return math.Max(0, l.hz(upper)-l.hz(lower))
}

// crossing returns the fractional bin between bin and bin+1 where the
// magnitude passes threshold.
func crossing(bin int, a, b, threshold float64) float64 {
	if a == b {
		return float64(bin) + 0.5
	}
	return float64(bin) + (threshold-a)/(b-a)
}

func toFloat64[F core.Float](x []F) []float64 {
	if v, ok := any(x).([]float64); ok {
		return v
	}
	out := make([]float64, len(x))
	for i, s := range x {
		out[i] = float64(s)
	}
	return out
}
