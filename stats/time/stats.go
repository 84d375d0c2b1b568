// Package time summarises time-domain signals.
//
// Summarize reduces a block of samples to its moments and extremes. The
// result is used to compare filtered and resampled signals against
// reference tones.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dac1976/dsp/dsp/core"
)

// Summary holds time-domain signal statistics.
type Summary struct {
	Length        int
	Mean          float64
	StdDev        float64 // unbiased sample standard deviation
	Min           float64
	MinPos        int
	Max           float64
	MaxPos        int
	RMS           float64
	RMSdB         float64
	Peak          float64 // max(|max|, |min|)
	PeakdB        float64
	CrestFactor   float64 // peak / RMS, 0 for silent signals
	ZeroCrossings int
}

// Summarize computes the statistics of signal. An empty signal yields a
// zero Summary with -Inf dB fields.
func Summarize[F core.Float](signal []F) Summary {
	if len(signal) == 0 {
		return Summary{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	x := toFloat64(signal)

	mean, std := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		std = 0
	}
	minPos := floats.MinIdx(x)
	maxPos := floats.MaxIdx(x)
	rms := floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
	peak := math.Max(math.Abs(x[minPos]), math.Abs(x[maxPos]))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Summary{
		Length:        len(x),
		Mean:          mean,
		StdDev:        std,
		Min:           x[minPos],
		MinPos:        minPos,
		Max:           x[maxPos],
		MaxPos:        maxPos,
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Peak:          peak,
		PeakdB:        core.LinearToDB(peak),
		CrestFactor:   crest,
		ZeroCrossings: ZeroCrossings(signal),
	}
}

// RMS returns the root-mean-square of signal, or 0 when it is empty.
func RMS[F core.Float](signal []F) float64 {
	if len(signal) == 0 {
		return 0
	}
	return floats.Norm(toFloat64(signal), 2) / math.Sqrt(float64(len(signal)))
}

// ZeroCrossings counts sign changes between consecutive samples.
func ZeroCrossings[F core.Float](signal []F) int {
	var count int
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}
	return count
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
