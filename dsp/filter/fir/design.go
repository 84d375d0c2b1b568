package fir

import (
	"math"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/window"
)

// bandArgThreshold is the distance from the centre tap below which the
// band-pass kernel evaluates to zero.
const bandArgThreshold = 1e-3

// LowPass designs a windowed-sinc low-pass filter with the given cutoff.
func LowPass[F core.Float](taps int, cutoffHz, samplingHz F, gen window.Generator) ([]F, error) {
	if err := validateTaps(taps, false); err != nil {
		return nil, err
	}
	fs, fc := float64(samplingHz), float64(cutoffHz)
	if err := validateRate(fs); err != nil {
		return nil, err
	}
	if err := validateEdge(fc, fs); err != nil {
		return nil, err
	}

	nc := fc / (fs / 2)

	return design[F](taps, gen, func(arg float64) float64 {
		return nc * core.Sinc(nc*arg*math.Pi)
	})
}

// HighPass designs a windowed-sinc high-pass filter as a unit impulse minus
// the matching low-pass. taps must be odd.
func HighPass[F core.Float](taps int, cutoffHz, samplingHz F, gen window.Generator) ([]F, error) {
	if err := validateTaps(taps, true); err != nil {
		return nil, err
	}
	fs, fc := float64(samplingHz), float64(cutoffHz)
	if err := validateRate(fs); err != nil {
		return nil, err
	}
	if err := validateEdge(fc, fs); err != nil {
		return nil, err
	}

	nc := fc / (fs / 2)

	return design[F](taps, gen, func(arg float64) float64 {
		return core.Sinc(arg*math.Pi) - nc*core.Sinc(nc*arg*math.Pi)
	})
}

// BandPass designs a band-pass filter passing bandwidthHz around centreHz.
func BandPass[F core.Float](taps int, centreHz, bandwidthHz, samplingHz F, gen window.Generator) ([]F, error) {
	if err := validateTaps(taps, false); err != nil {
		return nil, err
	}
	lo, hi, err := bandEdges(float64(centreHz), float64(bandwidthHz), float64(samplingHz))
	if err != nil {
		return nil, err
	}

	return design[F](taps, gen, func(arg float64) float64 {
		if math.Abs(arg) < bandArgThreshold {
			return 0
		}
		return (math.Cos(lo*arg*math.Pi) - math.Cos(hi*arg*math.Pi)) / math.Pi / arg
	})
}

// BandStop designs a notch filter rejecting bandwidthHz around centreHz.
// taps must be odd.
func BandStop[F core.Float](taps int, centreHz, bandwidthHz, samplingHz F, gen window.Generator) ([]F, error) {
	if err := validateTaps(taps, true); err != nil {
		return nil, err
	}
	lo, hi, err := bandEdges(float64(centreHz), float64(bandwidthHz), float64(samplingHz))
	if err != nil {
		return nil, err
	}

	return design[F](taps, gen, func(arg float64) float64 {
		return core.Sinc(arg*math.Pi) - hi*core.Sinc(hi*arg*math.Pi) - lo*core.Sinc(lo*arg*math.Pi)
	})
}

// bandEdges returns the normalised lower and upper band edges.
func bandEdges(centreHz, bandwidthHz, samplingHz float64) (lo, hi float64, err error) {
	if err := validateRate(samplingHz); err != nil {
		return 0, 0, err
	}
	if err := validateEdge(centreHz, samplingHz); err != nil {
		return 0, 0, err
	}
	if err := validateBandwidth(bandwidthHz, samplingHz); err != nil {
		return 0, 0, err
	}

	nyquist := samplingHz / 2
	centre := centreHz / nyquist
	half := bandwidthHz / nyquist / 2

	return centre - half, centre + half, nil
}

// design evaluates kernel at arg = i - (taps-1)/2 and applies the window.
func design[F core.Float](taps int, gen window.Generator, kernel func(arg float64) float64) ([]F, error) {
	w, err := window.New[F](gen, taps, false)
	if err != nil {
		return nil, err
	}

	coeffs := make([]F, taps)
	mid := float64(taps-1) / 2
	for i := range coeffs {
		coeffs[i] = F(kernel(float64(i) - mid))
	}

	if err := w.Apply(coeffs, coeffs); err != nil {
		return nil, err
	}

	return coeffs, nil
}
