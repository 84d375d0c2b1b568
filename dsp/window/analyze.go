package window

import (
	"fmt"
	"math"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/fft"
)

// analysisOversample is the number of spectrum samples per window bin.
const analysisOversample = 16

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the 3 dB (half-power) main lobe width in bins.
	Bandwidth3dB float64
	// HighestSidelobedB is the highest sidelobe level relative to DC in dB.
	HighestSidelobedB float64
	// FirstMinimumBins is the first null (minimum) position in bins.
	FirstMinimumBins float64
	// ScallopLossdB is the amplitude error for a signal half a bin off centre.
	ScallopLossdB float64
}

// Analyze computes spectral properties of coeffs from a zero-padded,
// oversampled power spectrum.
func Analyze(coeffs []float64) (Analysis, error) {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}, fmt.Errorf("%w: empty coefficients", ErrInvalidSize)
	}

	sum, sumSq := 0.0, 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return Analysis{}, errZeroCoherentGain
	}

	size := core.NextPowerOf2(n * analysisOversample)
	padded := make([]float64, size)
	copy(padded, coeffs)

	spec, err := fft.ForwardReal[float64, complex128](nil, padded)
	if err != nil {
		return Analysis{}, err
	}

	// Relative power, DC normalised to 1, over [0, Nyquist].
	ratio := fft.PowerTo[float64](nil, spec)
	dc := ratio[0]
	for i := range ratio {
		ratio[i] /= dc
	}

	binsPerSample := float64(n) / float64(size)

	halfBin := float64(size) / (2 * float64(n))
	scallop := interpolate(ratio, halfBin)

	firstMin := firstMinimum(ratio)

	return Analysis{
		CoherentGain:      sum / float64(n),
		ENBW:              float64(n) * sumSq / (sum * sum),
		Bandwidth3dB:      2 * halfPowerPoint(ratio) * binsPerSample,
		HighestSidelobedB: highestSidelobe(ratio, firstMin),
		FirstMinimumBins:  float64(firstMin) * binsPerSample,
		ScallopLossdB:     10 * math.Log10(scallop),
	}, nil
}

// interpolate linearly evaluates p at fractional index x.
func interpolate(p []float64, x float64) float64 {
	i := int(x)
	if i >= len(p)-1 {
		return p[len(p)-1]
	}
	frac := x - float64(i)
	return p[i] + frac*(p[i+1]-p[i])
}

// halfPowerPoint returns the fractional index where p first drops to 0.5.
func halfPowerPoint(p []float64) float64 {
	for i := 1; i < len(p); i++ {
		if p[i] <= 0.5 {
			return float64(i-1) + (p[i-1]-0.5)/(p[i-1]-p[i])
		}
	}
	return float64(len(p))
}

// firstMinimum returns the index of the first local minimum after the
// response has fallen below a tenth of DC. The threshold skips the
// plateau of flat-top main lobes.
func firstMinimum(p []float64) int {
	const threshold = 0.1

	for i := 1; i < len(p)-1; i++ {
		if p[i] < threshold && p[i] <= p[i-1] && p[i] < p[i+1] {
			return i
		}
	}
	return len(p) - 1
}

func highestSidelobe(p []float64, from int) float64 {
	peak := 0.0
	for _, v := range p[from:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(peak)
}
