package fir

import (
	"fmt"
	"math"

	"github.com/dac1976/dsp/dsp/core"
)

var (
	// ErrInvalidTaps is returned for tap counts of two or fewer and for
	// even tap counts where the design needs a centre tap.
	ErrInvalidTaps = fmt.Errorf("fir: invalid tap count: %w", core.ErrInvalidSize)

	// ErrInvalidFrequency is returned for sample rates <= 0 and for cutoff
	// or centre frequencies outside (0, fs/2].
	ErrInvalidFrequency = fmt.Errorf("fir: invalid frequency: %w", core.ErrInvalidArgument)

	// ErrInvalidBandwidth is returned for bandwidths outside (0, fs/2].
	ErrInvalidBandwidth = fmt.Errorf("fir: invalid bandwidth: %w", core.ErrInvalidArgument)

	// ErrInvalidSignalLength is returned by NewHolder for signals of two
	// samples or fewer.
	ErrInvalidSignalLength = fmt.Errorf("fir: invalid signal length: %w", core.ErrInvalidSize)

	// ErrEmptyCoefficients is returned by NewHolder for an empty kernel.
	ErrEmptyCoefficients = fmt.Errorf("fir: no coefficients: %w", core.ErrEmptyInput)
)

func validateTaps(taps int, needOdd bool) error {
	if taps <= 2 {
		return fmt.Errorf("%w: must be > 2, got %d", ErrInvalidTaps, taps)
	}
	if needOdd && taps%2 == 0 {
		return fmt.Errorf("%w: must be odd, got %d", ErrInvalidTaps, taps)
	}
	return nil
}

func validateRate(samplingHz float64) error {
	if !(samplingHz > 0) || math.IsInf(samplingHz, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFrequency, samplingHz)
	}
	return nil
}

func validateEdge(freqHz, samplingHz float64) error {
	if !(freqHz > 0) || freqHz > samplingHz/2 {
		return fmt.Errorf("%w: %v Hz not in (0, %v]", ErrInvalidFrequency, freqHz, samplingHz/2)
	}
	return nil
}

func validateBandwidth(bandwidthHz, samplingHz float64) error {
	if !(bandwidthHz > 0) || bandwidthHz > samplingHz/2 {
		return fmt.Errorf("%w: %v Hz not in (0, %v]", ErrInvalidBandwidth, bandwidthHz, samplingHz/2)
	}
	return nil
}
