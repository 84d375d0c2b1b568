package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/dac1976/dsp/dsp/core"
)

var (
	// ErrInvalidSize is returned for window sizes below two and for signals
	// whose length differs from the effective window size.
	ErrInvalidSize = fmt.Errorf("window: invalid size: %w", core.ErrInvalidSize)

	// ErrInvalidGain is returned when a gain correction divisor is zero or
	// not finite.
	ErrInvalidGain = fmt.Errorf("window: invalid gain: %w", core.ErrInvalidArgument)

	// ErrUnknownType is returned by ParseType for unrecognised names.
	ErrUnknownType = fmt.Errorf("window: unknown type: %w", core.ErrInvalidArgument)

	errNilGenerator     = fmt.Errorf("window: generator must not be nil: %w", core.ErrInvalidArgument)
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
)

func validateSize(size int) error {
	if size < 2 {
		return fmt.Errorf("%w: size must be > 1, got %d", ErrInvalidSize, size)
	}
	return nil
}

func validateGenerator(gen Generator) error {
	if gen == nil {
		return errNilGenerator
	}
	if v, ok := gen.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func validateGain(gain float64, dst, src int) error {
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidGain, gain)
	}
	if dst != src {
		return fmt.Errorf("window: dst has %d samples, src %d: %w", dst, src, core.ErrLengthMismatch)
	}
	return nil
}

func validateBeta(beta float64) error {
	if !(beta >= 0) || math.IsInf(beta, 0) {
		return fmt.Errorf("window: kaiser beta must be finite and >= 0, got %v: %w", beta, core.ErrInvalidArgument)
	}
	return nil
}
