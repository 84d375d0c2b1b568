package conv

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/internal/simdops"
)

// directThreshold is the longest kernel Convolve handles directly.
const directThreshold = 64

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = fmt.Errorf("conv: empty input: %w", core.ErrEmptyInput)
	ErrEmptyKernel    = fmt.Errorf("conv: empty kernel: %w", core.ErrEmptyInput)
	ErrLengthMismatch = fmt.Errorf("conv: buffer length mismatch: %w", core.ErrLengthMismatch)
	ErrInvalidSize    = fmt.Errorf("conv: invalid size: %w", core.ErrInvalidSize)
)

// Mode specifies the output mode for convolution and correlation.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns len(a) samples starting at (len(b)-1)/2, which removes
	// the group delay of a linear-phase kernel b.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSame:
		return "same"
	case ModeValid:
		return "valid"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Direct performs time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct[F core.Float](a, b []F) ([]F, error) {
	if err := validateOperands(len(a), len(b)); err != nil {
		return nil, err
	}

	dst := make([]F, len(a)+len(b)-1)
	direct(dst, a, b)

	return dst, nil
}

// DirectTo performs direct convolution into dst, which must have length
// len(a) + len(b) - 1 and must not alias a or b.
func DirectTo[F core.Float](dst, a, b []F) error {
	if err := validateOperands(len(a), len(b)); err != nil {
		return err
	}
	if want := len(a) + len(b) - 1; len(dst) != want {
		return fmt.Errorf("%w: dst has %d samples, want %d", ErrLengthMismatch, len(dst), want)
	}

	direct(dst, a, b)

	return nil
}

// direct evaluates the full convolution as a valid-mode correlation of the
// zero-padded signal with the reversed kernel.
func direct[F core.Float](dst, a, b []F) {
	m := len(b)

	padded := make([]F, len(a)+2*(m-1))
	copy(padded[m-1:], a)

	reversed := make([]F, m)
	for i, v := range b {
		reversed[m-1-i] = v
	}

	simdops.For[F]().ConvolveValid(dst, padded, reversed)
}

// Convolve performs linear convolution with automatic algorithm selection:
// direct for kernels up to 64 taps, FFT otherwise. The shorter operand is
// treated as the kernel.
func Convolve[F core.Float](a, b []F) ([]F, error) {
	if err := validateOperands(len(a), len(b)); err != nil {
		return nil, err
	}

	if len(b) > len(a) {
		a, b = b, a
	}

	if len(b) <= directThreshold {
		return Direct(a, b)
	}

	c, err := NewFFTConvolver[F, complex128](len(a), len(b))
	if err != nil {
		return nil, err
	}

	return c.Convolve(a, b)
}

// ConvolveMode performs convolution and trims the result to mode.
func ConvolveMode[F core.Float](a, b []F, mode Mode) ([]F, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	return Trim(full, len(a), len(b), mode), nil
}

// Trim extracts the mode portion of a full convolution of operands with
// lengths lenA and lenB. The result aliases full.
func Trim[T any](full []T, lenA, lenB int, mode Mode) []T {
	switch mode {
	case ModeSame:
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}
		return full[lenA-1 : lenB]
	default:
		return full
	}
}

func validateOperands(lenA, lenB int) error {
	if lenA == 0 {
		return ErrEmptyInput
	}
	if lenB == 0 {
		return ErrEmptyKernel
	}
	return nil
}
