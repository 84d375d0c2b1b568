package conv

import "github.com/dac1976/dsp/dsp/core"

// Correlate computes the full cross-correlation of a and b.
// The result has length len(a) + len(b) - 1; index k corresponds to lag
// k - (len(b) - 1).
func Correlate[F core.Float](a, b []F) ([]F, error) {
	if err := validateOperands(len(a), len(b)); err != nil {
		return nil, err
	}

	reversed := make([]F, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}

	return Convolve(a, reversed)
}

// CorrelateMode computes cross-correlation trimmed to mode.
func CorrelateMode[F core.Float](a, b []F, mode Mode) ([]F, error) {
	full, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}

	return Trim(full, len(a), len(b), mode), nil
}

// AutoCorrelate computes the auto-correlation of a, normalised so the
// zero lag (index len(a)-1) is 1 unless a is silent.
func AutoCorrelate[F core.Float](a []F) ([]F, error) {
	result, err := Correlate(a, a)
	if err != nil {
		return nil, err
	}

	zeroLag := result[len(a)-1]
	if zeroLag == 0 {
		return result, nil
	}

	for i := range result {
		result[i] /= zeroLag
	}

	return result, nil
}

// LagToIndex converts a lag to an index into a full correlation of an
// operand b of length lenB.
func LagToIndex(lag, lenB int) int {
	return lag + lenB - 1
}

// IndexToLag is the inverse of LagToIndex.
func IndexToLag(index, lenB int) int {
	return index - (lenB - 1)
}
