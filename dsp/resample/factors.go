package resample

import (
	"fmt"
	"math"

	"github.com/dac1976/dsp/dsp/core"
)

const (
	// DefaultMaxNumerator bounds the upsample factor found by ComputeFactors.
	DefaultMaxNumerator = 128
	// DefaultMaxDenominator bounds the downsample factor found by
	// ComputeFactors.
	DefaultMaxDenominator = 128

	// maxFactorIterations caps the mediant search for ratios that sit
	// close to a bound.
	maxFactorIterations = 1 << 16
)

// ComputeFactors returns the fraction up/down closest to ratio with
// up <= maxNumerator and down <= maxDenominator. The integer brackets
// floor(ratio) and ceil(ratio) are scored first, then the search walks
// the Stern-Brocot tree between them, reducing every mediant and keeping
// the one with the smallest absolute error.
func ComputeFactors(ratio float64, maxNumerator, maxDenominator int) (up, down int, err error) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	if maxNumerator <= 0 || maxDenominator <= 0 {
		return 0, 0, fmt.Errorf("%w: bounds %d/%d", ErrInvalidFactor, maxNumerator, maxDenominator)
	}

	lo := math.Floor(ratio)
	if lo == ratio && lo <= float64(maxNumerator) {
		return int(lo), 1, nil
	}

	nA, dA := int(lo), 1
	nB, dB := int(math.Ceil(ratio)), 1
	best := math.MaxFloat64

	// The brackets themselves are candidates.
	if nA > 0 && nA <= maxNumerator {
		best = ratio - lo
		up, down = nA, 1
	}
	if nB <= maxNumerator {
		if diff := float64(nB) - ratio; diff < best {
			best = diff
			up, down = nB, 1
		}
	}

	for range maxFactorIterations {
		n, d := nA+nB, dA+dB
		if g := int(core.Gcd(uint(n), uint(d))); g > 1 {
			n /= g
			d /= g
		}
		if n > maxNumerator || d > maxDenominator {
			break
		}

		m := float64(n) / float64(d)
		if diff := math.Abs(m - ratio); diff < best {
			best = diff
			up, down = n, d
			if diff == 0 {
				break
			}
		}

		if m <= ratio {
			nA, dA = n, d
		} else {
			nB, dB = n, d
		}
	}

	if up == 0 {
		return 0, 0, fmt.Errorf("%w: %v within %d/%d", ErrNoFactors, ratio, maxNumerator, maxDenominator)
	}

	return up, down, nil
}
