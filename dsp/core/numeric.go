package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, using an
// absolute comparison first and a relative one for large magnitudes.
func NearlyEqual[F Float](a, b, eps F) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := F(math.Abs(float64(a - b)))
	if diff <= eps {
		return true
	}

	largest := F(math.Max(math.Abs(float64(a)), math.Abs(float64(b))))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Clamp limits value to [lo, hi].
func Clamp[F Float](value, lo, hi F) F {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// DBToLinear converts dB (20*log10 convention) to linear amplitude.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
