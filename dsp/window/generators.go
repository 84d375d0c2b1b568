package window

import (
	"math"

	"github.com/dac1976/dsp/dsp/core"
)

// CosineSum is an alternating-sign cosine series
// a0 - a1·cos(2πn/(N-1)) + a2·cos(4πn/(N-1)) - ...
type CosineSum []float64

// Coefficient implements Generator.
func (s CosineSum) Coefficient(n, sizeMinusOne float64) float64 {
	phase := 2 * math.Pi * n / sizeMinusOne

	sum := 0.0
	sign := 1.0
	for k, a := range s {
		sum += sign * a * math.Cos(float64(k)*phase)
		sign = -sign
	}

	return sum
}

// Cosine-series windows.
var (
	// FlatTop1 is the ISO 18431-1 flat top.
	FlatTop1 = CosineSum{1, 1.933, 1.286, 0.388, 0.0322}
	FlatTop2 = CosineSum{0.2810639, 0.5208972, 0.1980399}
	FlatTop3 = CosineSum{0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368}
	// FlatTop4 is the HP P301 flat top.
	FlatTop4 = CosineSum{0.9994484, 1.911456, 1.076578, 0.183162}
	// FlatTop5 is the HP flat top.
	FlatTop5 = CosineSum{1, 1.869032, 1.195972, 0.035928, 0.030916}
	// FlatTop6 is a modified HP P401 flat top.
	FlatTop6 = CosineSum{
		1, 1.93774046310203, 1.32530734987255,
		0.43206975880342, 0.04359135851569, 0.00015175580171,
	}
	// FlatTop7 is the Rohde & Schwarz flat top.
	FlatTop7 = CosineSum{0.1881999, 0.36923, 0.28702, 0.13077, 0.02488}

	Hann          = CosineSum{0.5, 0.5}
	Hamming       = CosineSum{0.53836, 0.46164}
	Blackman      = CosineSum{0.42, 0.5, 0.08}
	ExactBlackman = CosineSum{7938.0 / 18608, 9240.0 / 18608, 1430.0 / 18608}
)

// Non-cosine windows.
var (
	Rectangle Generator = GeneratorFunc(rectangle)
	Bartlett  Generator = GeneratorFunc(bartlett)
	Lanczos   Generator = GeneratorFunc(lanczos)
)

func rectangle(_, _ float64) float64 { return 1 }

func bartlett(n, sizeMinusOne float64) float64 {
	h := sizeMinusOne / 2
	return 1 - math.Abs((n-h)/h)
}

func lanczos(n, sizeMinusOne float64) float64 {
	return core.SincNorm(2*n/sizeMinusOne - 1)
}

// Kaiser is the Kaiser-Bessel window with shape parameter Beta.
type Kaiser struct {
	Beta float64
}

// Validate reports a Beta that is negative or not finite.
func (k Kaiser) Validate() error { return validateBeta(k.Beta) }

// Coefficient implements Generator.
func (k Kaiser) Coefficient(n, sizeMinusOne float64) float64 {
	t := 2*n/sizeMinusOne - 1
	return core.Bessel(k.Beta*math.Sqrt(math.Max(0, 1-t*t))) / core.Bessel(k.Beta)
}
