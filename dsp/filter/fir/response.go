package fir

import (
	"math"
	"math/cmplx"

	"github.com/dac1976/dsp/dsp/core"
)

// Response evaluates the complex frequency response
//
//	H(e^{jw}) = sum_k h[k] * e^{-jwk},  w = 2*pi*freqHz/samplingHz
func Response[F core.Float](coeffs []F, freqHz, samplingHz float64) complex128 {
	w := 2 * math.Pi * freqHz / samplingHz
	var h complex128
	for k, c := range coeffs {
		h += complex(float64(c), 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns 20*log10|H| at freqHz.
func MagnitudeDB[F core.Float](coeffs []F, freqHz, samplingHz float64) float64 {
	return core.LinearToDB(cmplx.Abs(Response(coeffs, freqHz, samplingHz)))
}
