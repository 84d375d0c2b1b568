// Package simdops dispatches float32/float64 and complex128 slice kernels to
// the tphakala/simd implementations so generic code can reach them.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"

	"github.com/dac1976/dsp/dsp/core"
)

// Ops holds the kernels for one float type.
type Ops[F core.Float] struct {
	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale writes dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)

	// DotProduct returns Σ a[i]*b[i]. Slices must have equal length.
	DotProduct func(a, b []F) F

	// ConvolveValid writes dst[i] = Σ signal[i+k]*kernel[k] for the
	// len(signal)-len(kernel)+1 fully overlapping positions.
	ConvolveValid func(dst, signal, kernel []F)
}

var (
	ops32 = Ops[float32]{
		Sum:           f32.Sum,
		Scale:         f32.Scale,
		DotProduct:    f32.DotProductUnsafe,
		ConvolveValid: f32.ConvolveValid,
	}
	ops64 = Ops[float64]{
		Sum:           f64.Sum,
		Scale:         f64.Scale,
		DotProduct:    f64.DotProductUnsafe,
		ConvolveValid: f64.ConvolveValid,
	}
)

// For returns the kernels for F. The type switch runs once per call site,
// not per sample.
func For[F core.Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// MulComplex writes dst[i] = a[i] * b[i]. complex128 slices use the SIMD
// kernel; other element types fall back to a scalar loop.
func MulComplex[C core.Complex](dst, a, b []C) {
	if d, ok := any(dst).([]complex128); ok {
		c128.Mul(d, any(a).([]complex128), any(b).([]complex128))
		return
	}

	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}
