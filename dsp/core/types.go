// Package core holds the numeric kernel shared by the other dsp packages:
// type constraints, constants, convolution, Bessel and sinc helpers,
// integer utilities, and buffer helpers.
package core

// Float is the set of real sample types.
type Float interface {
	float32 | float64
}

// Complex is the set of complex sample types.
type Complex interface {
	complex64 | complex128
}

// Scalar is any real or complex sample type.
type Scalar interface {
	Float | Complex
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is the set of integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | Unsigned
}
