package fft

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/dac1976/dsp/dsp/core"
)

// ErrInvalidSize is returned for transform lengths that are not a power of two.
var ErrInvalidSize = fmt.Errorf("fft: length must be a power of two: %w", core.ErrInvalidSize)

// ErrInvalidBinWidth is returned when a PSD bin width is not positive.
var ErrInvalidBinWidth = fmt.Errorf("fft: bin width must be > 0: %w", core.ErrInvalidArgument)

func validateLength(n int) error {
	if !core.IsPowerOf2(n) {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	return nil
}

// Forward transforms x in place.
func Forward[C core.Complex](x []C) error {
	if err := validateLength(len(x)); err != nil {
		return err
	}

	forward(x)

	return nil
}

// ForwardReal copies the real signal x into dst (resized to len(x)) and
// transforms it. The returned slice aliases dst when it had capacity.
func ForwardReal[F core.Float, C core.Complex](dst []C, x []F) ([]C, error) {
	if err := validateLength(len(x)); err != nil {
		return dst, err
	}

	dst = core.EnsureLen(dst, len(x))
	for i, v := range x {
		dst[i] = C(complex(float64(v), 0))
	}

	forward(dst)

	return dst, nil
}

// Inverse computes the normalised inverse transform of x in place.
func Inverse[C core.Complex](x []C) error {
	if err := validateLength(len(x)); err != nil {
		return err
	}

	conjugate(x)
	forward(x)
	conjugate(x)
	Normalise(x)

	return nil
}

// Normalise divides every bin by len(x).
func Normalise[C core.Complex](x []C) {
	if len(x) == 0 {
		return
	}

	n := C(complex(float64(len(x)), 0))
	for i := range x {
		x[i] /= n
	}
}

// Denormalise multiplies every bin by len(x).
func Denormalise[C core.Complex](x []C) {
	n := C(complex(float64(len(x)), 0))
	for i := range x {
		x[i] *= n
	}
}

func forward[C core.Complex](x []C) {
	n := len(x)
	if n < 2 {
		return
	}

	theta := math.Pi / float64(n)
	phi := C(complex(math.Cos(theta), math.Sin(theta)))

	for k := n; k > 1; {
		span := k
		k >>= 1
		phi *= phi

		twiddle := C(1)
		for l := 0; l < k; l++ {
			for a := l; a < n; a += span {
				b := a + k
				d := x[a] - x[b]
				x[a] += x[b]
				x[b] = d * twiddle
			}

			twiddle *= phi
		}
	}

	shift := 32 - (bits.Len(uint(n)) - 1)
	for a := range n {
		b := int(bits.Reverse32(uint32(a)) >> shift)
		if b > a {
			x[a], x[b] = x[b], x[a]
		}
	}
}

func conjugate[C core.Complex](x []C) {
	for i, z := range x {
		x[i] = C(cmplx.Conj(complex128(z)))
	}
}
