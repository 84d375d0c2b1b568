package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/dac1976/dsp/dsp/core"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	buf.data = core.EnsureLen(buf.data, 2*n)
	return buf.data[:n], buf.data[n:], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin. Scratch buffers
// are pooled, so in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	magnitudeSplit(out, re, im, in)
	scratchPool.Put(buf)
	return out
}

// Power returns |X[k]|² for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	powerSplit(out, re, im, in)
	scratchPool.Put(buf)
	return out
}

// magnitudeSplit unpacks in into re/im and writes |in[k]| to dst. All
// slices have len(in) elements.
func magnitudeSplit(dst, re, im []float64, in []complex128) {
	unpack(re, im, in)
	vecmath.Magnitude(dst, re, im)
}

// powerSplit is magnitudeSplit for |in[k]|².
func powerSplit(dst, re, im []float64, in []complex128) {
	unpack(re, im, in)
	vecmath.Power(dst, re, im)
}

func unpack(re, im []float64, in []complex128) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase[C core.Complex](in []C) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, z := range in {
		out[i] = cmplx.Phase(complex128(z))
	}
	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase[F core.Float](phase []F) []F {
	if len(phase) == 0 {
		return nil
	}
	out := make([]F, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := float64(phase[i] - phase[i-1])
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + F(offset)
	}
	return out
}

// BinFrequency returns the centre frequency of bin for an fftSize-point
// transform at sampleRate.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(bin) * sampleRate / float64(fftSize)
}

// PeakBin returns the index and value of the largest bin in [from, to).
// It returns -1 when the range is empty.
func PeakBin[F core.Float](spectrum []F, from, to int) (int, F) {
	from = max(from, 0)
	to = min(to, len(spectrum))

	peak := -1
	var val F
	for i := from; i < to; i++ {
		if peak < 0 || spectrum[i] > val {
			peak, val = i, spectrum[i]
		}
	}
	return peak, val
}
