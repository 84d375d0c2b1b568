// Package fft implements an in-place radix-2 complex FFT and the spectrum
// conversions used for amplitude-accurate measurements.
//
// Transform lengths must be powers of two. [Forward] runs an iterative
// decimation-in-frequency pass followed by a bit-reversal reorder; its
// kernel uses the positive exponent e^{+2πi·kn/N}, so bin phases are the
// conjugate of the more common e^{-2πi·kn/N} convention while magnitudes
// are identical. [Inverse] conjugates, reuses [Forward], conjugates again
// and normalises, so Inverse(Forward(x)) recovers x.
//
// # Spectrum conversions
//
// After a forward transform the spectrum can be reduced to a single-sided
// representation:
//
//	fft.Forward(bins)
//	fft.Normalise(bins)
//	fft.ToMagnitude(bins)                  // first N/2 bins, non-DC doubled
//	fft.ToPower(bins, fft.WithZeroUnused()) // |z|², unused bins cleared
//
// Out-of-place variants ([MagnitudeTo], [PowerTo], [PsdTo]) write a real
// slice and leave the complex bins untouched, which keeps their phases
// available through [Phases].
//
// [To3BinSum] and [ThreeBinSumReal] recover the peak amplitude of a
// spectral line whose energy leaked into neighbouring bins: each bin is
// replaced by √2·√(P[k-1]+P[k]+P[k+1]).
package fft
