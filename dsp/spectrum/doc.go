// Package spectrum turns fixed-size signal blocks into amplitude-accurate
// spectra.
//
// MagnitudeFFT windows a block, transforms it, and corrects the magnitude
// bins by the window's coherent gain so that a bin-centred tone of peak
// amplitude A reads A. ThreeBinSumFFT corrects the power spectrum by the
// window's combined gain and sums each bin with its neighbours, which
// recovers the amplitude of tones that fall between bins.
//
// The helpers Magnitude, Power, Phase, UnwrapPhase, BinFrequency and
// PeakBin operate on spectra produced by either pipeline or by package fft.
package spectrum
