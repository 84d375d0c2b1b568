// Package fir designs windowed-sinc FIR filters and applies them to
// fixed-length signals.
//
// LowPass, HighPass, BandPass and BandStop return linear-phase coefficient
// sets shaped by any window.Generator. A [Holder] owns the convolution
// workspace for one signal length and applies the coefficients either
// directly or through an FFT convolver, optionally removing the
// (taps-1)/2 sample group delay.
package fir
