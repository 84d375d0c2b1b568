// Package conv provides linear convolution and correlation of real
// sequences.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution on SIMD kernels,
//     best for short kernels.
//   - FFT convolution: [FFTConvolver] zero-pads both operands to the next
//     power of two >= M+N-1, multiplies their spectra and transforms back.
//     Workspaces are allocated once and reused.
//
// # Usage
//
// For one-shot convolution:
//
//	y, err := conv.Convolve(signal, kernel) // selects direct or FFT
//	y, err := conv.Direct(signal, kernel)   // force direct
//
// For repeated convolution with fixed lengths:
//
//	c, err := conv.NewFFTConvolver64(len(signal), len(kernel))
//	err = c.ConvolveTo(dst, signal, kernel)
//
// # Output modes
//
// [Trim] cuts a full result to [ModeSame] (centred, delay removed, as used
// when applying FIR filters) or [ModeValid].
package conv
