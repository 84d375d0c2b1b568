// Package resample converts fixed-length signals between sample rates by
// rational factors.
//
// A Resampler zero-stuffs the input by the upsample factor U, filters it
// with a Kaiser-windowed low-pass FIR designed at fs*U, and keeps every
// D-th sample. ComputeFactors turns an arbitrary positive ratio into
// bounded integer factors, and NewForRates combines the two.
//
// Quality modes select the anti-aliasing filter:
//
//	mode            taps   kaiser beta   nominal stopband
//	QualityFast      255    6            ~60 dB
//	QualityBalanced 1001   10            ~100 dB
//	QualityBest     2001   12            ~120 dB
//
// Linear resamples between arbitrary lengths by linear interpolation and
// keeps both endpoints.
package resample
