package fft

// Option configures spectrum conversions.
type Option func(*config)

type config struct {
	fullSpectrum bool
	zeroUnused   bool
}

// WithFullSpectrum converts all N bins instead of the first N/2.
func WithFullSpectrum() Option {
	return func(c *config) {
		c.fullSpectrum = true
	}
}

// WithZeroUnused clears the bins beyond the converted span. It only
// affects in-place conversions.
func WithZeroUnused() Option {
	return func(c *config) {
		c.zeroUnused = true
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Span returns the number of bins a conversion over n bins produces.
func Span(n int, opts ...Option) int {
	return applyOptions(opts).span(n)
}

func (c config) span(n int) int {
	if c.fullSpectrum {
		return n
	}
	return n / 2
}
