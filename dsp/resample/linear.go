package resample

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/core"
)

// Linear fills dst with src resampled by linear interpolation. The first
// and last samples of src map onto the first and last samples of dst.
func Linear[F core.Float](dst, src []F) error {
	if len(src) == 0 || len(dst) == 0 {
		return fmt.Errorf("%w: src %d, dst %d", ErrInvalidLength, len(src), len(dst))
	}

	switch {
	case len(src) == len(dst):
		copy(dst, src)
		return nil
	case len(src) == 1:
		for i := range dst {
			dst[i] = src[0]
		}
		return nil
	case len(dst) == 1:
		return fmt.Errorf("%w: cannot map %d samples onto one", ErrInvalidLength, len(src))
	}

	last := len(src) - 1
	stride := float64(last) / float64(len(dst)-1)

	dst[0] = src[0]
	for i := 1; i < len(dst)-1; i++ {
		pos := float64(i) * stride
		idx := min(int(pos), last-1)
		frac := F(pos - float64(idx))
		dst[i] = src[idx] + (src[idx+1]-src[idx])*frac
	}
	dst[len(dst)-1] = src[last]

	return nil
}
