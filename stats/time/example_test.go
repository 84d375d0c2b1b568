package time_test

import (
	"fmt"

	timestats "github.com/dac1976/dsp/stats/time"
)

func ExampleSummarize() {
	s := timestats.Summarize([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f peak=%.1f zc=%d\n", s.RMS, s.Peak, s.ZeroCrossings)

	// Output:
	// rms=1.0 peak=1.0 zc=3
}
