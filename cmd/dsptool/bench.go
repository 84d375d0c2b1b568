package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"text/tabwriter"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dac1976/dsp/dsp/fft"
)

type benchOptions struct {
	sizes      []int
	iterations int
	seed       int64
}

type benchEntry struct {
	Size      int     `yaml:"size" json:"size"`
	Radix2NS  float64 `yaml:"radix2_ns" json:"radix2_ns"`
	AlgoFFTNS float64 `yaml:"algofft_ns" json:"algofft_ns"`
	Speedup   float64 `yaml:"speedup" json:"speedup"`
	MaxDiff   float64 `yaml:"max_diff" json:"max_diff"`
}

func newBenchCmd(a *app) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the radix-2 FFT against algo-fft",
		Long: `Time forward transforms of random complex data with the in-place radix-2
FFT and with an algo-fft plan, and report the largest difference between
their outputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBench(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&opts.sizes, "sizes", []int{256, 1024, 4096}, "transform lengths, powers of two")
	f.IntVar(&opts.iterations, "iterations", 1000, "transforms per measurement")
	f.Int64Var(&opts.seed, "seed", 1, "random seed for the input data")

	return cmd
}

func (a *app) runBench(w io.Writer, opts benchOptions) error {
	if opts.iterations < 1 {
		return fmt.Errorf("iterations must be > 0, got %d", opts.iterations)
	}

	rng := rand.New(rand.NewSource(opts.seed))
	entries := make([]benchEntry, 0, len(opts.sizes))

	for _, n := range opts.sizes {
		e, err := benchSize(rng, n, opts.iterations)
		if err != nil {
			return err
		}
		a.log.Debug("benchmarked",
			zap.Int("size", n),
			zap.Float64("radix2_ns", e.Radix2NS),
			zap.Float64("algofft_ns", e.AlgoFFTNS),
		)
		entries = append(entries, e)
	}

	return a.emit(w, entries, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "Size\tRadix-2 [ns/op]\talgo-fft [ns/op]\tSpeedup\tMax Diff\n")
		for _, e := range entries {
			_, _ = fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%.2f\t%.3g\n",
				e.Size, e.Radix2NS, e.AlgoFFTNS, e.Speedup, e.MaxDiff)
		}
		return tw.Flush()
	})
}

func benchSize(rng *rand.Rand, n, iterations int) (benchEntry, error) {
	src := make([]complex128, n)
	for i := range src {
		src[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return benchEntry{}, fmt.Errorf("algo-fft plan for %d: %w", n, err)
	}

	work := make([]complex128, n)
	ref := make([]complex128, n)

	copy(work, src)
	if err := fft.Forward(work); err != nil {
		return benchEntry{}, err
	}
	if err := plan.Forward(ref, src); err != nil {
		return benchEntry{}, err
	}
	maxDiff := maxConjugateDiff(work, ref)

	start := time.Now()
	for range iterations {
		copy(work, src)
		_ = fft.Forward(work)
	}
	radix2 := float64(time.Since(start).Nanoseconds()) / float64(iterations)

	start = time.Now()
	for range iterations {
		_ = plan.Forward(ref, src)
	}
	algo := float64(time.Since(start).Nanoseconds()) / float64(iterations)

	speedup := 0.0
	if algo > 0 {
		speedup = radix2 / algo
	}

	return benchEntry{
		Size:      n,
		Radix2NS:  radix2,
		AlgoFFTNS: algo,
		Speedup:   speedup,
		MaxDiff:   maxDiff,
	}, nil
}

// maxConjugateDiff compares a positive-exponent transform with a
// negative-exponent one: bin k of one equals bin (n-k) mod n of the other.
func maxConjugateDiff(pos, neg []complex128) float64 {
	n := len(pos)
	d := 0.0
	for k := range pos {
		diff := pos[k] - neg[(n-k)%n]
		d = max(d, real(diff)*real(diff)+imag(diff)*imag(diff))
	}
	return math.Sqrt(d)
}
