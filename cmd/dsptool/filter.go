package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dac1976/dsp/dsp/filter/fir"
	"github.com/dac1976/dsp/dsp/window"
)

type filterOptions struct {
	kind       string
	taps       int
	sampleRate float64
	cutoff     float64
	centre     float64
	bandwidth  float64
	window     string
	beta       float64
	response   []float64
}

type responsePoint struct {
	Frequency   float64 `yaml:"frequency" json:"frequency"`
	MagnitudeDB float64 `yaml:"magnitude_db" json:"magnitude_db"`
}

type filterResult struct {
	Type         string          `yaml:"type" json:"type"`
	Taps         int             `yaml:"taps" json:"taps"`
	SampleRate   float64         `yaml:"sample_rate" json:"sample_rate"`
	Window       string          `yaml:"window" json:"window"`
	Coefficients []float64       `yaml:"coefficients" json:"coefficients"`
	Response     []responsePoint `yaml:"response,omitempty" json:"response,omitempty"`
}

func newFilterCmd(a *app) *cobra.Command {
	opts := filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Design a windowed-sinc FIR filter",
		Long: `Design low-pass, high-pass, band-pass or band-stop FIR coefficients.

Low- and high-pass designs use --cutoff. Band designs use --centre and
--bandwidth. High-pass and band-stop filters need an odd tap count.
--response lists frequencies at which to report the magnitude response.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFilter(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.kind, "type", "lowpass", "filter type (lowpass, highpass, bandpass, bandstop)")
	f.IntVar(&opts.taps, "taps", 101, "number of coefficients")
	f.Float64Var(&opts.sampleRate, "sample-rate", 48000, "sample rate in Hz")
	f.Float64Var(&opts.cutoff, "cutoff", 1000, "cutoff frequency in Hz")
	f.Float64Var(&opts.centre, "centre", 1000, "band centre frequency in Hz")
	f.Float64Var(&opts.bandwidth, "bandwidth", 200, "band width in Hz")
	f.StringVar(&opts.window, "window", "kaiser", "window type (see wininfo -list)")
	f.Float64Var(&opts.beta, "beta", window.DefaultKaiserBeta, "kaiser beta")
	f.Float64SliceVar(&opts.response, "response", nil, "frequencies in Hz to evaluate the response at")

	return cmd
}

func designFilter(opts filterOptions, gen window.Generator) ([]float64, error) {
	switch opts.kind {
	case "lowpass", "lp":
		return fir.LowPass(opts.taps, opts.cutoff, opts.sampleRate, gen)
	case "highpass", "hp":
		return fir.HighPass(opts.taps, opts.cutoff, opts.sampleRate, gen)
	case "bandpass", "bp":
		return fir.BandPass(opts.taps, opts.centre, opts.bandwidth, opts.sampleRate, gen)
	case "bandstop", "notch", "bs":
		return fir.BandStop(opts.taps, opts.centre, opts.bandwidth, opts.sampleRate, gen)
	default:
		return nil, fmt.Errorf("unknown filter type %q", opts.kind)
	}
}

func (a *app) runFilter(w io.Writer, opts filterOptions) error {
	gen, err := windowGenerator(opts.window, opts.beta)
	if err != nil {
		return err
	}

	coeffs, err := designFilter(opts, gen)
	if err != nil {
		return err
	}

	res := filterResult{
		Type:         opts.kind,
		Taps:         len(coeffs),
		SampleRate:   opts.sampleRate,
		Window:       opts.window,
		Coefficients: coeffs,
	}
	for _, hz := range opts.response {
		res.Response = append(res.Response, responsePoint{
			Frequency:   hz,
			MagnitudeDB: fir.MagnitudeDB(coeffs, hz, opts.sampleRate),
		})
	}

	a.log.Info("filter designed",
		zap.String("type", opts.kind),
		zap.Int("taps", len(coeffs)),
		zap.String("window", opts.window),
	)

	return a.emit(w, res, func(w io.Writer) error {
		for _, c := range coeffs {
			if _, err := fmt.Fprintf(w, "%.12g\n", c); err != nil {
				return err
			}
		}
		for _, p := range res.Response {
			if _, err := fmt.Fprintf(w, "# %.2f Hz: %.2f dB\n", p.Frequency, p.MagnitudeDB); err != nil {
				return err
			}
		}
		return nil
	})
}
