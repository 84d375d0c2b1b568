package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dac1976/dsp/dsp/fft"
	"github.com/dac1976/dsp/dsp/signal"
	"github.com/dac1976/dsp/dsp/spectrum"
	"github.com/dac1976/dsp/dsp/window"
	"github.com/dac1976/dsp/stats/frequency"
)

const (
	modeMagnitude = "magnitude"
	modeThreeBin  = "3bin"
)

type spectrumOptions struct {
	sampleRate float64
	fftSize    int
	window     string
	beta       float64
	mode       string
	tones      []string
	toneFile   string
	full       bool
}

type toneMeasurement struct {
	Frequency    float64 `yaml:"frequency" json:"frequency"`
	Expected     float64 `yaml:"expected" json:"expected"`
	Bin          int     `yaml:"bin" json:"bin"`
	BinFrequency float64 `yaml:"bin_frequency" json:"bin_frequency"`
	Measured     float64 `yaml:"measured" json:"measured"`
}

type spectrumResult struct {
	SampleRate   float64           `yaml:"sample_rate" json:"sample_rate"`
	FFTSize      int               `yaml:"fft_size" json:"fft_size"`
	Window       string            `yaml:"window" json:"window"`
	Mode         string            `yaml:"mode" json:"mode"`
	CoherentGain float64           `yaml:"coherent_gain" json:"coherent_gain"`
	Bins         int               `yaml:"bins" json:"bins"`
	PeakBin      int               `yaml:"peak_bin" json:"peak_bin"`
	PeakHz       float64           `yaml:"peak_hz" json:"peak_hz"`
	PeakValue    float64           `yaml:"peak_value" json:"peak_value"`
	Tones        []toneMeasurement `yaml:"tones" json:"tones"`
	Shape        shapeResult       `yaml:"shape" json:"shape"`
}

type shapeResult struct {
	CentroidHz  float64 `yaml:"centroid_hz" json:"centroid_hz"`
	SpreadHz    float64 `yaml:"spread_hz" json:"spread_hz"`
	Flatness    float64 `yaml:"flatness" json:"flatness"`
	RolloffHz   float64 `yaml:"rolloff_hz" json:"rolloff_hz"`
	BandwidthHz float64 `yaml:"bandwidth_hz" json:"bandwidth_hz"`
}

func newSpectrumCmd(a *app) *cobra.Command {
	opts := spectrumOptions{}

	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Measure the spectrum of a synthesised multi-tone signal",
		Long: `Synthesise a sum of tones, window it and report the amplitude found at
each tone's bin.

Tones come from repeated --tone freq:amp[:phase[:offset]] flags, from a
YAML --tone-file with a "tones" list, or from the "tones" key of the
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tones, err := a.resolveTones(opts)
			if err != nil {
				return err
			}
			return a.runSpectrum(cmd.OutOrStdout(), tones, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.sampleRate, "sample-rate", 256000, "sample rate in Hz")
	f.IntVar(&opts.fftSize, "fft-size", 1024, "FFT length, a power of two")
	f.StringVar(&opts.window, "window", "hann", "window type (see wininfo -list)")
	f.Float64Var(&opts.beta, "beta", window.DefaultKaiserBeta, "kaiser beta")
	f.StringVar(&opts.mode, "mode", modeMagnitude, "spectrum mode (magnitude, 3bin)")
	f.StringArrayVar(&opts.tones, "tone", nil, "tone as freq:amp[:phase[:offset]], repeatable")
	f.StringVar(&opts.toneFile, "tone-file", "", "YAML file with a tones list")
	f.BoolVar(&opts.full, "full", false, "report the full two-sided spectrum")

	return cmd
}

func (a *app) resolveTones(opts spectrumOptions) ([]signal.ToneParams, error) {
	var tones []signal.ToneParams

	for _, s := range opts.tones {
		t, err := parseTone(s)
		if err != nil {
			return nil, err
		}
		tones = append(tones, t)
	}

	if opts.toneFile != "" {
		fromFile, err := readToneFile(opts.toneFile)
		if err != nil {
			return nil, err
		}
		tones = append(tones, fromFile...)
	}

	if len(tones) == 0 && a.v.IsSet("tones") {
		if err := a.v.UnmarshalKey("tones", &tones); err != nil {
			return nil, fmt.Errorf("config tones: %w", err)
		}
	}

	if len(tones) == 0 {
		return nil, errors.New("no tones given, use --tone or --tone-file")
	}
	return tones, nil
}

func (a *app) runSpectrum(w io.Writer, tones []signal.ToneParams, opts spectrumOptions) error {
	gen, err := windowGenerator(opts.window, opts.beta)
	if err != nil {
		return err
	}

	x, err := signal.MultiTone[float64](tones, opts.sampleRate, opts.fftSize)
	if err != nil {
		return err
	}

	var fftOpts []fft.Option
	if opts.full {
		fftOpts = append(fftOpts, fft.WithFullSpectrum())
	}

	var (
		spec []float64
		win  *window.Window[float64]
	)
	switch opts.mode {
	case modeMagnitude:
		m, err := spectrum.NewMagnitudeFFT[float64, complex128](gen, opts.fftSize)
		if err != nil {
			return err
		}
		if spec, err = m.ProcessTo(nil, x, fftOpts...); err != nil {
			return err
		}
		win = m.Window()
	case modeThreeBin:
		s, err := spectrum.NewThreeBinSumFFT[float64, complex128](gen, opts.fftSize)
		if err != nil {
			return err
		}
		if spec, err = s.ProcessTo(nil, x, fftOpts...); err != nil {
			return err
		}
		win = s.Window()
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", opts.mode, modeMagnitude, modeThreeBin)
	}

	shape, err := frequency.Calculate(spec, opts.fftSize, opts.sampleRate)
	if err != nil {
		return err
	}

	peak, peakVal := spectrum.PeakBin(spec, 1, len(spec))
	res := spectrumResult{
		SampleRate:   opts.sampleRate,
		FFTSize:      opts.fftSize,
		Window:       opts.window,
		Mode:         opts.mode,
		CoherentGain: win.CoherentGain(),
		Bins:         len(spec),
		PeakBin:      peak,
		PeakHz:       spectrum.BinFrequency(peak, opts.fftSize, opts.sampleRate),
		PeakValue:    peakVal,
		Shape: shapeResult{
			CentroidHz:  shape.Centroid,
			SpreadHz:    shape.Spread,
			Flatness:    shape.Flatness,
			RolloffHz:   shape.Rolloff,
			BandwidthHz: shape.Bandwidth,
		},
	}

	binWidth := opts.sampleRate / float64(opts.fftSize)
	for _, t := range tones {
		nearest := int(t.Frequency/binWidth + 0.5)
		bin, val := spectrum.PeakBin(spec, nearest-1, nearest+2)
		res.Tones = append(res.Tones, toneMeasurement{
			Frequency:    t.Frequency,
			Expected:     t.Amplitude,
			Bin:          bin,
			BinFrequency: spectrum.BinFrequency(bin, opts.fftSize, opts.sampleRate),
			Measured:     val,
		})
	}

	a.log.Info("spectrum computed",
		zap.Int("fft_size", opts.fftSize),
		zap.String("window", opts.window),
		zap.String("mode", opts.mode),
		zap.Int("peak_bin", peak),
		zap.Float64("peak_value", peakVal),
		zap.Float64("centroid_hz", shape.Centroid),
	)

	return a.emit(w, res, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "Tone [Hz]\tBin\tBin [Hz]\tExpected\tMeasured\n")
		for _, m := range res.Tones {
			_, _ = fmt.Fprintf(tw, "%.2f\t%d\t%.2f\t%.4f\t%.4f\n",
				m.Frequency, m.Bin, m.BinFrequency, m.Expected, m.Measured)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "centroid %.2f Hz, rolloff %.2f Hz, -3 dB bandwidth %.2f Hz, flatness %.4f\n",
			res.Shape.CentroidHz, res.Shape.RolloffHz, res.Shape.BandwidthHz, res.Shape.Flatness)
		return err
	})
}
