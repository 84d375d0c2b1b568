package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dac1976/dsp/dsp/resample"
	stats "github.com/dac1976/dsp/stats/time"
)

type resampleOptions struct {
	rate    float64
	quality string
	taps    int
	beta    float64
	direct  bool
	maxNum  int
	maxDen  int
}

type resampleResult struct {
	Input      string  `yaml:"input" json:"input"`
	Output     string  `yaml:"output" json:"output"`
	InRate     int     `yaml:"in_rate" json:"in_rate"`
	OutRate    int     `yaml:"out_rate" json:"out_rate"`
	Up         int     `yaml:"up" json:"up"`
	Down       int     `yaml:"down" json:"down"`
	Channels   int     `yaml:"channels" json:"channels"`
	InFrames   int     `yaml:"in_frames" json:"in_frames"`
	OutFrames  int     `yaml:"out_frames" json:"out_frames"`
	Taps       int     `yaml:"taps" json:"taps"`
	CutoffHz   float64 `yaml:"cutoff_hz" json:"cutoff_hz"`
	UsesFFT    bool    `yaml:"uses_fft" json:"uses_fft"`
	OutPeak    float64 `yaml:"out_peak" json:"out_peak"`
	ClippedOut int     `yaml:"clipped" json:"clipped"`
}

// pcm is a decoded WAV file with one normalised float64 slice per channel.
type pcm struct {
	rate     int
	bitDepth int
	channels [][]float64
}

func newResampleCmd(a *app) *cobra.Command {
	opts := resampleOptions{}

	cmd := &cobra.Command{
		Use:   "resample <input.wav> <output.wav>",
		Short: "Resample a WAV file",
		Long: `Resample every channel of a PCM WAV file to --rate.

The rate ratio is approximated by integer factors bounded by --max-num and
--max-den, so the written sample rate is in*up/down rounded to an integer.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runResample(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.rate, "rate", 48000, "output sample rate in Hz")
	f.StringVar(&opts.quality, "quality", "balanced", "filter quality (fast, balanced, best)")
	f.IntVar(&opts.taps, "taps", 0, "anti-aliasing filter taps (0 uses the quality default)")
	f.Float64Var(&opts.beta, "beta", -1, "kaiser beta (negative uses the quality default)")
	f.BoolVar(&opts.direct, "direct", false, "use direct convolution instead of the FFT")
	f.IntVar(&opts.maxNum, "max-num", 1000, "largest up factor")
	f.IntVar(&opts.maxDen, "max-den", 1000, "largest down factor")

	return cmd
}

func parseQuality(s string) (resample.Quality, error) {
	switch s {
	case "fast":
		return resample.QualityFast, nil
	case "balanced", "":
		return resample.QualityBalanced, nil
	case "best":
		return resample.QualityBest, nil
	default:
		return 0, fmt.Errorf("unknown quality %q (want fast, balanced or best)", s)
	}
}

func (o resampleOptions) resamplerOptions() ([]resample.Option, error) {
	q, err := parseQuality(o.quality)
	if err != nil {
		return nil, err
	}

	opts := []resample.Option{
		resample.WithQuality(q),
		resample.WithFastConvolution(!o.direct),
		resample.WithMaxFactors(o.maxNum, o.maxDen),
	}
	if o.taps > 0 {
		opts = append(opts, resample.WithFilterTaps(o.taps))
	}
	if o.beta >= 0 {
		opts = append(opts, resample.WithKaiserBeta(o.beta))
	}
	return opts, nil
}

func (a *app) runResample(w io.Writer, inPath, outPath string, opts resampleOptions) error {
	rsOpts, err := opts.resamplerOptions()
	if err != nil {
		return err
	}

	in, err := readWAV(inPath)
	if err != nil {
		return err
	}
	frames := len(in.channels[0])

	r, err := resample.NewForRates[float64, complex128](frames, float64(in.rate), opts.rate, rsOpts...)
	if err != nil {
		return err
	}
	up, down := r.Factors()
	outRate := int(math.Round(float64(in.rate) * float64(up) / float64(down)))

	a.log.Debug("resampler ready",
		zap.Int("in_rate", in.rate),
		zap.Int("out_rate", outRate),
		zap.Int("up", up),
		zap.Int("down", down),
		zap.Int("taps", r.Taps()),
		zap.Bool("fft", r.UsesFFT()),
	)

	out := pcm{
		rate:     outRate,
		bitDepth: in.bitDepth,
		channels: make([][]float64, len(in.channels)),
	}
	peak := 0.0
	for ch, src := range in.channels {
		dst := make([]float64, r.ResampledSize())
		if err := r.Process(dst, src); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		out.channels[ch] = dst
		peak = math.Max(peak, stats.Summarize(dst).Peak)
	}

	clipped, err := writeWAV(outPath, out)
	if err != nil {
		return err
	}
	if clipped > 0 {
		a.log.Warn("output clipped", zap.Int("samples", clipped))
	}

	res := resampleResult{
		Input:      inPath,
		Output:     outPath,
		InRate:     in.rate,
		OutRate:    outRate,
		Up:         up,
		Down:       down,
		Channels:   len(in.channels),
		InFrames:   frames,
		OutFrames:  r.ResampledSize(),
		Taps:       r.Taps(),
		CutoffHz:   r.CutoffHz(),
		UsesFFT:    r.UsesFFT(),
		OutPeak:    peak,
		ClippedOut: clipped,
	}

	a.log.Info("resampled",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("frames", res.OutFrames),
	)

	return a.emit(w, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s -> %s: %d Hz -> %d Hz (%d/%d), %d -> %d frames, %d channel(s)\n",
			inPath, outPath, res.InRate, res.OutRate, up, down, res.InFrames, res.OutFrames, res.Channels)
		return err
	})
}

func fullScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}

// pcmOffset is the stored value of silence: 8-bit WAV samples are unsigned.
func pcmOffset(bitDepth int) int {
	if bitDepth == 8 {
		return 128
	}
	return 0
}

func readWAV(path string) (pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("decode %s: %w", path, err)
	}

	numCh := buf.Format.NumChannels
	if numCh < 1 {
		return pcm{}, fmt.Errorf("%s: no channels", path)
	}
	frames := len(buf.Data) / numCh
	if frames == 0 {
		return pcm{}, fmt.Errorf("%s: no samples", path)
	}

	bitDepth := int(dec.BitDepth)
	scale := 1 / fullScale(bitDepth)
	offset := pcmOffset(bitDepth)

	channels := make([][]float64, numCh)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
		for i := range frames {
			channels[ch][i] = float64(buf.Data[i*numCh+ch]-offset) * scale
		}
	}

	return pcm{
		rate:     buf.Format.SampleRate,
		bitDepth: bitDepth,
		channels: channels,
	}, nil
}

// writeWAV writes p as integer PCM and returns the number of samples that
// were clipped to full scale. A partially written file is removed.
func writeWAV(path string, p pcm) (clipped int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(path)
		}
	}()

	numCh := len(p.channels)
	frames := len(p.channels[0])
	maxVal := fullScale(p.bitDepth)
	hi, lo := maxVal-1, -maxVal
	offset := pcmOffset(p.bitDepth)

	data := make([]int, frames*numCh)
	for ch, samples := range p.channels {
		for i, x := range samples {
			v := math.Round(x * maxVal)
			if v > hi || v < lo {
				v = math.Max(lo, math.Min(hi, v))
				clipped++
			}
			data[i*numCh+ch] = int(v) + offset
		}
	}

	enc := wav.NewEncoder(f, p.rate, p.bitDepth, numCh, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numCh, SampleRate: p.rate},
		Data:           data,
		SourceBitDepth: p.bitDepth,
	}
	if err = enc.Write(buf); err != nil {
		return clipped, fmt.Errorf("write %s: %w", path, err)
	}
	if err = enc.Close(); err != nil {
		return clipped, fmt.Errorf("finalise %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return clipped, fmt.Errorf("close %s: %w", path, err)
	}

	return clipped, nil
}
