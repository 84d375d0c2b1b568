package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFactorsRatioArgument(t *testing.T) {
	out, _, err := execute(t, "factors", "1.5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "3/2 "), "got %q", out)
}

func TestFactorsFromRatesYAML(t *testing.T) {
	out, _, err := execute(t, "factors", "--in-rate", "44100", "--out-rate", "48000",
		"--max-num", "1000", "--max-den", "1000", "-o", "yaml")
	require.NoError(t, err)

	var res factorsResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 160, res.Up)
	assert.Equal(t, 147, res.Down)
	assert.InDelta(t, 48000.0/44100.0, res.Ratio, 1e-12)
	assert.InDelta(t, 0, res.Error, 1e-12)
}

func TestFactorsDefaultBounds(t *testing.T) {
	out, _, err := execute(t, "factors", "--in-rate", "44100", "--out-rate", "48000", "-o", "json")
	require.NoError(t, err)

	var res factorsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 123, res.Up)
	assert.Equal(t, 113, res.Down)
}

func TestFactorsEnvironment(t *testing.T) {
	t.Setenv("DSPTOOL_MAX_NUM", "1000")
	t.Setenv("DSPTOOL_MAX_DEN", "1000")
	t.Setenv("DSPTOOL_OUTPUT", "json")

	out, _, err := execute(t, "factors", "--in-rate", "44100", "--out-rate", "48000")
	require.NoError(t, err)

	var res factorsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 160, res.Up)
	assert.Equal(t, 147, res.Down)
}

func TestFactorsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsptool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max-num: 1000\nmax-den: 1000\noutput: yaml\n"), 0o600))

	out, _, err := execute(t, "--config", path, "factors", "--in-rate", "44100", "--out-rate", "48000")
	require.NoError(t, err)

	var res factorsResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 160, res.Up)
	assert.Equal(t, 147, res.Down)

	// Command-line flags win over the config file.
	out, _, err = execute(t, "--config", path, "factors", "--max-den", "128", "--max-num", "128",
		"--in-rate", "44100", "--out-rate", "48000")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 123, res.Up)
	assert.Equal(t, 113, res.Down)
}

func TestFactorsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no ratio", []string{"factors"}},
		{"bad ratio", []string{"factors", "abc"}},
		{"negative ratio", []string{"factors", "--", "-2"}},
		{"zero bounds", []string{"factors", "1.5", "--max-num", "0"}},
		{"bad output", []string{"factors", "1.5", "-o", "xml"}},
		{"bad log level", []string{"factors", "1.5", "--log-level", "loud"}},
		{"missing config", []string{"--config", "/nonexistent/dsptool.yaml", "factors", "1.5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
		})
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := execute(t, "factors", "1.5", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "factors computed")
}

func TestSpectrumTones(t *testing.T) {
	for _, mode := range []string{modeMagnitude, modeThreeBin} {
		t.Run(mode, func(t *testing.T) {
			out, _, err := execute(t, "spectrum", "--mode", mode,
				"--tone", "3000:10", "--tone", "6000:5", "--tone", "12000:2", "-o", "yaml")
			require.NoError(t, err)

			var res spectrumResult
			require.NoError(t, yaml.Unmarshal([]byte(out), &res))
			assert.Equal(t, 512, res.Bins)
			assert.Equal(t, 12, res.PeakBin)
			assert.InDelta(t, 0.5, res.CoherentGain, 1e-12)

			require.Len(t, res.Tones, 3)
			for i, bin := range []int{12, 24, 48} {
				tone := res.Tones[i]
				assert.Equal(t, bin, tone.Bin)
				assert.InDelta(t, tone.Frequency, tone.BinFrequency, 1e-9)
				assert.InDelta(t, tone.Expected, tone.Measured, 0.1, "tone %.0f Hz", tone.Frequency)
			}
		})
	}
}

func TestSpectrumToneFileAndText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tones.yaml")
	doc := "tones:\n  - frequency: 3000\n    amplitude: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, _, err := execute(t, "spectrum", "--tone-file", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"3000.00", "12", "3000.00", "3.0000"}, strings.Fields(lines[1])[:4])
	assert.True(t, strings.HasPrefix(lines[2], "centroid 3000.00 Hz"), "got %q", lines[2])
}

func TestSpectrumTonesFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsptool.yaml")
	doc := "fft-size: 2048\ntones:\n  - frequency: 6000\n    amplitude: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, _, err := execute(t, "--config", path, "spectrum", "-o", "json")
	require.NoError(t, err)

	var res spectrumResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2048, res.FFTSize)
	require.Len(t, res.Tones, 1)
	assert.Equal(t, 48, res.Tones[0].Bin)
	assert.InDelta(t, 4, res.Tones[0].Measured, 0.05)
	assert.InDelta(t, 6000, res.Shape.CentroidHz, 0.01)
	assert.InDelta(t, 6125, res.Shape.RolloffHz, 0.01)
}

func TestSpectrumErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no tones", []string{"spectrum"}},
		{"bad tone", []string{"spectrum", "--tone", "3000"}},
		{"bad mode", []string{"spectrum", "--tone", "3000:1", "--mode", "cepstrum"}},
		{"bad size", []string{"spectrum", "--tone", "3000:1", "--fft-size", "1000"}},
		{"bad window", []string{"spectrum", "--tone", "3000:1", "--window", "nope"}},
		{"missing tone file", []string{"spectrum", "--tone-file", "/nonexistent/tones.yaml"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
		})
	}
}

func TestFilterLowPassResponse(t *testing.T) {
	out, _, err := execute(t, "filter", "--taps", "101", "--cutoff", "1000", "--sample-rate", "8000",
		"--window", "hann", "--response", "500,1000", "-o", "json")
	require.NoError(t, err)

	var res filterResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Coefficients, 101)
	for i := range 50 {
		assert.InDelta(t, res.Coefficients[i], res.Coefficients[100-i], 1e-15)
	}

	require.Len(t, res.Response, 2)
	assert.InDelta(t, 0, res.Response[0].MagnitudeDB, 0.05)
	assert.InDelta(t, -6.0, res.Response[1].MagnitudeDB, 0.05)
}

func TestFilterTextOutput(t *testing.T) {
	out, _, err := execute(t, "filter", "--type", "bandpass", "--taps", "31", "--centre", "2000",
		"--bandwidth", "500", "--sample-rate", "16000")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 31)
	assert.Equal(t, "0", lines[15])
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"even highpass", []string{"filter", "--type", "highpass", "--taps", "100"}},
		{"even bandstop", []string{"filter", "--type", "bandstop", "--taps", "64"}},
		{"unknown type", []string{"filter", "--type", "comb"}},
		{"cutoff above nyquist", []string{"filter", "--cutoff", "30000"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
		})
	}
}

func writeTestWAV(t *testing.T, path string, rate int, channels [][]float64) {
	t.Helper()

	numCh := len(channels)
	data := make([]int, len(channels[0])*numCh)
	for ch, samples := range channels {
		for i, x := range samples {
			data[i*numCh+ch] = int(math.Round(x * 32767))
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, rate, 16, numCh, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numCh, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

func TestWAV8BitIsUnsigned(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in8.wav")
	out := filepath.Join(dir, "out8.wav")

	raw := []int{128, 192, 64, 255, 0}
	f, err := os.Create(in)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, 8000, 8, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           raw,
		SourceBitDepth: 8,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	p, err := readWAV(in)
	require.NoError(t, err)
	require.Equal(t, 8, p.bitDepth)
	require.Len(t, p.channels, 1)
	assert.InDeltaSlice(t, []float64{0, 0.5, -0.5, 127.0 / 128, -1}, p.channels[0], 1e-12)

	clipped, err := writeWAV(out, p)
	require.NoError(t, err)
	assert.Zero(t, clipped)
	assert.Equal(t, raw, readTestWAV(t, out).Data)
}

func TestWriteWAVRemovesFileOnError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.wav")

	_, err := writeWAV(out, pcm{rate: 8000, bitDepth: 12, channels: [][]float64{{0, 0.25, -0.25}}})
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "partial file left behind: %v", statErr)
}

func TestResampleWAV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")

	const frames = 800
	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/8000)
		right[i] = -left[i]
	}
	writeTestWAV(t, in, 8000, [][]float64{left, right})

	stdout, _, err := execute(t, "resample", "--rate", "16000", "--quality", "fast", "-o", "yaml", in, out)
	require.NoError(t, err)

	var res resampleResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, 16000, res.OutRate)
	assert.Equal(t, 2, res.Up)
	assert.Equal(t, 1, res.Down)
	assert.Equal(t, 2, res.Channels)
	assert.Equal(t, 1600, res.OutFrames)
	assert.Equal(t, 255, res.Taps)
	assert.Zero(t, res.ClippedOut)

	buf := readTestWAV(t, out)
	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
	require.Len(t, buf.Data, 2*1600)

	peak := 0
	for i := 400; i < 1200; i++ {
		l, r := buf.Data[2*i], buf.Data[2*i+1]
		assert.InDelta(t, -l, r, 1)
		peak = max(peak, l)
	}
	assert.InDelta(t, 16384, peak, 16384*0.02)
}

func TestResampleErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeTestWAV(t, in, 8000, [][]float64{make([]float64, 64)})
	notWAV := filepath.Join(dir, "text.wav")
	require.NoError(t, os.WriteFile(notWAV, []byte("not a wav file"), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"missing args", []string{"resample", in}},
		{"missing input", []string{"resample", filepath.Join(dir, "none.wav"), filepath.Join(dir, "o.wav")}},
		{"invalid input", []string{"resample", notWAV, filepath.Join(dir, "o.wav")}},
		{"bad quality", []string{"resample", "--quality", "ultra", in, filepath.Join(dir, "o.wav")}},
		{"bad rate", []string{"resample", "--rate", "-1", in, filepath.Join(dir, "o.wav")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
		})
	}
}

func TestBench(t *testing.T) {
	out, _, err := execute(t, "bench", "--sizes", "64,256", "--iterations", "3", "-o", "yaml")
	require.NoError(t, err)

	var entries []benchEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Less(t, e.MaxDiff, 1e-9, "size %d", e.Size)
		assert.Positive(t, e.Radix2NS)
	}

	_, _, err = execute(t, "bench", "--sizes", "100")
	require.Error(t, err)
}
