package fir

import (
	"errors"
	"testing"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/signal"
	"github.com/dac1976/dsp/dsp/window"
	"github.com/dac1976/dsp/internal/testutil"
	timestats "github.com/dac1976/dsp/stats/time"
)

const (
	testRate    = 2000.0
	testSamples = 2000
)

var testTones = []signal.ToneParams{
	{Amplitude: 10, Frequency: 50},
	{Amplitude: 5, Frequency: 150},
	{Amplitude: 2, Frequency: 500},
}

func TestHolderLowPassIsolatesTone(t *testing.T) {
	input, err := signal.MultiTone[float64](testTones, testRate, testSamples)
	if err != nil {
		t.Fatal(err)
	}
	want, err := signal.Tone[float64](testTones[0], testRate, testSamples)
	if err != nil {
		t.Fatal(err)
	}

	coeffs, err := LowPass(451, 100.0, testRate, window.Kaiser{Beta: 10})
	if err != nil {
		t.Fatal(err)
	}

	for _, fast := range []bool{true, false} {
		h, err := NewHolder64(testSamples, coeffs, fast)
		if err != nil {
			t.Fatal(err)
		}
		if h.UsesFFT() != fast {
			t.Fatalf("UsesFFT = %v, want %v", h.UsesFFT(), fast)
		}

		got, err := h.Apply(input, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != testSamples {
			t.Fatalf("len = %d, want %d", len(got), testSamples)
		}

		g := timestats.Summarize(got[100:1100])
		w := timestats.Summarize(want[100:1100])

		if !almostEqual(g.Min, w.Min, 0.1) || !almostEqual(g.Max, w.Max, 0.1) {
			t.Errorf("fast=%v: extremes %v/%v, want %v/%v", fast, g.Min, g.Max, w.Min, w.Max)
		}
		if !almostEqual(g.Mean, w.Mean, 0.01) || !almostEqual(g.StdDev, w.StdDev, 0.01) {
			t.Errorf("fast=%v: mean/std %v/%v, want %v/%v", fast, g.Mean, g.StdDev, w.Mean, w.StdDev)
		}
	}
}

func TestHolderFastMatchesDirect(t *testing.T) {
	input, err := signal.WhiteNoise[float64](1, 300, 7)
	if err != nil {
		t.Fatal(err)
	}
	coeffs, err := BandPass(65, 200.0, 100.0, 1000.0, window.Blackman)
	if err != nil {
		t.Fatal(err)
	}

	direct, err := NewHolder64(len(input), coeffs, false)
	if err != nil {
		t.Fatal(err)
	}
	fast, err := NewHolder64(len(input), coeffs, true)
	if err != nil {
		t.Fatal(err)
	}

	for _, removeDelay := range []bool{false, true} {
		a, err := direct.Apply(input, removeDelay)
		if err != nil {
			t.Fatal(err)
		}
		b, err := fast.Apply(input, removeDelay)
		if err != nil {
			t.Fatal(err)
		}
		if len(a) != direct.OutputLen(removeDelay) || len(a) != len(b) {
			t.Fatalf("lengths %d/%d, want %d", len(a), len(b), direct.OutputLen(removeDelay))
		}
		for i := range a {
			if !almostEqual(a[i], b[i], 1e-10) {
				t.Fatalf("removeDelay=%v [%d]: direct %v, fast %v", removeDelay, i, a[i], b[i])
			}
		}
	}
}

func TestHolderImpulseResponse(t *testing.T) {
	coeffs, err := HighPass(15, 300.0, 1000.0, window.Hamming)
	if err != nil {
		t.Fatal(err)
	}

	for _, fast := range []bool{false, true} {
		h, err := NewHolder64(32, coeffs, fast)
		if err != nil {
			t.Fatal(err)
		}
		full, err := h.Apply(testutil.Impulse[float64](32, 0), false)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireFinite(t, full)
		testutil.RequireSliceNearlyEqual(t, full[:len(coeffs)], coeffs, 1e-12)

		tail := full[len(coeffs):]
		testutil.RequireSliceNearlyEqual(t, tail, make([]float64, len(tail)), 1e-12)
	}
}

func TestHolderDelayRemoval(t *testing.T) {
	coeffs := []float64{0.25, 0.5, 0.25}
	h, err := NewHolder64(5, coeffs, false)
	if err != nil {
		t.Fatal(err)
	}

	full, err := h.Apply([]float64{0, 0, 4, 0, 0}, false)
	if err != nil {
		t.Fatal(err)
	}
	wantFull := []float64{0, 0, 1, 2, 1, 0, 0}
	for i := range wantFull {
		if full[i] != wantFull[i] {
			t.Fatalf("full = %v, want %v", full, wantFull)
		}
	}

	// dst aliases src.
	buf := []float64{0, 0, 4, 0, 0}
	if err := h.ApplyTo(buf, buf, true); err != nil {
		t.Fatal(err)
	}
	wantSame := []float64{0, 1, 2, 1, 0}
	for i := range wantSame {
		if buf[i] != wantSame[i] {
			t.Fatalf("same = %v, want %v", buf, wantSame)
		}
	}
}

func TestHolderFloat32(t *testing.T) {
	coeffs, err := LowPass[float32](31, 100, 1000, window.Hamming)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHolder32(64, coeffs, true)
	if err != nil {
		t.Fatal(err)
	}

	dc := make([]float32, 64)
	for i := range dc {
		dc[i] = 1
	}
	out, err := h.Apply(dc, true)
	if err != nil {
		t.Fatal(err)
	}
	// Away from the edges a low-pass passes DC at its coefficient sum.
	var sum float64
	for _, c := range coeffs {
		sum += float64(c)
	}
	if !almostEqual(float64(out[32]), sum, 1e-5) {
		t.Fatalf("out[32] = %v, want %v", out[32], sum)
	}
}

func TestHolderAccessors(t *testing.T) {
	coeffs := []float64{1, 2, 3}
	h, err := NewHolder64(10, coeffs, true)
	if err != nil {
		t.Fatal(err)
	}
	coeffs[0] = 99

	if h.SignalLen() != 10 || h.Taps() != 3 {
		t.Fatalf("SignalLen/Taps = %d/%d", h.SignalLen(), h.Taps())
	}
	if h.OutputLen(false) != 12 || h.OutputLen(true) != 10 {
		t.Fatalf("OutputLen = %d/%d", h.OutputLen(false), h.OutputLen(true))
	}
	got := h.Coefficients()
	if got[0] != 1 {
		t.Fatal("NewHolder did not copy coefficients")
	}
	got[1] = 99
	if h.Coefficients()[1] != 2 {
		t.Fatal("Coefficients did not return a copy")
	}
}

func TestHolderErrors(t *testing.T) {
	if _, err := NewHolder64(2, []float64{1}, false); !errors.Is(err, ErrInvalidSignalLength) {
		t.Errorf("short signal: err = %v", err)
	}
	if _, err := NewHolder64(8, nil, true); !errors.Is(err, ErrEmptyCoefficients) {
		t.Errorf("empty coeffs: err = %v", err)
	}

	h, err := NewHolder64(8, []float64{1, 1}, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyTo(make([]float64, 9), make([]float64, 7), false); !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("short src: err = %v", err)
	}
	if err := h.ApplyTo(make([]float64, 9), make([]float64, 8), true); !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("dst sized for full output with delay removal: err = %v", err)
	}
	if _, err := h.Apply(make([]float64, 9), false); err == nil {
		t.Error("long src accepted")
	}
}

func BenchmarkHolder(b *testing.B) {
	input, err := signal.MultiTone[float64](testTones, testRate, 4096)
	if err != nil {
		b.Fatal(err)
	}
	coeffs, err := LowPass(255, 100.0, testRate, window.Kaiser{Beta: 8})
	if err != nil {
		b.Fatal(err)
	}

	for _, fast := range []bool{false, true} {
		name := "direct"
		if fast {
			name = "fft"
		}
		b.Run(name, func(b *testing.B) {
			h, err := NewHolder64(len(input), coeffs, fast)
			if err != nil {
				b.Fatal(err)
			}
			dst := make([]float64, len(input))
			b.ReportAllocs()
			b.SetBytes(int64(len(input) * 8))

			for b.Loop() {
				if err := h.ApplyTo(dst, input, true); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestHolderApplyToDoesNotAllocate(t *testing.T) {
	input, err := signal.MultiTone[float64](testTones, testRate, testSamples)
	if err != nil {
		t.Fatal(err)
	}
	coeffs, err := LowPass(255, 100.0, testRate, window.Kaiser{Beta: 8})
	if err != nil {
		t.Fatal(err)
	}

	for _, fast := range []bool{true, false} {
		h, err := NewHolder64(testSamples, coeffs, fast)
		if err != nil {
			t.Fatal(err)
		}
		dst := make([]float64, h.OutputLen(true))

		allocs := testing.AllocsPerRun(20, func() {
			_ = h.ApplyTo(dst, input, true)
		})
		if allocs != 0 {
			t.Errorf("fast=%v: expected zero allocations for ApplyTo, got %f", fast, allocs)
		}
	}
}
