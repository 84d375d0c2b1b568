package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/dac1976/dsp/dsp/core"
	"github.com/dac1976/dsp/dsp/signal"
	"github.com/dac1976/dsp/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "simple 3x3",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3, 4, 5},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
		{
			name:     "kernel longer than signal",
			a:        []float64{2},
			b:        []float64{1, -1, 0.5},
			expected: []float64{2, -2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, result, tt.expected, 1e-10)
		})
	}
}

func TestDirectErrors(t *testing.T) {
	_, err := Direct([]float64{}, []float64{1, 2})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	_, err = Direct([]float64{1, 2}, []float64{})
	if !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("expected core.ErrEmptyInput, got %v", err)
	}

	err = DirectTo(make([]float32, 3), []float32{1, 2}, []float32{1, 2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestDirectMatchesKernel(t *testing.T) {
	a := testSignal(t, 300)
	b := testSignal(t, 37)

	want, err := core.Convolve(a, b)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]float64, len(want))
	if err := DirectTo(got, a, b); err != nil {
		t.Fatalf("DirectTo() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestFFTConvolverMatchesDirect(t *testing.T) {
	tests := []struct {
		signalLen int
		kernelLen int
	}{
		{signalLen: 1, kernelLen: 1},
		{signalLen: 16, kernelLen: 3},
		{signalLen: 1001, kernelLen: 451},
		{signalLen: 4096, kernelLen: 1001},
	}

	for _, tt := range tests {
		a := testSignal(t, tt.signalLen)
		b := testSignal(t, tt.kernelLen)

		want, err := core.Convolve(a, b)
		if err != nil {
			t.Fatal(err)
		}

		c, err := NewFFTConvolver64(tt.signalLen, tt.kernelLen)
		if err != nil {
			t.Fatalf("NewFFTConvolver64() error = %v", err)
		}
		if c.OutputLen() != len(want) {
			t.Fatalf("OutputLen() = %d, want %d", c.OutputLen(), len(want))
		}
		if !core.IsPowerOf2(c.FFTSize()) || c.FFTSize() < c.OutputLen() || c.FFTSize() >= 2*c.OutputLen() && c.OutputLen() > 1 {
			t.Fatalf("FFTSize() = %d for output %d", c.FFTSize(), c.OutputLen())
		}

		got := make([]float64, c.OutputLen())
		if err := c.ConvolveTo(got, a, b); err != nil {
			t.Fatalf("ConvolveTo() error = %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestFFTConvolverFloat32(t *testing.T) {
	a64 := testSignal(t, 500)
	b64 := testSignal(t, 101)

	want, err := core.Convolve(a64, b64)
	if err != nil {
		t.Fatal(err)
	}

	a := make([]float32, len(a64))
	for i, v := range a64 {
		a[i] = float32(v)
	}
	b := make([]float32, len(b64))
	for i, v := range b64 {
		b[i] = float32(v)
	}

	c, err := NewFFTConvolver32(len(a), len(b))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Convolve(a, b)
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}

	for i := range want {
		if math.Abs(float64(got[i])-want[i]) > 1e-3 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFFTConvolverShorterInputsAndReuse(t *testing.T) {
	c, err := NewFFTConvolver64(8, 4)
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float64, c.OutputLen())
	if err := c.ConvolveTo(dst, []float64{1, 2, 3}, []float64{1, 1}); err != nil {
		t.Fatalf("ConvolveTo() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, dst, []float64{1, 3, 5, 3, 0, 0, 0, 0, 0, 0, 0}, 1e-12)

	if err := c.PrepareKernel([]float64{0, 1}); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := c.ConvolvePreparedTo(dst, []float64{4, 5}); err != nil {
			t.Fatalf("ConvolvePreparedTo() error = %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, dst, []float64{0, 4, 5, 0, 0, 0, 0, 0, 0, 0, 0}, 1e-12)
	}
}

func TestFFTConvolverErrors(t *testing.T) {
	if _, err := NewFFTConvolver64(0, 4); !errors.Is(err, core.ErrInvalidSize) {
		t.Fatalf("NewFFTConvolver64(0, 4) error = %v", err)
	}

	c, err := NewFFTConvolver64(4, 2)
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float64, c.OutputLen())
	if err := c.ConvolvePreparedTo(dst, []float64{1}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("unprepared error = %v", err)
	}
	if err := c.ConvolveTo(dst, []float64{1}, []float64{1, 2, 3}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("long kernel error = %v", err)
	}
	if err := c.ConvolveTo(dst, make([]float64, 5), []float64{1}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("long signal error = %v", err)
	}
	if err := c.ConvolveTo(dst[:2], []float64{1}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short dst error = %v", err)
	}
	if err := c.ConvolveTo(dst, nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("empty signal error = %v", err)
	}
	if err := c.ConvolveTo(dst, []float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("empty kernel error = %v", err)
	}
}

func TestConvolveAutoSelection(t *testing.T) {
	a := testSignal(t, 2000)

	for _, kernelLen := range []int{5, directThreshold, directThreshold + 1, 451} {
		b := testSignal(t, kernelLen)

		want, err := core.Convolve(a, b)
		if err != nil {
			t.Fatal(err)
		}

		got, err := Convolve(a, b)
		if err != nil {
			t.Fatalf("Convolve() error = %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)

		swapped, err := Convolve(b, a)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, swapped, want, 1e-9)
	}
}

func TestTrim(t *testing.T) {
	full := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		mode Mode
		lenA int
		lenB int
		want []int
	}{
		{mode: ModeFull, lenA: 5, lenB: 3, want: full},
		{mode: ModeSame, lenA: 5, lenB: 3, want: []int{1, 2, 3, 4, 5}},
		{mode: ModeValid, lenA: 5, lenB: 3, want: []int{2, 3, 4}},
		{mode: ModeValid, lenA: 3, lenB: 5, want: []int{2, 3, 4}},
		{mode: ModeSame, lenA: 4, lenB: 4, want: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := Trim(full, tt.lenA, tt.lenB, tt.mode)
			if len(got) != len(tt.want) {
				t.Fatalf("Trim() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Trim() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestConvolveModeSameRemovesDelay(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	kernel := []float64{0, 0, 1, 0, 0}

	got, err := ConvolveMode(a, kernel, ModeSame)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, a, 1e-12)
}

func TestCorrelate(t *testing.T) {
	a := []float64{0, 0, 1, 2, 1, 0}
	b := []float64{1, 2, 1}

	got, err := Correlate(a, b)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i, v := range got {
		if v > got[peak] {
			peak = i
		}
	}

	if lag := IndexToLag(peak, len(b)); lag != 2 {
		t.Fatalf("peak lag = %d, want 2", lag)
	}
	if LagToIndex(2, len(b)) != peak {
		t.Fatalf("LagToIndex(2) = %d, want %d", LagToIndex(2, len(b)), peak)
	}

	valid, err := CorrelateMode(a, b, ModeValid)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, valid, []float64{1, 4, 6, 4}, 1e-12)
}

func TestAutoCorrelate(t *testing.T) {
	got, err := AutoCorrelate([]float32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if got[2] != 1 {
		t.Fatalf("zero lag = %v, want 1", got[2])
	}
	if got[0] != got[4] {
		t.Fatalf("auto-correlation not symmetric: %v", got)
	}
}

func testSignal(t testing.TB, n int) []float64 {
	t.Helper()

	x, err := signal.WhiteNoise[float64](1, n, int64(n))
	if err != nil {
		t.Fatal(err)
	}

	return x
}

func TestFFTConvolverPreparedDoesNotAllocate(t *testing.T) {
	a := testSignal(t, 1001)
	b := testSignal(t, 451)

	c, err := NewFFTConvolver64(len(a), len(b))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.PrepareKernel(b); err != nil {
		t.Fatal(err)
	}
	dst := make([]float64, c.OutputLen())

	allocs := testing.AllocsPerRun(50, func() {
		_ = c.ConvolvePreparedTo(dst, a)
	})
	if allocs != 0 {
		t.Fatalf("expected zero allocations for ConvolvePreparedTo, got %f", allocs)
	}
}
