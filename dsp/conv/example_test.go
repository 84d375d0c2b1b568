package conv_test

import (
	"fmt"

	"github.com/dac1976/dsp/dsp/conv"
)

func ExampleDirect() {
	y, err := conv.Direct([]float64{1, 2, 3}, []float64{1, 1, 1})
	if err != nil {
		panic(err)
	}

	fmt.Println(y)
	// Output: [1 3 6 5 3]
}

func ExampleFFTConvolver() {
	c, err := conv.NewFFTConvolver64(4, 2)
	if err != nil {
		panic(err)
	}

	y := make([]float64, c.OutputLen())
	if err := c.ConvolveTo(y, []float64{1, 2, 3, 4}, []float64{0.5, 0.5}); err != nil {
		panic(err)
	}

	fmt.Printf("%.2f\n", y)
	fmt.Println(c.FFTSize())
	// Output:
	// [0.50 1.50 2.50 3.50 2.00]
	// 8
}

func ExampleTrim() {
	full := []float64{1, 3, 6, 5, 3}
	fmt.Println(conv.Trim(full, 3, 3, conv.ModeSame))
	fmt.Println(conv.Trim(full, 3, 3, conv.ModeValid))
	// Output:
	// [3 6 5]
	// [6]
}
