package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dac1976/dsp/dsp/resample"
)

type factorsOptions struct {
	inRate  float64
	outRate float64
	maxNum  int
	maxDen  int
}

type factorsResult struct {
	Ratio    float64 `yaml:"ratio" json:"ratio"`
	Up       int     `yaml:"up" json:"up"`
	Down     int     `yaml:"down" json:"down"`
	Achieved float64 `yaml:"achieved" json:"achieved"`
	Error    float64 `yaml:"error" json:"error"`
}

func newFactorsCmd(a *app) *cobra.Command {
	opts := factorsOptions{}

	cmd := &cobra.Command{
		Use:   "factors [ratio]",
		Short: "Approximate a resampling ratio by up/down factors",
		Long: `Find the integer factors up/down closest to a resampling ratio.

The ratio is given directly or as --out-rate / --in-rate. The search is
bounded by --max-num and --max-den.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ratio, err := opts.ratio(args)
			if err != nil {
				return err
			}
			return a.runFactors(cmd.OutOrStdout(), ratio, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.inRate, "in-rate", 0, "input sample rate in Hz")
	f.Float64Var(&opts.outRate, "out-rate", 0, "output sample rate in Hz")
	f.IntVar(&opts.maxNum, "max-num", resample.DefaultMaxNumerator, "largest up factor")
	f.IntVar(&opts.maxDen, "max-den", resample.DefaultMaxDenominator, "largest down factor")

	return cmd
}

func (o factorsOptions) ratio(args []string) (float64, error) {
	if len(args) == 1 {
		r, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ratio %q: %w", args[0], err)
		}
		return r, nil
	}
	if o.inRate > 0 && o.outRate > 0 {
		return o.outRate / o.inRate, nil
	}
	return 0, errors.New("give a ratio argument or both --in-rate and --out-rate")
}

func (a *app) runFactors(w io.Writer, ratio float64, opts factorsOptions) error {
	up, down, err := resample.ComputeFactors(ratio, opts.maxNum, opts.maxDen)
	if err != nil {
		return err
	}

	achieved := float64(up) / float64(down)
	res := factorsResult{
		Ratio:    ratio,
		Up:       up,
		Down:     down,
		Achieved: achieved,
		Error:    math.Abs(achieved - ratio),
	}

	a.log.Info("factors computed",
		zap.Float64("ratio", ratio),
		zap.Int("up", up),
		zap.Int("down", down),
		zap.Float64("error", res.Error),
	)

	return a.emit(w, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d/%d (ratio %.10g, error %.3g)\n", up, down, ratio, res.Error)
		return err
	})
}
