// Command dsptool exposes the dsp packages on the command line.
//
// Usage:
//
//	dsptool [command] [flags]
//
// Examples:
//
//	dsptool factors 1.088
//	dsptool factors --in-rate 44100 --out-rate 48000 --max-num 1000 --max-den 1000
//	dsptool spectrum --tone 3000:10 --tone 6000:5 --mode 3bin -o yaml
//	dsptool filter --type bandpass --taps 65 --centre 1000 --bandwidth 200
//	dsptool resample --rate 48000 in.wav out.wav
//	dsptool bench --sizes 1024,4096
//
// Flags can also be set in a YAML config file (--config, or dsptool.yaml in
// the working directory) and through DSPTOOL_* environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
