package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dac1976/dsp/dsp/signal"
	"github.com/dac1976/dsp/dsp/window"
)

// toneFile is the YAML layout read by --tone-file.
type toneFile struct {
	Tones []signal.ToneParams `yaml:"tones"`
}

// parseTone reads "freq:amp[:phase[:offset]]".
func parseTone(s string) (signal.ToneParams, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return signal.ToneParams{}, fmt.Errorf("invalid tone %q, want freq:amp[:phase[:offset]]", s)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return signal.ToneParams{}, fmt.Errorf("invalid tone %q: %w", s, err)
		}
		vals[i] = v
	}

	return signal.ToneParams{
		Frequency: vals[0],
		Amplitude: vals[1],
		Phase:     vals[2],
		Offset:    vals[3],
	}, nil
}

func readToneFile(path string) ([]signal.ToneParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tone file: %w", err)
	}

	var tf toneFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse tone file %s: %w", path, err)
	}
	return tf.Tones, nil
}

func windowGenerator(name string, beta float64) (window.Generator, error) {
	t, err := window.ParseType(name)
	if err != nil {
		return nil, err
	}
	return t.Generator(window.WithBeta(beta))
}
