package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type format int

const (
	formatText format = iota
	formatYAML
	formatJSON
)

func parseFormat(s string) (format, error) {
	switch s {
	case "", "text", "table":
		return formatText, nil
	case "yaml", "yml":
		return formatYAML, nil
	case "json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want text, yaml or json)", s)
	}
}

// emit writes result in the selected format. text renders the plain form.
func (a *app) emit(w io.Writer, result any, text func(io.Writer) error) error {
	f, err := parseFormat(a.outputFormat)
	if err != nil {
		return err
	}

	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return text(w)
	}
}
