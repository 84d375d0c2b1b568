package window

import (
	"fmt"
	"strings"
)

// DefaultKaiserBeta is the Kaiser shape used when WithBeta is not given.
const DefaultKaiserBeta = 8.0

// Type identifies a built-in generator by name.
type Type int

const (
	TypeRectangle Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeExactBlackman
	TypeBartlett
	TypeKaiser
	TypeLanczos
	TypeFlatTop1
	TypeFlatTop2
	TypeFlatTop3
	TypeFlatTop4
	TypeFlatTop5
	TypeFlatTop6
	TypeFlatTop7
	typeCount
)

var typeNames = [typeCount]string{
	TypeRectangle:     "Rectangle",
	TypeHann:          "Hann",
	TypeHamming:       "Hamming",
	TypeBlackman:      "Blackman",
	TypeExactBlackman: "ExactBlackman",
	TypeBartlett:      "Bartlett",
	TypeKaiser:        "Kaiser",
	TypeLanczos:       "Lanczos",
	TypeFlatTop1:      "FlatTop1",
	TypeFlatTop2:      "FlatTop2",
	TypeFlatTop3:      "FlatTop3",
	TypeFlatTop4:      "FlatTop4",
	TypeFlatTop5:      "FlatTop5",
	TypeFlatTop6:      "FlatTop6",
	TypeFlatTop7:      "FlatTop7",
}

var typeAliases = map[string]Type{
	"rectangular": TypeRectangle,
	"boxcar":      TypeRectangle,
	"hanning":     TypeHann,
	"triangle":    TypeBartlett,
	"flattop":     TypeFlatTop1,
}

// String returns the canonical name of t.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Types lists every built-in type in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// ParseType resolves a window name. Matching ignores case, spaces,
// hyphens and underscores, so "exact-blackman" and "ExactBlackman" agree.
func ParseType(name string) (Type, error) {
	key := normaliseName(name)

	for i, n := range typeNames {
		if normaliseName(n) == key {
			return Type(i), nil
		}
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func normaliseName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Option configures Type.Generator.
type Option func(*config)

type config struct {
	beta float64
}

func defaultConfig() config {
	return config{beta: DefaultKaiserBeta}
}

// WithBeta sets the Kaiser shape parameter.
func WithBeta(beta float64) Option {
	return func(c *config) {
		c.beta = beta
	}
}

// Generator returns the generator for t.
func (t Type) Generator(opts ...Option) (Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch t {
	case TypeRectangle:
		return Rectangle, nil
	case TypeHann:
		return Hann, nil
	case TypeHamming:
		return Hamming, nil
	case TypeBlackman:
		return Blackman, nil
	case TypeExactBlackman:
		return ExactBlackman, nil
	case TypeBartlett:
		return Bartlett, nil
	case TypeKaiser:
		if err := validateBeta(cfg.beta); err != nil {
			return nil, err
		}
		return Kaiser{Beta: cfg.beta}, nil
	case TypeLanczos:
		return Lanczos, nil
	case TypeFlatTop1:
		return FlatTop1, nil
	case TypeFlatTop2:
		return FlatTop2, nil
	case TypeFlatTop3:
		return FlatTop3, nil
	case TypeFlatTop4:
		return FlatTop4, nil
	case TypeFlatTop5:
		return FlatTop5, nil
	case TypeFlatTop6:
		return FlatTop6, nil
	case TypeFlatTop7:
		return FlatTop7, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
}
