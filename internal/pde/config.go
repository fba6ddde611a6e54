package pde

import (
	"fmt"
	"math"
	"strings"
)

// OptionKind selects the payoff of a European option.
type OptionKind string

const (
	Call OptionKind = "CALL"
	Put  OptionKind = "PUT"
)

// ParseKind accepts "CALL" or "PUT" in any letter case.
func ParseKind(s string) (OptionKind, error) {
	switch k := OptionKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case Call, Put:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Config holds every input of a run. It is passed by value and never
// mutated by the solver.
type Config struct {
	Rate       float64    `mapstructure:"rate" json:"rate"`               // risk-free rate (annual)
	Volatility float64    `mapstructure:"volatility" json:"volatility"`   // annual volatility, as a decimal
	Maturity   float64    `mapstructure:"maturity" json:"maturity"`       // years
	Kind       OptionKind `mapstructure:"kind" json:"kind"`               // CALL or PUT
	Strike     float64    `mapstructure:"strike" json:"strike"`           // strike price
	SMin       float64    `mapstructure:"smin" json:"smin"`               // lowest underlying price on the grid
	SMax       float64    `mapstructure:"smax" json:"smax"`               // highest underlying price on the grid
	TimeSteps  int        `mapstructure:"time_steps" json:"time_steps"`   // N
	PriceSteps int        `mapstructure:"price_steps" json:"price_steps"` // M
}

// DefaultConfig returns the standard parameter set for the given kind.
func DefaultConfig(kind OptionKind) (Config, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Rate:       0.05,
		Volatility: 0.20,
		Maturity:   1.0,
		Kind:       k,
		Strike:     60,
		SMin:       0,
		SMax:       100,
		TimeSteps:  100,
		PriceSteps: 200,
	}, nil
}

// Dt is the time step size.
func (c Config) Dt() float64 { return c.Maturity / float64(c.TimeSteps) }

// Ds is the price step size.
func (c Config) Ds() float64 { return (c.SMax - c.SMin) / float64(c.PriceSteps) }

// IsCall reports whether the configuration prices a call.
func (c Config) IsCall() bool { return c.Kind == Call }

// Validate checks the invariants the grid and operators rely on.
func (c Config) Validate() error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	switch {
	case c.TimeSteps < 1:
		return fmt.Errorf("%w: time_steps must be >= 1, got %d", ErrInvalidConfig, c.TimeSteps)
	case c.PriceSteps < 1:
		return fmt.Errorf("%w: price_steps must be >= 1, got %d", ErrInvalidConfig, c.PriceSteps)
	case !finite(c.SMin) || !finite(c.SMax) || !finite(c.Strike):
		return fmt.Errorf("%w: smin, smax and strike must be finite", ErrInvalidConfig)
	case c.Strike < 0:
		return fmt.Errorf("%w: strike must be >= 0, got %g", ErrInvalidConfig, c.Strike)
	case c.SMax <= c.SMin:
		return fmt.Errorf("%w: smax (%g) must exceed smin (%g)", ErrInvalidConfig, c.SMax, c.SMin)
	case !nonNegative(c.Rate):
		return fmt.Errorf("%w: rate must be finite and >= 0, got %g", ErrInvalidConfig, c.Rate)
	case !nonNegative(c.Volatility):
		return fmt.Errorf("%w: volatility must be finite and >= 0, got %g", ErrInvalidConfig, c.Volatility)
	case !nonNegative(c.Maturity):
		return fmt.Errorf("%w: maturity must be finite and >= 0, got %g", ErrInvalidConfig, c.Maturity)
	}
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func nonNegative(x float64) bool { return finite(x) && x >= 0 }
