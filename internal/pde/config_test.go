package pde_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pde/internal/pde"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]pde.OptionKind{"CALL": pde.Call, "call": pde.Call, " Put ": pde.Put} {
		got, err := pde.ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := pde.ParseKind("STRADDLE")
	assert.ErrorIs(t, err, pde.ErrInvalidKind)
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := pde.DefaultConfig(pde.Call)
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Rate)
	assert.Equal(t, 0.20, cfg.Volatility)
	assert.Equal(t, 1.0, cfg.Maturity)
	assert.Equal(t, 60.0, cfg.Strike)
	assert.Equal(t, 0.0, cfg.SMin)
	assert.Equal(t, 100.0, cfg.SMax)
	assert.Equal(t, 100, cfg.TimeSteps)
	assert.Equal(t, 200, cfg.PriceSteps)
	assert.InDelta(t, 0.01, cfg.Dt(), 1e-15)
	assert.InDelta(t, 0.5, cfg.Ds(), 1e-15)
	assert.NoError(t, cfg.Validate())

	_, err = pde.DefaultConfig("BINARY")
	assert.ErrorIs(t, err, pde.ErrInvalidKind)
}

func TestConfigValidate(t *testing.T) {
	base, err := pde.DefaultConfig(pde.Put)
	require.NoError(t, err)

	cases := map[string]func(c *pde.Config){
		"zero time steps":   func(c *pde.Config) { c.TimeSteps = 0 },
		"zero price steps":  func(c *pde.Config) { c.PriceSteps = 0 },
		"inverted domain":   func(c *pde.Config) { c.SMax = c.SMin },
		"negative rate":     func(c *pde.Config) { c.Rate = -0.01 },
		"negative vol":      func(c *pde.Config) { c.Volatility = -0.2 },
		"negative maturity": func(c *pde.Config) { c.Maturity = -1 },
		"nan volatility":    func(c *pde.Config) { c.Volatility = math.NaN() },
		"infinite strike":   func(c *pde.Config) { c.Strike = math.Inf(1) },
		"negative strike":   func(c *pde.Config) { c.Strike = -10 },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), pde.ErrInvalidConfig, name)
	}

	cfg := base
	cfg.Kind = "FORWARD"
	assert.ErrorIs(t, cfg.Validate(), pde.ErrInvalidKind)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	s, err := pde.New("SWAPTION")
	assert.ErrorIs(t, err, pde.ErrInvalidKind)
	assert.Nil(t, s)
}
