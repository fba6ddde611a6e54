package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pde/internal/pde"
)

func parse(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	run, err := Load(parse(t))
	require.NoError(t, err)

	assert.Equal(t, "CALL", run.Kind)
	assert.Equal(t, []pde.OptionKind{pde.Call}, run.Kinds())
	assert.Equal(t, "./out", run.Output.Dir)
	assert.Equal(t, "png", run.Output.PlotFormat)
	assert.Equal(t, 1, run.Log.Verbosity)
	assert.Equal(t, 60.0, run.SpotOrStrike())

	cfg, err := run.PDEConfig(pde.Call)
	require.NoError(t, err)
	want, _ := pde.DefaultConfig(pde.Call)
	assert.Equal(t, want, cfg)
}

func TestLoadFileAndFlagPrecedence(t *testing.T) {
	path := writeFile(t, "run.toml", `
kind = "put"
spot = 55.0

[option]
volatility = 0.3
strike = 50.0
time_steps = 40

[output]
dir = "results"
plot = true
`)

	run, err := Load(parse(t, "--config", path, "--time-steps", "80", "-v", "2"))
	require.NoError(t, err)

	assert.Equal(t, "PUT", run.Kind)
	assert.Equal(t, 55.0, run.SpotOrStrike())
	assert.Equal(t, 0.3, run.Option.Volatility)
	assert.Equal(t, 50.0, run.Option.Strike)
	assert.Equal(t, 80, run.Option.TimeSteps, "flag overrides file")
	assert.Equal(t, 200, run.Option.PriceSteps, "default survives")
	assert.Equal(t, "results", run.Output.Dir)
	assert.True(t, run.Output.Plot)
	assert.Equal(t, 2, run.Log.Verbosity)

	cfg, err := run.PDEConfig(pde.Put)
	require.NoError(t, err)
	assert.Equal(t, pde.Put, cfg.Kind)
	assert.Equal(t, 0.05, cfg.Rate)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", "kind: both\noption:\n  price_steps: 50\n")

	run, err := Load(parse(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, []pde.OptionKind{pde.Call, pde.Put}, run.Kinds())
	assert.Equal(t, 50, run.Option.PriceSteps)
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"kind", []string{"--kind", "straddle"}},
		{"verbosity", []string{"-v", "7"}},
		{"log format", []string{"--log-format", "xml"}},
		{"plot format", []string{"--plot-format", "gif"}},
		{"time steps", []string{"--time-steps", "0"}},
		{"price steps", []string{"--price-steps", "0"}},
		{"negative vol", []string{"--volatility", "-0.1"}},
		{"negative strike", []string{"--strike", "-10"}},
		{"grid bounds", []string{"--smin", "100", "--smax", "50"}},
		{"verify", []string{"--verify", "-1"}},
		{"missing file", []string{"--config", "/nonexistent/run.toml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(parse(t, tc.args...))
			assert.Error(t, err)
		})
	}
}

func TestKindNormalized(t *testing.T) {
	run, err := Load(parse(t, "--kind", " Put "))
	require.NoError(t, err)
	assert.Equal(t, []pde.OptionKind{pde.Put}, run.Kinds())
}

func TestUsageGroupsFlags(t *testing.T) {
	var buf bytes.Buffer
	writeUsage(&buf, "bsm-pde", newFlagGroups())
	header, body, ok := strings.Cut(buf.String(), "\n")
	require.True(t, ok)
	assert.Equal(t, "Usage: bsm-pde [--kind call|put|both] [flags]", header)

	last := 0
	for _, section := range []string{"Run:", "--kind", "Model:", "--strike", "Output:", "--plot", "Logging:", "-v, --verbosity"} {
		i := strings.Index(body, section)
		require.GreaterOrEqual(t, i, last, "%s out of order", section)
		last = i
	}
}

func TestKindOnlyInvocation(t *testing.T) {
	run, err := Load(parse(t, "--kind", "put"))
	require.NoError(t, err)
	assert.Equal(t, []pde.OptionKind{pde.Put}, run.Kinds())
	assert.False(t, run.Output.Plot)
	assert.Zero(t, run.Verify)
	assert.Empty(t, run.Output.MetricsFile)
}
