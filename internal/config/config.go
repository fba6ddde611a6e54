// Package config loads a run configuration from defaults, an optional
// TOML/YAML/JSON file and command-line flags, in increasing precedence.
// Environment variables are not consulted.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/contactkeval/option-pde/internal/pde"
)

// KindBoth prices a call and a put in the same run.
const KindBoth = "BOTH"

// Run is the top-level configuration of one CLI invocation.
type Run struct {
	Kind   string       `mapstructure:"kind"   validate:"required,oneof=CALL PUT BOTH"`
	Spot   float64      `mapstructure:"spot"   validate:"gte=0"` // 0 means the strike
	Verify float64      `mapstructure:"verify" validate:"gte=0"` // dense cross-check tolerance, 0 = off
	Option OptionParams `mapstructure:"option"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// OptionParams are the market and grid inputs shared by every kind.
type OptionParams struct {
	Rate       float64 `mapstructure:"rate"        validate:"gte=0"`
	Volatility float64 `mapstructure:"volatility"  validate:"gte=0"`
	Maturity   float64 `mapstructure:"maturity"    validate:"gte=0"`
	Strike     float64 `mapstructure:"strike"      validate:"gte=0"`
	SMin       float64 `mapstructure:"smin"`
	SMax       float64 `mapstructure:"smax"        validate:"gtfield=SMin"`
	TimeSteps  int     `mapstructure:"time_steps"  validate:"min=1"`
	PriceSteps int     `mapstructure:"price_steps" validate:"min=1"`
}

// OutputConfig selects what is written after a run.
type OutputConfig struct {
	Dir         string `mapstructure:"dir"          validate:"required"`
	Plot        bool   `mapstructure:"plot"`
	PlotFormat  string `mapstructure:"plot_format"  validate:"oneof=png svg pdf"`
	MetricsFile string `mapstructure:"metrics_file"`
}

// LogConfig mirrors logger.Options.
type LogConfig struct {
	Verbosity  int    `mapstructure:"verbosity"    validate:"gte=0,lte=3"`
	Format     string `mapstructure:"format"       validate:"oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"kind":         "kind",
	"spot":         "spot",
	"verify":       "verify",
	"rate":         "option.rate",
	"volatility":   "option.volatility",
	"maturity":     "option.maturity",
	"strike":       "option.strike",
	"smin":         "option.smin",
	"smax":         "option.smax",
	"time-steps":   "option.time_steps",
	"price-steps":  "option.price_steps",
	"out":          "output.dir",
	"plot":         "output.plot",
	"plot-format":  "output.plot_format",
	"metrics-file": "output.metrics_file",
	"verbosity":    "log.verbosity",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

// flagGroup is one titled section of the usage text.
type flagGroup struct {
	title string
	set   *pflag.FlagSet
}

// newFlagGroups declares every flag. Only --kind is needed for a default
// run; the other groups override file or built-in settings.
func newFlagGroups() []flagGroup {
	d, _ := pde.DefaultConfig(pde.Call)
	group := func(title string) flagGroup {
		return flagGroup{title: title, set: pflag.NewFlagSet(title, pflag.ContinueOnError)}
	}

	run := group("Run")
	run.set.String("kind", "CALL", "option kind: call, put or both")
	run.set.String("config", "", "path to a TOML, YAML or JSON run file")

	model := group("Model")
	model.set.Float64("rate", d.Rate, "risk-free rate")
	model.set.Float64("volatility", d.Volatility, "volatility")
	model.set.Float64("maturity", d.Maturity, "maturity in years")
	model.set.Float64("strike", d.Strike, "strike price")
	model.set.Float64("smin", d.SMin, "lowest underlying price on the grid")
	model.set.Float64("smax", d.SMax, "highest underlying price on the grid")
	model.set.Int("time-steps", d.TimeSteps, "number of time steps N")
	model.set.Int("price-steps", d.PriceSteps, "number of price steps M")

	output := group("Output")
	output.set.String("out", "./out", "output directory")
	output.set.Float64("spot", 0, "underlying price to summarize (default: strike)")
	output.set.Bool("plot", false, "render surface and slice plots")
	output.set.String("plot-format", "png", "plot image format: png, svg or pdf")
	output.set.String("metrics-file", "", "write Prometheus metrics to this textfile")
	output.set.Float64("verify", 0, "cross-check every step against a dense solve with this tolerance (0 = off)")

	logging := group("Logging")
	logging.set.IntP("verbosity", "v", 1, "0=errors, 1=info, 2=debug, 3=trace")
	logging.set.String("log-format", "text", "log format: text or json")
	logging.set.String("log-file", "", "log to a rotating file instead of stderr")

	return []flagGroup{run, model, output, logging}
}

// RegisterFlags declares the CLI flags on fs and installs a usage
// function that prints them by group.
func RegisterFlags(fs *pflag.FlagSet) {
	groups := newFlagGroups()
	for _, g := range groups {
		fs.AddFlagSet(g.set)
	}
	fs.SortFlags = false
	fs.Usage = func() { writeUsage(os.Stderr, fs.Name(), groups) }
}

func writeUsage(w io.Writer, name string, groups []flagGroup) {
	fmt.Fprintf(w, "Usage: %s [--kind call|put|both] [flags]\n", name)
	for _, g := range groups {
		g.set.SortFlags = false
		fmt.Fprintf(w, "\n%s:\n%s", g.title, g.set.FlagUsages())
	}
}

func setDefaults(v *viper.Viper) {
	d, _ := pde.DefaultConfig(pde.Call)

	v.SetDefault("kind", "CALL")
	v.SetDefault("spot", 0.0)
	v.SetDefault("verify", 0.0)
	v.SetDefault("option.rate", d.Rate)
	v.SetDefault("option.volatility", d.Volatility)
	v.SetDefault("option.maturity", d.Maturity)
	v.SetDefault("option.strike", d.Strike)
	v.SetDefault("option.smin", d.SMin)
	v.SetDefault("option.smax", d.SMax)
	v.SetDefault("option.time_steps", d.TimeSteps)
	v.SetDefault("option.price_steps", d.PriceSteps)
	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.plot", false)
	v.SetDefault("output.plot_format", "png")
	v.SetDefault("log.verbosity", 1)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads the run configuration. fs must have been populated by
// RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (*Run, error) {
	v := viper.New()
	setDefaults(v)

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var run Run
	if err := v.Unmarshal(&run); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	run.Kind = strings.ToUpper(strings.TrimSpace(run.Kind))
	run.Output.PlotFormat = strings.ToLower(run.Output.PlotFormat)
	run.Log.Format = strings.ToLower(run.Log.Format)

	if err := validator.New().Struct(&run); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &run, nil
}

// Kinds lists the option kinds the run prices.
func (r *Run) Kinds() []pde.OptionKind {
	if r.Kind == KindBoth {
		return []pde.OptionKind{pde.Call, pde.Put}
	}
	return []pde.OptionKind{pde.OptionKind(r.Kind)}
}

// PDEConfig builds the solver configuration for kind.
func (r *Run) PDEConfig(kind pde.OptionKind) (pde.Config, error) {
	cfg := pde.Config{
		Rate:       r.Option.Rate,
		Volatility: r.Option.Volatility,
		Maturity:   r.Option.Maturity,
		Kind:       kind,
		Strike:     r.Option.Strike,
		SMin:       r.Option.SMin,
		SMax:       r.Option.SMax,
		TimeSteps:  r.Option.TimeSteps,
		PriceSteps: r.Option.PriceSteps,
	}
	if err := cfg.Validate(); err != nil {
		return pde.Config{}, err
	}
	return cfg, nil
}

// SpotOrStrike is the underlying price the summary is evaluated at.
func (r *Run) SpotOrStrike() float64 {
	if r.Spot > 0 {
		return r.Spot
	}
	return r.Option.Strike
}
