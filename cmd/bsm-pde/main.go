package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-pde/internal/config"
	"github.com/contactkeval/option-pde/internal/logger"
	"github.com/contactkeval/option-pde/internal/metrics"
	"github.com/contactkeval/option-pde/internal/pde"
	"github.com/contactkeval/option-pde/internal/plot"
	"github.com/contactkeval/option-pde/internal/report"
)

func main() {
	err := run(os.Args[1:])
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		logger.Errorf("%v", err)
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}

func run(args []string) error {
	fs := pflag.NewFlagSet("bsm-pde", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if err := logger.Configure(logger.Options{
		Verbosity:  cfg.Log.Verbosity,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", cfg.Output.Dir, err)
	}

	start := time.Now()
	m := metrics.New()

	var g errgroup.Group
	for _, kind := range cfg.Kinds() {
		kind := kind
		g.Go(func() error {
			err := price(cfg, kind, m)
			if err != nil {
				logger.Errorf("%s failed: %v", kind, err)
			}
			return err
		})
	}
	runErr := g.Wait()

	if cfg.Output.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			logger.Errorf("writing metrics to %s: %v", cfg.Output.MetricsFile, err)
		} else {
			logger.Debugf("metrics written to %s", cfg.Output.MetricsFile)
		}
	}
	if runErr != nil {
		return fmt.Errorf("pricing failed: %w", runErr)
	}

	logger.Infof("[done] finished in %v, wrote results to %s", time.Since(start), cfg.Output.Dir)
	return nil
}

// price solves one kind and writes its outputs. Nothing is written for
// a kind whose solve fails.
func price(cfg *config.Run, kind pde.OptionKind, m *metrics.Metrics) error {
	pc, err := cfg.PDEConfig(kind)
	if err != nil {
		m.RecordRun(kind, 0, err)
		return err
	}

	opts := []pde.Option{pde.WithObserver(m)}
	if cfg.Verify > 0 {
		opts = append(opts, pde.WithVerification(cfg.Verify))
	}
	s, err := pde.NewSolver(pc, opts...)
	if err != nil {
		m.RecordRun(kind, 0, err)
		return err
	}

	logger.Infof("%s: ds=%g dt=%g grid=%dx%d", kind, pc.Ds(), pc.Dt(), pc.PriceSteps+1, pc.TimeSteps+1)
	res, err := s.Solve()
	if err != nil {
		m.RecordRun(kind, 0, err)
		return err
	}

	sum := report.NewSummary(res, cfg.SpotOrStrike())
	m.RecordRun(kind, sum.Value.InexactFloat64(), nil)
	logger.Infof("%s: V(S=%g, t=0)=%s closed-form=%s delta=%s gamma=%s",
		kind, sum.GridSpot, sum.Value, sum.ClosedForm, sum.Delta, sum.Gamma)

	out := cfg.Output.Dir
	path, err := report.WriteJSON(sum, out)
	if err != nil {
		return err
	}
	logger.Debugf("wrote %s", path)
	if path, err = report.WriteCSV(res, out); err != nil {
		return err
	}
	logger.Debugf("wrote %s", path)

	if !cfg.Output.Plot {
		return nil
	}
	base := strings.ToLower(string(kind))
	surface := filepath.Join(out, base+"_surface."+cfg.Output.PlotFormat)
	if err := plot.WriteSurface(res, surface); err != nil {
		return err
	}
	slice := filepath.Join(out, base+"_slice."+cfg.Output.PlotFormat)
	if err := plot.WriteSlice(res, slice); err != nil {
		return err
	}
	logger.Debugf("wrote %s and %s", surface, slice)
	return nil
}
