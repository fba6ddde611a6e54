package pde

import (
	"fmt"
	"time"
)

// Observer receives timings from a Solve call. Implementations must be
// safe for concurrent use when one Observer is shared by several solvers.
type Observer interface {
	ObserveFactorization(kind OptionKind, order int, elapsed time.Duration)
	ObserveStep(kind OptionKind, step int, elapsed time.Duration, deviation float64)
}

type nopObserver struct{}

func (nopObserver) ObserveFactorization(OptionKind, int, time.Duration) {}
func (nopObserver) ObserveStep(OptionKind, int, time.Duration, float64) {}

// Option configures a Solver.
type Option func(*Solver)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Solver) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithVerification re-solves every step with a dense LU and fails with
// ErrVerification when the two solutions differ by more than tol.
// tol <= 0 disables the check.
func WithVerification(tol float64) Option {
	return func(s *Solver) { s.verifyTol = tol }
}

// Solver runs the Crank–Nicolson time march for one Config.
type Solver struct {
	cfg       Config
	obs       Observer
	verifyTol float64
}

// New builds a Solver with the default parameters for the named kind.
func New(kind string, opts ...Option) (*Solver, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	cfg, err := DefaultConfig(k)
	if err != nil {
		return nil, err
	}
	return NewSolver(cfg, opts...)
}

// NewSolver validates cfg and returns a Solver for it.
func NewSolver(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{cfg: cfg, obs: nopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the solver's configuration.
func (s *Solver) Config() Config { return s.cfg }

// Solve builds the grid, factors the implicit operator and marches back
// from maturity to t = 0. On error no Result is returned.
func (s *Solver) Solve() (*Result, error) {
	cfg := s.cfg
	axes := NewAxes(cfg)
	grid := NewGrid(cfg, axes)

	co := NewCoefficients(cfg.Volatility, cfg.Rate, cfg.Dt(), cfg.PriceSteps)
	implicit, explicit := NewOperators(co)

	start := time.Now()
	lu, err := Factorize(implicit)
	if err != nil {
		return nil, &SingularityError{Config: cfg, Err: err}
	}
	s.obs.ObserveFactorization(cfg.Kind, implicit.Size(), time.Since(start))

	var ref *DenseSolver
	if s.verifyTol > 0 && implicit.Size() > 0 {
		if ref, err = NewDenseSolver(implicit); err != nil {
			return nil, &SingularityError{Config: cfg, Err: err}
		}
	}

	if err := s.march(grid, co, explicit, lu, ref); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Axes: axes, Grid: grid}, nil
}

// march fills the interior rows of every column from N-1 down to 0.
func (s *Solver) march(g *Grid, co Coefficients, explicit *Tridiag, lu *TriLU, ref *DenseSolver) error {
	m, n := s.cfg.PriceSteps, s.cfg.TimeSteps
	inner := explicit.Size()
	if inner == 0 {
		return nil
	}

	px := make([]float64, inner)
	rhs := make([]float64, inner)
	// Coupling of the first and last interior levels to the boundary rows.
	// inner >= 1 implies m >= 2, so A[2] exists.
	lowerCoef, upperCoef := co.A[2], co.C[m-1]

	for j := n - 1; j >= 0; j-- {
		start := time.Now()
		for k := range px {
			px[k] = g.Values[k+1][j+1]
		}
		if err := explicit.MulVecTo(rhs, px); err != nil {
			return err
		}
		// With a single interior level both corrections add to rhs[0].
		rhs[0] += lowerCoef * (g.Values[0][j] + g.Values[0][j+1])
		rhs[inner-1] += upperCoef * (g.Values[m][j] + g.Values[m][j+1])

		var want []float64
		if ref != nil {
			var err error
			if want, err = ref.Solve(rhs); err != nil {
				return err
			}
		}

		if err := lu.Solve(rhs); err != nil {
			return err
		}

		var dev float64
		if ref != nil {
			dev = maxAbsDiff(rhs, want)
			if !(dev <= s.verifyTol) {
				return fmt.Errorf("%w: step %d deviation %g exceeds %g", ErrVerification, j, dev, s.verifyTol)
			}
		}

		for k, v := range rhs {
			g.Values[k+1][j] = v
		}
		s.obs.ObserveStep(s.cfg.Kind, j, time.Since(start), dev)
	}
	return nil
}
