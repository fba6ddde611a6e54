package pde

import "math"

// Axes are the uniformly spaced time and price coordinates of the grid.
type Axes struct {
	Times  []float64 // N+1 values, Times[j] = j·dt
	Prices []float64 // M+1 values, Prices[i] = SMin + i·ds
}

// NewAxes builds the time and price axes for cfg.
func NewAxes(cfg Config) Axes {
	dt, ds := cfg.Dt(), cfg.Ds()
	times := make([]float64, cfg.TimeSteps+1)
	for j := range times {
		times[j] = float64(j) * dt
	}
	prices := make([]float64, cfg.PriceSteps+1)
	for i := range prices {
		prices[i] = cfg.SMin + float64(i)*ds
	}
	return Axes{Times: times, Prices: prices}
}

// Grid stores option values indexed [price level][time index].
type Grid struct {
	Values [][]float64
}

// NewGrid allocates a zero grid and fills the terminal column with the
// payoff and both boundary rows with the discounted intrinsic values.
func NewGrid(cfg Config, axes Axes) *Grid {
	m, n := cfg.PriceSteps, cfg.TimeSteps
	g := &Grid{Values: make([][]float64, m+1)}
	for i := range g.Values {
		g.Values[i] = make([]float64, n+1)
	}

	for i, s := range axes.Prices {
		g.Values[i][n] = Payoff(cfg.Kind, s, cfg.Strike)
	}

	// Boundaries are written after the payoff so the corners of the
	// terminal column carry the boundary formula.
	for j := 0; j <= n; j++ {
		g.Values[0][j] = LowerBoundary(cfg, j)
		g.Values[m][j] = UpperBoundary(cfg, j)
	}
	return g
}

// Rows returns the number of price levels.
func (g *Grid) Rows() int { return len(g.Values) }

// Cols returns the number of time indices.
func (g *Grid) Cols() int {
	if len(g.Values) == 0 {
		return 0
	}
	return len(g.Values[0])
}

// Column copies the values at time index j.
func (g *Grid) Column(j int) []float64 {
	out := make([]float64, len(g.Values))
	for i, row := range g.Values {
		out[i] = row[j]
	}
	return out
}

// Payoff is the intrinsic value at maturity.
func Payoff(kind OptionKind, s, strike float64) float64 {
	if kind == Call {
		return math.Max(s-strike, 0)
	}
	return math.Max(strike-s, 0)
}

// Discount is exp(-r·(T - j·dt)), the factor applied to boundary values at
// time index j.
func Discount(cfg Config, j int) float64 {
	return math.Exp(-cfg.Rate * (cfg.Maturity - float64(j)*cfg.Dt()))
}

// LowerBoundary is the option value at SMin for time index j.
func LowerBoundary(cfg Config, j int) float64 {
	if cfg.Kind == Call {
		return 0
	}
	return (cfg.Strike - cfg.SMin) * Discount(cfg, j)
}

// UpperBoundary is the option value at SMax for time index j.
func UpperBoundary(cfg Config, j int) float64 {
	if cfg.Kind == Call {
		return (cfg.SMax - cfg.Strike) * Discount(cfg, j)
	}
	return 0
}
