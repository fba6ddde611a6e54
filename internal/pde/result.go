package pde

import "math"

// Result is the solved grid together with the inputs that produced it.
type Result struct {
	Config Config
	Axes   Axes
	Grid   *Grid
}

// PresentValues returns the option value at t = 0 for every price level.
func (r *Result) PresentValues() []float64 { return r.Grid.Column(0) }

// NearestLevel returns the price level closest to s. Ties go to the lower level.
func (r *Result) NearestLevel(s float64) int {
	ds := r.Config.Ds()
	i := int(math.Round((s - r.Config.SMin) / ds))
	if i < 0 {
		return 0
	}
	if i > r.Config.PriceSteps {
		return r.Config.PriceSteps
	}
	if i > 0 && math.Abs(r.Axes.Prices[i-1]-s) <= math.Abs(r.Axes.Prices[i]-s) {
		return i - 1
	}
	return i
}

// PriceAt returns the present value at the grid point nearest s and the
// underlying price of that grid point.
func (r *Result) PriceAt(s float64) (value, gridPrice float64) {
	i := r.NearestLevel(s)
	return r.Grid.Values[i][0], r.Axes.Prices[i]
}

// Greeks returns central finite-difference delta and gamma of the present
// values at the interior level nearest s. At a boundary level the nearest
// interior level is used.
func (r *Result) Greeks(s float64) (delta, gamma float64) {
	m := r.Config.PriceSteps
	if m < 2 {
		return 0, 0
	}
	i := min(max(r.NearestLevel(s), 1), m-1)
	ds := r.Config.Ds()
	v := r.Grid.Values
	delta = (v[i+1][0] - v[i-1][0]) / (2 * ds)
	gamma = (v[i+1][0] - 2*v[i][0] + v[i-1][0]) / (ds * ds)
	return delta, gamma
}
