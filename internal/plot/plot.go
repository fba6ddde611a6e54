// Package plot renders a solved grid: a heat map of option value over
// (time, price) and the price/value curve at t = 0.
package plot

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/contactkeval/option-pde/internal/pde"
)

const (
	width  = 8 * vg.Inch
	height = 6 * vg.Inch
	shades = 150
)

// surface adapts a result to plotter.GridXYZ with time on X and price on Y.
type surface struct {
	res *pde.Result
}

func (s surface) Dims() (c, r int)   { return len(s.res.Axes.Times), len(s.res.Axes.Prices) }
func (s surface) Z(c, r int) float64 { return s.res.Grid.Values[r][c] }
func (s surface) X(c int) float64    { return s.res.Axes.Times[c] }
func (s surface) Y(r int) float64    { return s.res.Axes.Prices[r] }

func title(kind pde.OptionKind) string {
	k := strings.ToLower(string(kind))
	return "European " + strings.ToUpper(k[:1]) + k[1:] + " option price"
}

// WriteSurface saves the value surface; the image format follows the
// file extension (png, svg, pdf, ...).
func WriteSurface(res *pde.Result, path string) error {
	if len(res.Axes.Times) < 2 || len(res.Axes.Prices) < 2 {
		return fmt.Errorf("surface needs at least a 2x2 grid, got %dx%d", len(res.Axes.Prices), len(res.Axes.Times))
	}
	p := plot.New()
	p.Title.Text = title(res.Config.Kind)
	p.X.Label.Text = "t"
	p.Y.Label.Text = "S"

	p.Add(plotter.NewHeatMap(surface{res: res}, palette.Heat(shades, 1)))
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving surface plot: %w", err)
	}
	return nil
}

// WriteSlice saves the option value against the underlying price at t = 0.
func WriteSlice(res *pde.Result, path string) error {
	values := res.PresentValues()
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = res.Axes.Prices[i]
		xys[i].Y = v
	}

	p := plot.New()
	p.Title.Text = title(res.Config.Kind) + " at t=0"
	p.X.Label.Text = "St"
	p.Y.Label.Text = strings.ToLower(string(res.Config.Kind)) + " price"

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("building slice line: %w", err)
	}
	p.Add(line)
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving slice plot: %w", err)
	}
	return nil
}
