// Package report writes the solved grid and a run summary to disk.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-pde/internal/pde"
	"github.com/contactkeval/option-pde/internal/pricing"
)

// places is the rounding applied to reported values.
const places = 6

// Summary describes one run at a single underlying price.
type Summary struct {
	Config          pde.Config      `json:"config"`
	Ds              float64         `json:"ds"`                // price step
	Dt              float64         `json:"dt"`                // time step
	GridSpot        float64         `json:"grid_spot"`         // grid price nearest the requested spot
	Value           decimal.Decimal `json:"value"`             // grid value at t = 0
	ClosedForm      decimal.Decimal `json:"closed_form"`       // Black-Scholes value at GridSpot
	AbsError        decimal.Decimal `json:"abs_error"`         // |Value - ClosedForm|
	Delta           decimal.Decimal `json:"delta"`             // finite-difference delta
	Gamma           decimal.Decimal `json:"gamma"`             // finite-difference gamma
	ClosedFormDelta decimal.Decimal `json:"closed_form_delta"` // Black-Scholes delta
	ClosedFormGamma decimal.Decimal `json:"closed_form_gamma"` // Black-Scholes gamma
	LowerBoundary   decimal.Decimal `json:"lower_boundary"`    // value at SMin, t = 0
	UpperBoundary   decimal.Decimal `json:"upper_boundary"`    // value at SMax, t = 0
}

// NewSummary evaluates res at the grid point nearest spot.
func NewSummary(res *pde.Result, spot float64) Summary {
	cfg := res.Config
	value, s := res.PriceAt(spot)
	delta, gamma := res.Greeks(spot)
	isCall := cfg.IsCall()
	closed := pricing.BlackScholesPrice(isCall, s, cfg.Strike, cfg.Maturity, cfg.Rate, cfg.Volatility)

	return Summary{
		Config:          cfg,
		Ds:              cfg.Ds(),
		Dt:              cfg.Dt(),
		GridSpot:        s,
		Value:           round(value),
		ClosedForm:      round(closed),
		AbsError:        round(math.Abs(value - closed)),
		Delta:           round(delta),
		Gamma:           round(gamma),
		ClosedFormDelta: round(pricing.BlackScholesDelta(isCall, s, cfg.Strike, cfg.Maturity, cfg.Rate, cfg.Volatility)),
		ClosedFormGamma: round(pricing.BlackScholesGamma(s, cfg.Strike, cfg.Maturity, cfg.Rate, cfg.Volatility)),
		LowerBoundary:   round(res.Grid.Values[0][0]),
		UpperBoundary:   round(res.Grid.Values[cfg.PriceSteps][0]),
	}
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

// fileName prefixes name with the lower-case option kind.
func fileName(kind pde.OptionKind, name string) string {
	return strings.ToLower(string(kind)) + "_" + name
}

// WriteJSON writes the summary to <outdir>/<kind>_summary.json.
func WriteJSON(sum Summary, outdir string) (string, error) {
	b, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(outdir, fileName(sum.Config.Kind, "summary.json"))
	return path, os.WriteFile(path, b, 0644)
}

// WriteCSV writes the full grid to <outdir>/<kind>_grid.csv: one row per
// price level, one column per time index.
func WriteCSV(res *pde.Result, outdir string) (string, error) {
	path := filepath.Join(outdir, fileName(res.Config.Kind, "grid.csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	headers := make([]string, 0, len(res.Axes.Times)+1)
	headers = append(headers, "price")
	for _, t := range res.Axes.Times {
		headers = append(headers, "t="+strconv.FormatFloat(t, 'g', -1, 64))
	}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	row := make([]string, len(headers))
	for i, s := range res.Axes.Prices {
		row[0] = strconv.FormatFloat(s, 'g', -1, 64)
		for j, v := range res.Grid.Values[i] {
			row[j+1] = strconv.FormatFloat(v, 'f', places, 64)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing price level %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, f.Close()
}
