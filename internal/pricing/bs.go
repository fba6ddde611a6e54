// Package pricing holds closed-form Black-Scholes values used as a
// reference for the finite-difference grid.
package pricing

import (
	"math"
)

const sqrt2Pi = 2.5066282746310002

// BlackScholesPrice calculates the price of a European option using the Black-Scholes model.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// Returns:
//
//	The theoretical price of the option. If time to expiry or volatility is zero or negative,
//	returns the discounted intrinsic value of the forward (the zero-volatility limit).
func BlackScholesPrice(
	isCall bool,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	sigma float64, // volatility
) float64 {

	if T <= 0 || sigma <= 0 {
		df := math.Exp(-r * math.Max(T, 0))
		if isCall {
			return math.Max(0, S-K*df)
		}
		return math.Max(0, K*df-S)
	}
	if S <= 0 {
		if isCall {
			return 0
		}
		return K * math.Exp(-r*T)
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// BlackScholesDelta is ∂V/∂S of a European option.
// Returns the zero-volatility limit (0 or ±1) when T or sigma is non-positive.
func BlackScholesDelta(isCall bool, S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 || S <= 0 {
		itm := S > K*math.Exp(-r*math.Max(T, 0))
		switch {
		case isCall && itm:
			return 1
		case !isCall && !itm:
			return -1
		}
		return 0
	}
	d1, _ := d1d2(S, K, T, r, sigma)
	if isCall {
		return normCDF(d1)
	}
	return normCDF(d1) - 1
}

// BlackScholesGamma is ∂²V/∂S², identical for calls and puts.
// Returns 0 if T, sigma or S is non-positive.
func BlackScholesGamma(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 || S <= 0 {
		return 0
	}
	d1, _ := d1d2(S, K, T, r, sigma)
	return normPDF(d1) / (S * sigma * math.Sqrt(T))
}

func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return d1, d1 - sigma*math.Sqrt(T)
}

// normPDF calculates the probability density function (PDF) of the standard normal distribution.
// The formula used is: exp(-0.5 * x^2) / sqrt(2π)
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF computes the cumulative distribution function of the standard normal distribution
// for a given value x using the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
