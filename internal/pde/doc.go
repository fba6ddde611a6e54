// Package pde prices European options by solving the Black-Scholes-Merton
// equation backwards in time on a uniform (price, time) grid with the
// Crank–Nicolson scheme.
//
// A run has three stages:
//
//   - NewAxes / NewGrid seed the terminal payoff column and the two
//     Dirichlet boundary rows.
//   - NewCoefficients / NewOperators build the per-level coefficients and
//     the implicit (C) and explicit (D) tridiagonal operators over the
//     interior price levels.
//   - Solver.Solve factors C once and marches from maturity down to t = 0,
//     solving C·z = D·v + offset at every step.
//
// Example usage:
//
//	s, err := pde.New("CALL")
//	if err != nil {
//		return err
//	}
//	res, err := s.Solve()
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.PriceAt(60))
package pde
