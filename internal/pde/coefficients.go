package pde

// Coefficients are the per-level finite-difference weights a, b and c for
// price levels 0..M.
type Coefficients struct {
	A []float64
	B []float64
	C []float64
}

// NewCoefficients evaluates
//
//	a(i) = dt/4 · (σ²i² − r·i)
//	b(i) = −dt/2 · (σ²i² + r)
//	c(i) = dt/4 · (σ²i² + r·i)
//
// for i = 0..m.
func NewCoefficients(sigma, rate, dt float64, m int) Coefficients {
	sig2 := sigma * sigma
	co := Coefficients{
		A: make([]float64, m+1),
		B: make([]float64, m+1),
		C: make([]float64, m+1),
	}
	for i := 0; i <= m; i++ {
		fi := float64(i)
		i2 := fi * fi
		co.A[i] = dt / 4 * (sig2*i2 - rate*fi)
		co.B[i] = -dt / 2 * (sig2*i2 + rate)
		co.C[i] = dt / 4 * (sig2*i2 + rate*fi)
	}
	return co
}

// Levels is M, the index of the upper boundary level.
func (co Coefficients) Levels() int { return len(co.A) - 1 }

// NewOperators assembles the implicit operator
//
//	C = −diag(a[2..M−1], −1) + diag(1 − b[1..M−1]) − diag(c[1..M−2], +1)
//
// and the explicit operator
//
//	D = diag(a[2..M−1], −1) + diag(1 + b[1..M−1]) + diag(c[1..M−2], +1)
//
// over the M−1 interior levels.
func NewOperators(co Coefficients) (implicit, explicit *Tridiag) {
	n := max(co.Levels()-1, 0)
	implicit = &Tridiag{
		Lower: make([]float64, max(n-1, 0)),
		Diag:  make([]float64, n),
		Upper: make([]float64, max(n-1, 0)),
	}
	explicit = &Tridiag{
		Lower: make([]float64, max(n-1, 0)),
		Diag:  make([]float64, n),
		Upper: make([]float64, max(n-1, 0)),
	}
	for k := 0; k < n; k++ {
		level := k + 1
		implicit.Diag[k] = 1 - co.B[level]
		explicit.Diag[k] = 1 + co.B[level]
		if k < n-1 {
			implicit.Lower[k] = -co.A[level+1]
			explicit.Lower[k] = co.A[level+1]
			implicit.Upper[k] = -co.C[level]
			explicit.Upper[k] = co.C[level]
		}
	}
	return implicit, explicit
}
