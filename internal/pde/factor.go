package pde

import (
	"fmt"
	"math"
)

// TriLU is the LU factorization with partial pivoting of a tridiagonal
// matrix, P·L·U = A. Row interchanges are recorded in ipiv and replayed
// during the forward solve, so P is folded into L. U has two
// super-diagonals because an interchange can push fill-in one column right.
//
// The factorization is read-only after Factorize and may be shared by
// concurrent Solve calls.
type TriLU struct {
	dl   []float64 // L multipliers, len n-1
	d    []float64 // U diagonal, len n
	du   []float64 // U first super-diagonal, len n-1
	du2  []float64 // U second super-diagonal, len n-2
	ipiv []int     // ipiv[i] is i or i+1
}

// Factorize computes the pivoted LU of a in O(n). a is not modified.
// A zero or non-finite pivot returns ErrSingular.
func Factorize(a *Tridiag) (*TriLU, error) {
	n := a.Size()
	f := &TriLU{
		dl:   append([]float64(nil), a.Lower...),
		d:    append([]float64(nil), a.Diag...),
		du:   append([]float64(nil), a.Upper...),
		du2:  make([]float64, max(n-2, 0)),
		ipiv: make([]int, n),
	}
	for i := range f.ipiv {
		f.ipiv[i] = i
	}

	for i := 0; i < n-1; i++ {
		if math.Abs(f.d[i]) >= math.Abs(f.dl[i]) {
			// no interchange
			if f.d[i] != 0 {
				fact := f.dl[i] / f.d[i]
				f.dl[i] = fact
				f.d[i+1] -= fact * f.du[i]
			}
			continue
		}
		// swap rows i and i+1
		fact := f.d[i] / f.dl[i]
		f.d[i] = f.dl[i]
		f.dl[i] = fact
		tmp := f.du[i]
		f.du[i] = f.d[i+1]
		f.d[i+1] = tmp - fact*f.d[i+1]
		if i < n-2 {
			f.du2[i] = f.du[i+1]
			f.du[i+1] = -fact * f.du[i+1]
		}
		f.ipiv[i] = i + 1
	}

	for i, p := range f.d {
		if p == 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: pivot %d is %g", ErrSingular, i, p)
		}
	}
	return f, nil
}

// Size is the order of the factored matrix.
func (f *TriLU) Size() int { return len(f.d) }

// Solve overwrites b with the solution x of A·x = b.
func (f *TriLU) Solve(b []float64) error {
	n := f.Size()
	if len(b) != n {
		return fmt.Errorf("%w: factorization order %d, rhs %d", ErrDimensionMismatch, n, len(b))
	}
	if n == 0 {
		return nil
	}

	// L·y = P·b
	for i := 0; i < n-1; i++ {
		if f.ipiv[i] == i {
			b[i+1] -= f.dl[i] * b[i]
		} else {
			tmp := b[i]
			b[i] = b[i+1]
			b[i+1] = tmp - f.dl[i]*b[i]
		}
	}

	// U·x = y
	b[n-1] /= f.d[n-1]
	if n > 1 {
		b[n-2] = (b[n-2] - f.du[n-2]*b[n-1]) / f.d[n-2]
	}
	for i := n - 3; i >= 0; i-- {
		b[i] = (b[i] - f.du[i]*b[i+1] - f.du2[i]*b[i+2]) / f.d[i]
	}
	return nil
}
