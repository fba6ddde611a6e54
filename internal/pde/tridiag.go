package pde

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tridiag is a square tridiagonal matrix stored as three bands.
// Row i holds Lower[i-1], Diag[i], Upper[i].
type Tridiag struct {
	Lower []float64 // sub-diagonal, len n-1
	Diag  []float64 // main diagonal, len n
	Upper []float64 // super-diagonal, len n-1
}

// NewTridiag checks band lengths and wraps them without copying.
func NewTridiag(lower, diag, upper []float64) (*Tridiag, error) {
	n := len(diag)
	want := max(n-1, 0)
	if len(lower) != want || len(upper) != want {
		return nil, fmt.Errorf("%w: bands %d/%d/%d for order %d", ErrDimensionMismatch, len(lower), n, len(upper), n)
	}
	return &Tridiag{Lower: lower, Diag: diag, Upper: upper}, nil
}

// Size is the matrix order.
func (t *Tridiag) Size() int { return len(t.Diag) }

// At returns element (i, j); entries outside the three bands are zero.
func (t *Tridiag) At(i, j int) float64 {
	switch j - i {
	case -1:
		return t.Lower[j]
	case 0:
		return t.Diag[i]
	case 1:
		return t.Upper[i]
	default:
		return 0
	}
}

// MulVecTo computes dst = T·x. dst and x must not alias.
func (t *Tridiag) MulVecTo(dst, x []float64) error {
	n := t.Size()
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("%w: operator order %d, x %d, dst %d", ErrDimensionMismatch, n, len(x), len(dst))
	}
	for i := 0; i < n; i++ {
		v := t.Diag[i] * x[i]
		if i > 0 {
			v += t.Lower[i-1] * x[i-1]
		}
		if i < n-1 {
			v += t.Upper[i] * x[i+1]
		}
		dst[i] = v
	}
	return nil
}

// Band returns the operator as a gonum band matrix with one sub- and one
// super-diagonal.
func (t *Tridiag) Band() *mat.BandDense {
	n := t.Size()
	b := mat.NewBandDense(n, n, 1, 1, nil)
	for i := 0; i < n; i++ {
		b.SetBand(i, i, t.Diag[i])
		if i > 0 {
			b.SetBand(i, i-1, t.Lower[i-1])
		}
		if i < n-1 {
			b.SetBand(i, i+1, t.Upper[i])
		}
	}
	return b
}
