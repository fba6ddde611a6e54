package pde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pde/internal/pde"
)

func TestNewCoefficients(t *testing.T) {
	const sigma, rate, dt = 0.2, 0.05, 0.01
	co := pde.NewCoefficients(sigma, rate, dt, 4)

	require.Len(t, co.A, 5)
	assert.Equal(t, 4, co.Levels())
	for i := 0; i <= 4; i++ {
		fi := float64(i)
		assert.InDelta(t, dt/4*(sigma*sigma*fi*fi-rate*fi), co.A[i], 1e-15)
		assert.InDelta(t, -dt/2*(sigma*sigma*fi*fi+rate), co.B[i], 1e-15)
		assert.InDelta(t, dt/4*(sigma*sigma*fi*fi+rate*fi), co.C[i], 1e-15)
	}
}

func TestNewOperatorsLayout(t *testing.T) {
	co := pde.NewCoefficients(0.3, 0.04, 0.02, 5)
	implicit, explicit := pde.NewOperators(co)

	require.Equal(t, 4, implicit.Size())
	require.Equal(t, 4, explicit.Size())

	for r := 0; r < 4; r++ {
		level := r + 1
		assert.InDelta(t, 1-co.B[level], implicit.At(r, r), 1e-15)
		assert.InDelta(t, 1+co.B[level], explicit.At(r, r), 1e-15)
		if r > 0 {
			assert.InDelta(t, -co.A[level], implicit.At(r, r-1), 1e-15)
			assert.InDelta(t, co.A[level], explicit.At(r, r-1), 1e-15)
		}
		if r < 3 {
			assert.InDelta(t, -co.C[level], implicit.At(r, r+1), 1e-15)
			assert.InDelta(t, co.C[level], explicit.At(r, r+1), 1e-15)
		}
		for c := 0; c < 4; c++ {
			if c < r-1 || c > r+1 {
				assert.Zero(t, implicit.At(r, c))
				assert.Zero(t, explicit.At(r, c))
			}
		}
	}
}

func TestNewOperatorsDegenerateSizes(t *testing.T) {
	implicit, explicit := pde.NewOperators(pde.NewCoefficients(0.2, 0.05, 0.01, 1))
	assert.Equal(t, 0, implicit.Size())
	assert.Equal(t, 0, explicit.Size())

	implicit, _ = pde.NewOperators(pde.NewCoefficients(0.2, 0.05, 0.01, 2))
	assert.Equal(t, 1, implicit.Size())
	assert.Empty(t, implicit.Lower)
	assert.Empty(t, implicit.Upper)
}

func TestTridiagMulVecTo(t *testing.T) {
	tri, err := pde.NewTridiag([]float64{1, 2}, []float64{4, 5, 6}, []float64{7, 8})
	require.NoError(t, err)

	dst := make([]float64, 3)
	require.NoError(t, tri.MulVecTo(dst, []float64{1, 1, 1}))
	assert.Equal(t, []float64{11, 14, 8}, dst)

	assert.ErrorIs(t, tri.MulVecTo(dst, []float64{1}), pde.ErrDimensionMismatch)

	_, err = pde.NewTridiag([]float64{1}, []float64{4, 5, 6}, []float64{7, 8})
	assert.ErrorIs(t, err, pde.ErrDimensionMismatch)
}

func TestTridiagBandMatchesAt(t *testing.T) {
	tri, err := pde.NewTridiag([]float64{1, 2, 3}, []float64{4, 5, 6, 7}, []float64{8, 9, 10})
	require.NoError(t, err)

	band := tri.Band()
	r, c := band.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Equal(t, tri.At(i, j), band.At(i, j), "(%d,%d)", i, j)
		}
	}
}
