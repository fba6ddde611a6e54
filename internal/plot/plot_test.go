package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pde/internal/pde"
)

func smallResult(t *testing.T, kind pde.OptionKind) *pde.Result {
	t.Helper()
	cfg, err := pde.DefaultConfig(kind)
	require.NoError(t, err)
	cfg.TimeSteps, cfg.PriceSteps = 10, 20

	s, err := pde.NewSolver(cfg)
	require.NoError(t, err)
	res, err := s.Solve()
	require.NoError(t, err)
	return res
}

func TestSurfaceGrid(t *testing.T) {
	res := smallResult(t, pde.Call)
	g := surface{res: res}

	c, r := g.Dims()
	assert.Equal(t, 11, c)
	assert.Equal(t, 21, r)
	assert.Equal(t, res.Grid.Values[20][10], g.Z(10, 20))
	assert.Equal(t, 100.0, g.Y(20))
	assert.InDelta(t, 1.0, g.X(10), 1e-12)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "European Call option price", title(pde.Call))
	assert.Equal(t, "European Put option price", title(pde.Put))
}

func TestWritePlots(t *testing.T) {
	dir := t.TempDir()
	res := smallResult(t, pde.Put)

	surfacePath := filepath.Join(dir, "put_surface.png")
	slicePath := filepath.Join(dir, "put_slice.png")
	require.NoError(t, WriteSurface(res, surfacePath))
	require.NoError(t, WriteSlice(res, slicePath))

	for _, p := range []string{surfacePath, slicePath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
