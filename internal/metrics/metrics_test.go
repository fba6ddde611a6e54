package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pde/internal/pde"
)

func TestObserverCounts(t *testing.T) {
	m := New()
	m.ObserveFactorization(pde.Call, 199, time.Millisecond)
	for j := 3; j >= 0; j-- {
		m.ObserveStep(pde.Call, j, time.Microsecond, float64(j)*1e-12)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Factorizations.WithLabelValues("CALL")))
	assert.Equal(t, 199.0, testutil.ToFloat64(m.OperatorOrder.WithLabelValues("CALL")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Steps.WithLabelValues("CALL")))
	assert.Equal(t, 3e-12, testutil.ToFloat64(m.MaxDeviation.WithLabelValues("CALL")))
}

func TestSolverFeedsMetrics(t *testing.T) {
	m := New()
	cfg, err := pde.DefaultConfig(pde.Put)
	require.NoError(t, err)
	cfg.TimeSteps = 10

	s, err := pde.NewSolver(cfg, pde.WithObserver(m), pde.WithVerification(1e-9))
	require.NoError(t, err)
	res, err := s.Solve()
	require.NoError(t, err)
	v, _ := res.PriceAt(cfg.Strike)
	m.RecordRun(pde.Put, v, nil)
	m.RecordRun(pde.Call, 0, errors.New("singular"))

	assert.Equal(t, 10.0, testutil.ToFloat64(m.Steps.WithLabelValues("PUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("PUT", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("CALL", "error")))
	assert.Equal(t, v, testutil.ToFloat64(m.PresentValueSpot.WithLabelValues("PUT")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveFactorization(pde.Call, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "bsm.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `bsm_pde_factorizations_total{kind="CALL"} 1`)
}
