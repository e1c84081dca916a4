package findiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numdiff/internal/findiff"
)

func estimateSin(t *testing.T, h float64) findiff.Estimate {
	t.Helper()
	fd, err := findiff.New(scalar("sin", math.Sin), findiff.Config{Epsilon: h, Policy: findiff.FivePoints})
	require.NoError(t, err)

	est := make([]findiff.Estimate, 1)
	require.NoError(t, fd.EstimateColumn(est, []float64{1}, 0))
	return est[0]
}

func TestEstimate_Scaling(t *testing.T) {
	steps := []float64{1e-2, 1e-3, 1e-4}
	ests := make([]findiff.Estimate, len(steps))
	for i, h := range steps {
		ests[i] = estimateSin(t, h)
		assert.Greater(t, ests[i].Truncation, 0.0)
		assert.Greater(t, ests[i].RoundOff, 0.0)
	}

	for i := 1; i < len(steps); i++ {
		// h shrinks tenfold: truncation drops by 10⁴, round-off grows by 10.
		assert.InEpsilon(t, 1e4, ests[i-1].Truncation/ests[i].Truncation, 1e-6)
		assert.InEpsilon(t, 10, ests[i].RoundOff/ests[i-1].RoundOff, 1e-2)
	}
}

func TestEstimate_DerivativeMatchesColumn(t *testing.T) {
	const h = 1e-3
	est := estimateSin(t, h)
	assert.InDelta(t, math.Cos(1), est.Derivative, 1e-9)

	fd, err := findiff.New(scalar("sin", math.Sin), findiff.Config{Epsilon: h, Policy: findiff.FivePoints})
	require.NoError(t, err)
	column := make([]float64, 1)
	require.NoError(t, fd.Column(column, []float64{1}, 0))
	assert.Equal(t, column[0], est.Derivative)
}

// TestEstimate_TruncationPredictsError uses a step large enough for the
// truncation term to dominate, so the estimate must match the actual error.
func TestEstimate_TruncationPredictsError(t *testing.T) {
	est := estimateSin(t, 0.1)
	actual := math.Abs(est.Derivative - math.Cos(1))
	assert.InEpsilon(t, actual, est.Truncation, 0.05)
	assert.Less(t, est.RoundOff, est.Truncation)
}

func TestEstimate_SimpleUnsupported(t *testing.T) {
	fd, err := findiff.New(scalar("sin", math.Sin), findiff.Config{Policy: findiff.Simple})
	require.NoError(t, err)

	err = fd.EstimateColumn(make([]findiff.Estimate, 1), []float64{1}, 0)
	require.ErrorIs(t, err, findiff.ErrUnsupported)
}

func TestEstimate_InvalidInput(t *testing.T) {
	fd, err := findiff.New(wave(), findiff.Config{Policy: findiff.FivePoints})
	require.NoError(t, err)

	err = fd.EstimateColumn(make([]findiff.Estimate, 1), []float64{1, 2, 3}, 0)
	require.ErrorIs(t, err, findiff.ErrDimensionMismatch)

	err = fd.EstimateColumn(make([]findiff.Estimate, 2), []float64{1, 2, 3}, 3)
	require.ErrorIs(t, err, findiff.ErrInvalidParameter)
}
