package linalg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/deferlog"
	"github.com/san-kum/mswell/internal/numerr"
)

func TestIterativeSolve(t *testing.T) {
	tests := []struct {
		name string
		d    *blockmat.Matrix
	}{
		{"tridiagonal", segmentMatrix(t, 12)},
		{"loop", loopMatrix(t, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := rhs(12)
			log := deferlog.New()
			y, err := IterativeSolve(tt.d, x, log)
			require.NoError(t, err)
			assert.Less(t, residual(tt.d, y, x), 1e-6)
			assert.Zero(t, log.Count(deferlog.Error))
		})
	}
}

func TestBiCGSTABStats(t *testing.T) {
	d := loopMatrix(t, 10)
	x := rhs(10)

	s := NewBiCGSTAB()
	assert.Equal(t, 1e-8, s.Reduction)
	assert.Equal(t, 250, s.MaxIter)

	y, stats, err := s.Solve(d, x)
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	assert.LessOrEqual(t, stats.Reduction, 1e-8)
	assert.GreaterOrEqual(t, stats.Iterations, 1)
	assert.LessOrEqual(t, stats.Iterations, 250)
	assert.Less(t, residual(d, y, x), 1e-6)
}

func TestBiCGSTABZeroRHS(t *testing.T) {
	d := segmentMatrix(t, 4)
	y, stats, err := NewBiCGSTAB().Solve(d, blockmat.NewVector(4, 2))
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	assert.Zero(t, stats.Iterations)
	assert.Zero(t, y.MaxAbs())
}

func TestIterativeConvergenceFailure(t *testing.T) {
	d := loopMatrix(t, 16)
	x := rhs(16)

	s := &BiCGSTAB{Reduction: 1e-14, MaxIter: 1, Relax: 1}
	_, stats, err := s.Solve(d, x)
	require.Error(t, err)
	assert.False(t, stats.Converged)
	assert.Equal(t, 1, stats.Iterations)

	var nerr *numerr.Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, numerr.ConvergenceFailure, nerr.Kind)
	assert.Equal(t, 1, nerr.Iterations)
	assert.Greater(t, nerr.Reduction, 1e-14)
	assert.True(t, errors.Is(err, numerr.ErrConvergenceFailure))
}

func TestIterativeFailureIsLogged(t *testing.T) {
	d := segmentMatrix(t, 3)
	// singular leading block breaks the preconditioner
	require.NoError(t, d.SetBlock(0, 0, []float64{1, 2, 2, 4}))

	log := deferlog.New()
	_, err := IterativeSolve(d, rhs(3), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, numerr.ErrNumericalIssue))
	assert.Equal(t, 1, log.Count(deferlog.Error))
}

func TestDenseSolveSingular(t *testing.T) {
	d := segmentMatrix(t, 3)
	for _, j := range d.Row(0) {
		require.NoError(t, d.SetBlock(0, j, make([]float64, 4)))
	}
	_, err := DenseSolve(d, rhs(3))
	assert.True(t, errors.Is(err, numerr.ErrNumericalIssue))

	_, err = DenseInverse(d)
	assert.True(t, errors.Is(err, numerr.ErrNumericalIssue))
}

func TestDenseSolve(t *testing.T) {
	d := loopMatrix(t, 5)
	x := rhs(5)
	y, err := DenseSolve(d, x)
	require.NoError(t, err)
	assert.Less(t, residual(d, y, x), 1e-10)
}

func TestILUAcceptsIllConditionedBlock(t *testing.T) {
	d, err := blockmat.NewMatrix(2, 2, [][]int{{0}, {1}})
	require.NoError(t, err)
	require.NoError(t, d.SetBlock(0, 0, []float64{1e-9, 0, 0, 1e9}))
	require.NoError(t, d.SetBlock(1, 1, []float64{2, 0, 0, 2}))

	inv, err := invertBlock(2, d.Block(0, 0))
	require.NoError(t, err)
	assert.InEpsilonSlice(t, []float64{1e9, 1, 1, 1e-9}, []float64{inv[0], 1 + inv[1], 1 + inv[2], inv[3]}, 1e-12)

	log := deferlog.New()
	y, err := IterativeSolve(d, rhs(2), log)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e9, y.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, y.At(1, 0), 1e-9)
	assert.InDelta(t, -0.25, y.At(1, 1), 1e-9)
	assert.Zero(t, log.Count(deferlog.Error))
}
