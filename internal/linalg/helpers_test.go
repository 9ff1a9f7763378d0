package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/mswell/internal/blockmat"
)

// segmentMatrix builds a diagonally dominant block tridiagonal matrix shaped
// like a single-branch well.
func segmentMatrix(t *testing.T, n int) *blockmat.Matrix {
	t.Helper()
	d, err := blockmat.NewMatrix(n, 2, blockmat.Tridiagonal(n))
	require.NoError(t, err)
	fill(t, d)
	return d
}

// loopMatrix couples the first and last segment, so ILU(0) drops fill-in.
func loopMatrix(t *testing.T, n int) *blockmat.Matrix {
	t.Helper()
	pattern := blockmat.Tridiagonal(n)
	pattern[0] = append(pattern[0], n-1)
	pattern[n-1] = append(pattern[n-1], 0)
	d, err := blockmat.NewMatrix(n, 2, pattern)
	require.NoError(t, err)
	fill(t, d)
	require.NoError(t, d.SetBlock(0, n-1, []float64{-0.8, 0.3, 0.4, -0.6}))
	require.NoError(t, d.SetBlock(n-1, 0, []float64{0.7, -0.2, -0.5, 0.3}))
	return d
}

func fill(t *testing.T, d *blockmat.Matrix) {
	n := d.N()
	for i := 0; i < n; i++ {
		require.NoError(t, d.SetBlock(i, i, []float64{4 + 0.1*float64(i), 1, 0.5, 3}))
		if i > 0 {
			require.NoError(t, d.SetBlock(i, i-1, []float64{-1, 0, 0.2, -1}))
		}
		if i+1 < n {
			require.NoError(t, d.SetBlock(i, i+1, []float64{-0.5, 0.1, 0, -1}))
		}
	}
}

func rhs(n int) blockmat.Vector {
	x := blockmat.NewVector(n, 2)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i+1))
		x.Set(i, 1, -0.5*float64(i))
	}
	return x
}

func residual(d *blockmat.Matrix, y, x blockmat.Vector) float64 {
	return d.MulVec(y).Sub(x).MaxAbs()
}
