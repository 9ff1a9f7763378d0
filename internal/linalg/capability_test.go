//go:build nosparselu

package linalg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mswell/internal/numerr"
)

func TestDirectBackendUnavailable(t *testing.T) {
	_, ok := DirectBackend()
	assert.False(t, ok)

	d := segmentMatrix(t, 3)
	var h Handle

	_, err := Solve(d, &h, rhs(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, numerr.ErrCapabilityUnavailable))
	assert.Contains(t, err.Error(), "sparselu")
	assert.Contains(t, err.Error(), "nosparselu")
	assert.False(t, h.Factored())

	_, err = Invert(d, &h)
	assert.Equal(t, numerr.CapabilityUnavailable, numerr.KindOf(err))
}

func TestIterativeWithoutDirectBackend(t *testing.T) {
	d := segmentMatrix(t, 5)
	x := rhs(5)
	y, err := IterativeSolve(d, x, nil)
	require.NoError(t, err)
	assert.Less(t, residual(d, y, x), 1e-6)
}
