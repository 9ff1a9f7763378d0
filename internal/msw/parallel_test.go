package msw

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mswell/internal/deferlog"
	"github.com/san-kum/mswell/internal/numerr"
)

func TestSolveAll(t *testing.T) {
	var wells []*Well
	for i := 0; i < 6; i++ {
		opts := DefaultOptions()
		if i%2 == 1 {
			opts.Method = Iterative
		}
		w, err := NewWell(fmt.Sprintf("w%d", i), 4e6+float64(i)*1e5, completedSegments(), opts)
		require.NoError(t, err)
		wells = append(wells, w)
	}

	results, log, err := SolveAll(context.Background(), wells)
	require.NoError(t, err)
	require.Len(t, results, len(wells))

	for i, r := range results {
		assert.Equal(t, wells[i].Name, r.Well)
		assert.InDelta(t, results[0].BottomPressure()+float64(i)*1e5, r.BottomPressure(), 0.05)
		assert.Zero(t, wells[i].Logger().Len(), "logger of %s merged", r.Well)
	}
	assert.Zero(t, log.Count(deferlog.Error))
	assert.GreaterOrEqual(t, log.Count(deferlog.Debug), len(wells))
}

func TestSolveAllFailure(t *testing.T) {
	good, err := NewWell("good", 5e6, completedSegments(), DefaultOptions())
	require.NoError(t, err)

	segs := completedSegments()
	segs[2].Roughness = 1.0
	bad, err := NewWell("bad", 5e6, segs, DefaultOptions())
	require.NoError(t, err)

	results, log, err := SolveAll(context.Background(), []*Well{good, bad})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, numerr.InvalidConfig, numerr.KindOf(err))
	assert.Equal(t, 1, log.Count(deferlog.Error))
}
