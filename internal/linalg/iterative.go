package linalg

import (
	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/deferlog"
)

// IterativeSolve returns y with D·y = x using ILU(0)-preconditioned BiCGSTAB
// with residual reduction 1e-8 and at most 250 iterations. A failure is
// recorded on logger before it is returned, so the driver sees it even when
// the caller recovers.
func IterativeSolve(d *blockmat.Matrix, x blockmat.Vector, logger *deferlog.Logger) (blockmat.Vector, error) {
	y, stats, err := NewBiCGSTAB().Solve(d, x)
	if err != nil {
		if logger != nil {
			return y, logger.Fail("segment solver", err)
		}
		return y, err
	}
	if logger != nil {
		logger.Debug("segment solver", "bicgstab converged in %d iterations (reduction %.2e)", stats.Iterations, stats.Reduction)
	}
	return y, nil
}
