package linalg

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/numerr"
)

// Defaults of the iterative path.
const (
	DefaultReduction = 1e-8
	DefaultMaxIter   = 250
	DefaultRelax     = 1.0
)

// Stats describes one iterative solve.
type Stats struct {
	Iterations int
	Reduction  float64
	Converged  bool
}

// BiCGSTAB is a preconditioned biconjugate gradient stabilized solver.
type BiCGSTAB struct {
	Reduction float64
	MaxIter   int
	Relax     float64
}

// NewBiCGSTAB returns a solver with the default tolerance and cap.
func NewBiCGSTAB() *BiCGSTAB {
	return &BiCGSTAB{
		Reduction: DefaultReduction,
		MaxIter:   DefaultMaxIter,
		Relax:     DefaultRelax,
	}
}

// Solve runs BiCGSTAB from a zero initial guess, preconditioned by block
// ILU(0) of d. It stops once ||r|| <= Reduction*||r0||, checking after each
// half step. Breakdown and exhausting MaxIter both return a
// numerr.ConvergenceFailure carrying the achieved reduction.
func (s *BiCGSTAB) Solve(d *blockmat.Matrix, x blockmat.Vector) (blockmat.Vector, Stats, error) {
	var stats Stats
	if err := checkShape("bicgstab", d, x); err != nil {
		return blockmat.Vector{}, stats, err
	}

	prec, err := newBlockILU0(d, s.Relax)
	if err != nil {
		return blockmat.Vector{}, stats, err
	}

	bs := d.BlockSize()
	apply := func(v []float64) []float64 {
		return d.MulVec(blockmat.VectorFrom(bs, v)).Flat()
	}

	size := len(x.Flat())
	y := make([]float64, size)
	r := append([]float64(nil), x.Flat()...)
	rHat := append([]float64(nil), r...)
	p := make([]float64, size)
	v := make([]float64, size)
	sv := make([]float64, size)

	norm0 := floats.Norm(r, 2)
	stats.Reduction = 0
	if norm0 == 0 {
		stats.Converged = true
		return blockmat.VectorFrom(bs, y), stats, nil
	}

	fail := func(reason string, norm float64) (blockmat.Vector, Stats, error) {
		stats.Reduction = norm / norm0
		return blockmat.Vector{}, stats, &numerr.Error{
			Kind:       numerr.ConvergenceFailure,
			Op:         "bicgstab",
			Msg:        reason,
			Iterations: stats.Iterations,
			Reduction:  stats.Reduction,
		}
	}

	rho, alpha, omega := 1.0, 1.0, 1.0
	norm := norm0
	for it := 1; it <= s.MaxIter; it++ {
		stats.Iterations = it

		rhoNew := floats.Dot(rHat, r)
		if rhoNew == 0 || math.IsNaN(rhoNew) {
			return fail("breakdown (rho = 0)", norm)
		}
		if it == 1 {
			copy(p, r)
		} else {
			beta := (rhoNew / rho) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			floats.AddScaled(p, -omega, v)
			floats.Scale(beta, p)
			floats.Add(p, r)
		}

		pHat := prec.apply(p)
		copy(v, apply(pHat))
		denom := floats.Dot(rHat, v)
		if denom == 0 || math.IsNaN(denom) {
			return fail("breakdown (r0·v = 0)", norm)
		}
		alpha = rhoNew / denom

		floats.AddScaledTo(sv, r, -alpha, v)
		floats.AddScaled(y, alpha, pHat)

		norm = floats.Norm(sv, 2)
		if norm <= s.Reduction*norm0 {
			stats.Reduction = norm / norm0
			stats.Converged = true
			return blockmat.VectorFrom(bs, y), stats, nil
		}

		sHat := prec.apply(sv)
		t := apply(sHat)
		tt := floats.Dot(t, t)
		if tt == 0 || math.IsNaN(tt) {
			return fail("breakdown (t·t = 0)", norm)
		}
		omega = floats.Dot(t, sv) / tt

		floats.AddScaled(y, omega, sHat)
		floats.AddScaledTo(r, sv, -omega, t)

		norm = floats.Norm(r, 2)
		if norm <= s.Reduction*norm0 {
			stats.Reduction = norm / norm0
			stats.Converged = true
			return blockmat.VectorFrom(bs, y), stats, nil
		}
		if omega == 0 {
			return fail("breakdown (omega = 0)", norm)
		}
		rho = rhoNew
	}
	return fail("the iterative segment solve did not converge", norm)
}
