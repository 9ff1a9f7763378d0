package linalg

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/numerr"
)

func denseError(op string, err error) error {
	var cond mat.Condition
	if errors.Is(err, mat.ErrSingular) || errors.As(err, &cond) {
		return numerr.Wrap(numerr.NumericalIssue, op, err, "dense factorization of singular matrix")
	}
	return numerr.Wrap(numerr.NumericalIssue, op, err, "dense factorization failed")
}

// DenseSolve solves D·y = x by dense LU of the expanded matrix. It needs no
// direct sparse backend.
func DenseSolve(d *blockmat.Matrix, x blockmat.Vector) (blockmat.Vector, error) {
	if err := checkShape("dense solve", d, x); err != nil {
		return blockmat.Vector{}, err
	}

	var lu mat.LU
	lu.Factorize(d.Dense())

	y := blockmat.NewVector(d.N(), d.BlockSize())
	dst := mat.NewVecDense(len(y.Flat()), y.Flat())
	if err := lu.SolveVecTo(dst, false, mat.NewVecDense(len(x.Flat()), x.Clone().Flat())); err != nil {
		return blockmat.Vector{}, denseError("dense solve", err)
	}
	if ok, blk, elem := y.Finite(); !ok {
		return blockmat.Vector{}, numerr.New(numerr.NumericalIssue, "dense solve",
			"non-finite solution at block %d, element %d", blk, elem)
	}
	return y, nil
}

// DenseInverse returns the inverse of D computed by gonum on the expanded
// matrix.
func DenseInverse(d *blockmat.Matrix) (*blockmat.DenseBlocks, error) {
	inv := blockmat.NewDenseBlocks(d.N(), d.BlockSize())
	if err := inv.Data.Inverse(d.Dense()); err != nil {
		return nil, denseError("dense inverse", err)
	}
	return inv, nil
}

// invertBlock inverts one bs×bs row-major block. An ill-conditioned block
// with a finite inverse is accepted; gonum reports it as a Condition warning.
func invertBlock(bs int, block []float64) ([]float64, error) {
	out := make([]float64, bs*bs)
	inv := mat.NewDense(bs, bs, out)
	if err := inv.Inverse(mat.NewDense(bs, bs, append([]float64(nil), block...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, err
		}
	}
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, mat.ErrSingular
		}
	}
	return out, nil
}

// mulBlock returns a*b for bs×bs row-major blocks.
func mulBlock(bs int, a, b []float64) []float64 {
	out := make([]float64, bs*bs)
	mat.NewDense(bs, bs, out).Mul(mat.NewDense(bs, bs, a), mat.NewDense(bs, bs, b))
	return out
}
