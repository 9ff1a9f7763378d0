package linalg

import (
	"github.com/sirupsen/logrus"

	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/numerr"
)

// factorization is a factored matrix that can be applied to many right-hand
// sides.
type factorization interface {
	solve(b []float64) []float64
}

// Handle caches the direct factorization of one matrix. The zero value is
// empty and ready to use. The owner calls Release whenever the values of the
// matrix change; a change of sparsity pattern is detected and triggers a
// rebuild on its own.
type Handle struct {
	fact      factorization
	structure blockmat.Structure
	factored  int
}

// Factored reports whether the handle currently holds a factorization.
func (h *Handle) Factored() bool { return h != nil && h.fact != nil }

// Factorizations returns how many times the handle has been factored.
func (h *Handle) Factorizations() int { return h.factored }

// Release drops the cached factorization.
func (h *Handle) Release() {
	h.fact = nil
	h.structure = blockmat.Structure{}
}

func (h *Handle) ensure(d *blockmat.Matrix) error {
	if h.fact != nil && h.structure != d.Structure() {
		logrus.Debugf("segment matrix structure changed (%d blocks, was %d), refactorizing", d.NNZ(), h.structure.NNZ)
		h.Release()
	}
	if h.fact != nil {
		return nil
	}
	f, err := newDirect(d)
	if err != nil {
		return err
	}
	h.fact = f
	h.structure = d.Structure()
	h.factored++
	return nil
}

func checkShape(op string, d *blockmat.Matrix, x blockmat.Vector) error {
	if x.Len() != d.N() || x.BlockSize() != d.BlockSize() {
		return numerr.Wrap(numerr.InvalidConfig, op, blockmat.ErrBadShape,
			"vector has %d blocks of %d, matrix has %d blocks of %d", x.Len(), x.BlockSize(), d.N(), d.BlockSize())
	}
	return nil
}

// Solve returns y with D·y = x using the direct backend. The factorization
// is built into h on first use and reused afterwards; a nil h factors without
// caching. A solution containing Inf or NaN means D is singular and is
// reported as numerr.ErrNumericalIssue.
func Solve(d *blockmat.Matrix, h *Handle, x blockmat.Vector) (blockmat.Vector, error) {
	if !directAvailable {
		return blockmat.Vector{}, capabilityError("Solve")
	}
	if err := checkShape("solve", d, x); err != nil {
		return blockmat.Vector{}, err
	}
	if h == nil {
		h = &Handle{}
	}
	if err := h.ensure(d); err != nil {
		return blockmat.Vector{}, err
	}

	y := blockmat.VectorFrom(d.BlockSize(), h.fact.solve(x.Flat()))

	if ok, blk, elem := y.Finite(); !ok {
		const msg = "nan or inf value found after direct solve due to singular matrix"
		logrus.Debug(msg)
		return blockmat.Vector{}, numerr.New(numerr.NumericalIssue, "solve", "%s (block %d, element %d)", msg, blk, elem)
	}
	return y, nil
}

// Invert returns the explicit inverse of D, assembled column by column from
// solves against unit vectors. It costs n*bs solves and is meant for the
// tens of segments of a single well.
func Invert(d *blockmat.Matrix, h *Handle) (*blockmat.DenseBlocks, error) {
	if !directAvailable {
		return nil, capabilityError("Invert")
	}
	if h == nil {
		h = &Handle{}
	}

	n, bs := d.N(), d.BlockSize()
	inv := blockmat.NewDenseBlocks(n, bs)
	e := blockmat.NewVector(n, bs)

	for ii := 0; ii < n; ii++ {
		for jj := 0; jj < bs; jj++ {
			e.Set(ii, jj, 1)
			col, err := Solve(d, h, e)
			if err != nil {
				return nil, err
			}
			for cc := 0; cc < n; cc++ {
				for dd := 0; dd < bs; dd++ {
					inv.Set(cc, ii, dd, jj, col.At(cc, dd))
				}
			}
			e.Set(ii, jj, 0)
		}
	}
	return inv, nil
}

// DirectBackend reports the name of the direct backend and whether this
// build includes it.
func DirectBackend() (name string, available bool) {
	return directBackendName, directAvailable
}

func capabilityError(op string) error {
	return numerr.New(numerr.CapabilityUnavailable, op,
		"cannot use %s() without the %s direct backend; rebuild without the %q build tag",
		op, directBackendName, "nosparselu")
}
