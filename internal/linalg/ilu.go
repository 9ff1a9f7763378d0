package linalg

import (
	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/numerr"
)

// blockILU0 is an incomplete block LU factorization with zero fill-in:
// L and U share the sparsity pattern of D. Strictly lower blocks of lu hold
// L (unit diagonal implied); diagInv holds the inverted diagonal blocks of U.
type blockILU0 struct {
	lu      *blockmat.Matrix
	diagInv [][]float64
	relax   float64
}

func newBlockILU0(d *blockmat.Matrix, relax float64) (*blockILU0, error) {
	n, bs := d.N(), d.BlockSize()
	lu := d.Clone()
	diagInv := make([][]float64, n)

	for i := 0; i < n; i++ {
		row := lu.Row(i)
		for _, k := range row {
			if k >= i {
				break
			}
			// L_ik = A_ik * inv(U_kk)
			lik := lu.Block(i, k)
			copy(lik, mulBlock(bs, lik, diagInv[k]))

			for _, j := range row {
				if j <= k || !lu.Has(k, j) {
					continue
				}
				prod := mulBlock(bs, lik, lu.Block(k, j))
				aij := lu.Block(i, j)
				for t := range aij {
					aij[t] -= prod[t]
				}
			}
		}

		diag := lu.Block(i, i)
		if diag == nil {
			return nil, numerr.New(numerr.NumericalIssue, "ilu0", "missing diagonal block in row %d", i)
		}
		inv, err := invertBlock(bs, diag)
		if err != nil {
			return nil, numerr.Wrap(numerr.NumericalIssue, "ilu0", err, "singular diagonal block in row %d", i)
		}
		diagInv[i] = inv
	}
	return &blockILU0{lu: lu, diagInv: diagInv, relax: relax}, nil
}

// apply returns v = relax * (LU)^-1 d.
func (p *blockILU0) apply(d []float64) []float64 {
	n, bs := p.lu.N(), p.lu.BlockSize()
	z := append([]float64(nil), d...)

	for i := 0; i < n; i++ {
		zi := z[i*bs : (i+1)*bs]
		for _, k := range p.lu.Row(i) {
			if k >= i {
				break
			}
			blk := p.lu.Block(i, k)
			zk := z[k*bs : (k+1)*bs]
			for r := 0; r < bs; r++ {
				for c := 0; c < bs; c++ {
					zi[r] -= blk[r*bs+c] * zk[c]
				}
			}
		}
	}

	v := make([]float64, len(z))
	tmp := make([]float64, bs)
	for i := n - 1; i >= 0; i-- {
		copy(tmp, z[i*bs:(i+1)*bs])
		for _, j := range p.lu.Row(i) {
			if j <= i {
				continue
			}
			blk := p.lu.Block(i, j)
			vj := v[j*bs : (j+1)*bs]
			for r := 0; r < bs; r++ {
				for c := 0; c < bs; c++ {
					tmp[r] -= blk[r*bs+c] * vj[c]
				}
			}
		}
		inv := p.diagInv[i]
		for r := 0; r < bs; r++ {
			s := 0.0
			for c := 0; c < bs; c++ {
				s += inv[r*bs+c] * tmp[c]
			}
			v[i*bs+r] = p.relax * s
		}
	}
	return v
}
