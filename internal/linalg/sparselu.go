//go:build !nosparselu

package linalg

import (
	"math"
	"sort"

	"github.com/san-kum/mswell/internal/blockmat"
)

const (
	directBackendName = "sparselu"
	directAvailable   = true
)

// sparseRow holds the nonzeros of one scalar row, sorted by column.
type sparseRow struct {
	idx []int
	val []float64
}

func (r sparseRow) get(col int) float64 {
	k := sort.SearchInts(r.idx, col)
	if k < len(r.idx) && r.idx[k] == col {
		return r.val[k]
	}
	return 0
}

func (r *sparseRow) push(col int, v float64) {
	r.idx = append(r.idx, col)
	r.val = append(r.val, v)
}

// eliminate returns r - f*pivot restricted to columns > k. Entries of r left
// of k were removed by earlier steps, so only column k itself is dropped.
func (r sparseRow) eliminate(k int, f float64, pivot sparseRow) sparseRow {
	out := sparseRow{
		idx: make([]int, 0, len(r.idx)+len(pivot.idx)),
		val: make([]float64, 0, len(r.idx)+len(pivot.idx)),
	}
	a, b := 0, 0
	for a < len(r.idx) || b < len(pivot.idx) {
		switch {
		case b >= len(pivot.idx) || (a < len(r.idx) && r.idx[a] < pivot.idx[b]):
			if r.idx[a] > k {
				out.push(r.idx[a], r.val[a])
			}
			a++
		case a >= len(r.idx) || pivot.idx[b] < r.idx[a]:
			if pivot.idx[b] > k {
				out.push(pivot.idx[b], -f*pivot.val[b])
			}
			b++
		default:
			if c := r.idx[a]; c > k {
				out.push(c, r.val[a]-f*pivot.val[b])
			}
			a++
			b++
		}
	}
	return out
}

// sparseLU is PA = LU with partial pivoting on scalar rows.
//
//	perm[k]  - original row placed at position k
//	lower[k] - strictly lower part of L in row k, unit diagonal implied
//	upper[k] - row k of U
type sparseLU struct {
	n     int
	perm  []int
	lower []sparseRow
	upper []sparseRow
}

func scalarRows(d *blockmat.Matrix) []sparseRow {
	n, bs := d.N(), d.BlockSize()
	rows := make([]sparseRow, n*bs)
	for i := 0; i < n; i++ {
		for _, j := range d.Row(i) {
			blk := d.Block(i, j)
			for r := 0; r < bs; r++ {
				for c := 0; c < bs; c++ {
					rows[i*bs+r].push(j*bs+c, blk[r*bs+c])
				}
			}
		}
	}
	return rows
}

func newDirect(d *blockmat.Matrix) (factorization, error) {
	return factorSparseLU(scalarRows(d)), nil
}

// factorSparseLU never fails: a zero pivot is left in U and surfaces as a
// non-finite value during the solve.
func factorSparseLU(rows []sparseRow) *sparseLU {
	n := len(rows)
	lu := &sparseLU{
		n:     n,
		perm:  make([]int, n),
		lower: make([]sparseRow, n),
	}
	for i := range lu.perm {
		lu.perm[i] = i
	}

	for k := 0; k < n; k++ {
		p, best := k, math.Abs(rows[k].get(k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(rows[i].get(k)); v > best {
				p, best = i, v
			}
		}
		if p != k {
			rows[k], rows[p] = rows[p], rows[k]
			lu.lower[k], lu.lower[p] = lu.lower[p], lu.lower[k]
			lu.perm[k], lu.perm[p] = lu.perm[p], lu.perm[k]
		}

		pivot := rows[k].get(k)
		if pivot == 0 {
			continue
		}
		for i := k + 1; i < n; i++ {
			a := rows[i].get(k)
			if a == 0 {
				continue
			}
			f := a / pivot
			lu.lower[i].push(k, f)
			rows[i] = rows[i].eliminate(k, f, rows[k])
		}
	}
	lu.upper = rows
	return lu
}

func (lu *sparseLU) solve(b []float64) []float64 {
	z := make([]float64, lu.n)
	for k, p := range lu.perm {
		z[k] = b[p]
	}
	for k := 0; k < lu.n; k++ {
		l := lu.lower[k]
		for t, c := range l.idx {
			z[k] -= l.val[t] * z[c]
		}
	}

	y := make([]float64, lu.n)
	for k := lu.n - 1; k >= 0; k-- {
		u := lu.upper[k]
		s, diag := z[k], 0.0
		for t, c := range u.idx {
			switch {
			case c > k:
				s -= u.val[t] * y[c]
			case c == k:
				diag = u.val[t]
			}
		}
		y[k] = s / diag
	}
	return y
}
