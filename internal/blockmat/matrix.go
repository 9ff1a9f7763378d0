// Package blockmat provides the block compressed-row matrix and block vector
// the segment solver works on. Each entry of a Matrix is a dense bs×bs block
// stored row-major; the sparsity pattern is fixed at construction.
package blockmat

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrBadShape     = errors.New("blockmat: invalid shape")
	ErrNotInPattern = errors.New("blockmat: block not in sparsity pattern")
)

// Matrix is an n×n block matrix in block compressed-row storage.
type Matrix struct {
	n, bs  int
	rowPtr []int
	cols   []int
	vals   []float64
}

// NewMatrix allocates a zero matrix whose row i holds blocks at the columns
// listed in pattern[i]. Duplicate columns are merged.
func NewMatrix(n, bs int, pattern [][]int) (*Matrix, error) {
	if n < 1 || bs < 1 || len(pattern) != n {
		return nil, fmt.Errorf("%w: n=%d bs=%d rows=%d", ErrBadShape, n, bs, len(pattern))
	}

	m := &Matrix{n: n, bs: bs, rowPtr: make([]int, n+1)}
	for i, row := range pattern {
		cols := append([]int(nil), row...)
		sort.Ints(cols)
		prev := -1
		for _, c := range cols {
			if c < 0 || c >= n {
				return nil, fmt.Errorf("%w: column %d in row %d", ErrBadShape, c, i)
			}
			if c == prev {
				continue
			}
			m.cols = append(m.cols, c)
			prev = c
		}
		m.rowPtr[i+1] = len(m.cols)
	}
	m.vals = make([]float64, len(m.cols)*bs*bs)
	return m, nil
}

// Tridiagonal returns the pattern of a block tridiagonal matrix.
func Tridiagonal(n int) [][]int {
	pattern := make([][]int, n)
	for i := range pattern {
		for j := i - 1; j <= i+1; j++ {
			if j >= 0 && j < n {
				pattern[i] = append(pattern[i], j)
			}
		}
	}
	return pattern
}

// N returns the number of block rows.
func (m *Matrix) N() int { return m.n }

// BlockSize returns the block dimension.
func (m *Matrix) BlockSize() int { return m.bs }

// NNZ returns the number of stored blocks.
func (m *Matrix) NNZ() int { return len(m.cols) }

// Row returns the sorted column indices of block row i.
func (m *Matrix) Row(i int) []int { return m.cols[m.rowPtr[i]:m.rowPtr[i+1]] }

// Structure identifies the sparsity pattern; two matrices with equal
// structures can share a symbolic factorization.
type Structure struct {
	N, BlockSize, NNZ int
	hash              uint64
}

// Structure returns the pattern signature of m.
func (m *Matrix) Structure() Structure {
	// FNV-1a over row pointers and columns
	h := uint64(14695981039346656037)
	mix := func(v int) {
		h ^= uint64(v)
		h *= 1099511628211
	}
	for _, p := range m.rowPtr {
		mix(p)
	}
	for _, c := range m.cols {
		mix(c)
	}
	return Structure{N: m.n, BlockSize: m.bs, NNZ: len(m.cols), hash: h}
}

func (m *Matrix) find(i, j int) int {
	row := m.Row(i)
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return m.rowPtr[i] + k
	}
	return -1
}

// Has reports whether block (i, j) is in the pattern.
func (m *Matrix) Has(i, j int) bool {
	return i >= 0 && i < m.n && m.find(i, j) >= 0
}

// Block returns the row-major storage of block (i, j), or nil when the block
// is not in the pattern. Writes through the slice modify m.
func (m *Matrix) Block(i, j int) []float64 {
	k := m.find(i, j)
	if k < 0 {
		return nil
	}
	sz := m.bs * m.bs
	return m.vals[k*sz : (k+1)*sz]
}

// At returns element (r, c) of block (i, j); blocks outside the pattern
// read as zero.
func (m *Matrix) At(i, j, r, c int) float64 {
	b := m.Block(i, j)
	if b == nil {
		return 0
	}
	return b[r*m.bs+c]
}

// Set writes element (r, c) of block (i, j).
func (m *Matrix) Set(i, j, r, c int, v float64) error {
	b := m.Block(i, j)
	if b == nil {
		return fmt.Errorf("%w: (%d, %d)", ErrNotInPattern, i, j)
	}
	b[r*m.bs+c] = v
	return nil
}

// SetBlock copies a row-major bs×bs block into (i, j).
func (m *Matrix) SetBlock(i, j int, block []float64) error {
	b := m.Block(i, j)
	if b == nil {
		return fmt.Errorf("%w: (%d, %d)", ErrNotInPattern, i, j)
	}
	if len(block) != len(b) {
		return fmt.Errorf("%w: block has %d values, want %d", ErrBadShape, len(block), len(b))
	}
	copy(b, block)
	return nil
}

// AddBlock accumulates a row-major bs×bs block into (i, j).
func (m *Matrix) AddBlock(i, j int, block []float64) error {
	b := m.Block(i, j)
	if b == nil {
		return fmt.Errorf("%w: (%d, %d)", ErrNotInPattern, i, j)
	}
	if len(block) != len(b) {
		return fmt.Errorf("%w: block has %d values, want %d", ErrBadShape, len(block), len(b))
	}
	for k, v := range block {
		b[k] += v
	}
	return nil
}

// Zero clears all values, keeping the pattern.
func (m *Matrix) Zero() {
	for i := range m.vals {
		m.vals[i] = 0
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		n:      m.n,
		bs:     m.bs,
		rowPtr: append([]int(nil), m.rowPtr...),
		cols:   append([]int(nil), m.cols...),
		vals:   append([]float64(nil), m.vals...),
	}
}

// MulVec returns m*x.
func (m *Matrix) MulVec(x Vector) Vector {
	y := NewVector(m.n, m.bs)
	for i := 0; i < m.n; i++ {
		yi := y.Block(i)
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			xj := x.Block(m.cols[k])
			b := m.vals[k*m.bs*m.bs : (k+1)*m.bs*m.bs]
			for r := 0; r < m.bs; r++ {
				for c := 0; c < m.bs; c++ {
					yi[r] += b[r*m.bs+c] * xj[c]
				}
			}
		}
	}
	return y
}

// Dense expands m into a gonum dense matrix of size n*bs.
func (m *Matrix) Dense() *mat.Dense {
	sz := m.n * m.bs
	d := mat.NewDense(sz, sz, nil)
	for i := 0; i < m.n; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			j := m.cols[k]
			b := m.vals[k*m.bs*m.bs : (k+1)*m.bs*m.bs]
			for r := 0; r < m.bs; r++ {
				for c := 0; c < m.bs; c++ {
					d.Set(i*m.bs+r, j*m.bs+c, b[r*m.bs+c])
				}
			}
		}
	}
	return d
}

// DenseBlocks is a fully populated n×n block matrix, the shape of an
// explicit inverse.
type DenseBlocks struct {
	N, BlockSize int
	Data         *mat.Dense
}

// NewDenseBlocks allocates a zero n×n block matrix.
func NewDenseBlocks(n, bs int) *DenseBlocks {
	return &DenseBlocks{N: n, BlockSize: bs, Data: mat.NewDense(n*bs, n*bs, nil)}
}

// At returns element (r, c) of block (i, j).
func (d *DenseBlocks) At(i, j, r, c int) float64 {
	return d.Data.At(i*d.BlockSize+r, j*d.BlockSize+c)
}

// Set writes element (r, c) of block (i, j).
func (d *DenseBlocks) Set(i, j, r, c int, v float64) {
	d.Data.Set(i*d.BlockSize+r, j*d.BlockSize+c, v)
}

// MulVec returns d*x.
func (d *DenseBlocks) MulVec(x Vector) Vector {
	y := NewVector(d.N, d.BlockSize)
	out := mat.NewVecDense(d.N*d.BlockSize, y.data)
	out.MulVec(d.Data, mat.NewVecDense(len(x.data), x.data))
	return y
}
