package blockmat

import "math"

// Vector holds n blocks of bs values in one contiguous slice.
type Vector struct {
	bs   int
	data []float64
}

// NewVector allocates a zero vector of n blocks.
func NewVector(n, bs int) Vector {
	return Vector{bs: bs, data: make([]float64, n*bs)}
}

// VectorFrom wraps flat values as a vector of blocks of size bs.
func VectorFrom(bs int, flat []float64) Vector {
	return Vector{bs: bs, data: flat}
}

// Len returns the number of blocks.
func (v Vector) Len() int {
	if v.bs == 0 {
		return 0
	}
	return len(v.data) / v.bs
}

// BlockSize returns the block dimension.
func (v Vector) BlockSize() int { return v.bs }

func (v Vector) At(i, k int) float64     { return v.data[i*v.bs+k] }
func (v Vector) Set(i, k int, x float64) { v.data[i*v.bs+k] = x }

// Block returns block i; writes modify v.
func (v Vector) Block(i int) []float64 { return v.data[i*v.bs : (i+1)*v.bs] }

// Flat returns the underlying storage.
func (v Vector) Flat() []float64 { return v.data }

func (v Vector) Clone() Vector {
	return Vector{bs: v.bs, data: append([]float64(nil), v.data...)}
}

// Zero clears v in place.
func (v Vector) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	r := v.Clone()
	for i := range r.data {
		r.data[i] -= w.data[i]
	}
	return r
}

// MaxAbs returns the infinity norm.
func (v Vector) MaxAbs() float64 {
	m := 0.0
	for _, x := range v.data {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// Finite reports whether every element is neither Inf nor NaN, and returns
// the first offending position otherwise.
func (v Vector) Finite() (ok bool, block, elem int) {
	for i, x := range v.data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false, i / v.bs, i % v.bs
		}
	}
	return true, -1, -1
}
