// Package ad provides the numeric value types the hydraulic correlations are
// generic over: a plain float and a forward-mode dual number that carries a
// gradient alongside its value.
package ad

import "math"

// Scalar is the arithmetic a correlation needs. Comparisons go through Value.
type Scalar[T any] interface {
	Value() float64
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Scale(float64) T
	Shift(float64) T
	Neg() T
	Abs() T
	Log10() T
	Pow(float64) T
	// Const returns c as a T with zero derivatives.
	Const(c float64) T
}

// Float is a Scalar without derivatives.
type Float float64

func (a Float) Value() float64        { return float64(a) }
func (a Float) Add(b Float) Float     { return a + b }
func (a Float) Sub(b Float) Float     { return a - b }
func (a Float) Mul(b Float) Float     { return a * b }
func (a Float) Div(b Float) Float     { return a / b }
func (a Float) Scale(c float64) Float { return a * Float(c) }
func (a Float) Shift(c float64) Float { return a + Float(c) }
func (a Float) Neg() Float            { return -a }
func (a Float) Abs() Float            { return Float(math.Abs(float64(a))) }
func (a Float) Log10() Float          { return Float(math.Log10(float64(a))) }
func (a Float) Pow(p float64) Float   { return Float(math.Pow(float64(a), p)) }
func (a Float) Const(c float64) Float { return Float(c) }

// Sign returns -1, 0 or 1 following the value of a.
func Sign[T Scalar[T]](a T) float64 {
	switch v := a.Value(); {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Min returns a when a <= c, otherwise c as a constant.
func Min[T Scalar[T]](a T, c float64) T {
	if a.Value() <= c {
		return a
	}
	return a.Const(c)
}
