package ad

import "math"

// Dual is a forward-mode automatic differentiation number. D holds the
// derivatives with respect to the seeded variables; a nil or shorter D is
// treated as zero-extended.
type Dual struct {
	V float64
	D []float64
}

// Variable returns a Dual with value v and unit derivative in slot i of n.
func Variable(v float64, i, n int) Dual {
	d := make([]float64, n)
	d[i] = 1
	return Dual{V: v, D: d}
}

// Constant returns a Dual with value v and no derivatives.
func Constant(v float64) Dual { return Dual{V: v} }

// Deriv returns the derivative in slot i.
func (a Dual) Deriv(i int) float64 {
	if i < len(a.D) {
		return a.D[i]
	}
	return 0
}

func (a Dual) Value() float64 { return a.V }

// combine returns ca*a.D + cb*b.D.
func combine(a []float64, ca float64, b []float64, cb float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return nil
	}
	d := make([]float64, n)
	for i := range a {
		d[i] = ca * a[i]
	}
	for i := range b {
		d[i] += cb * b[i]
	}
	return d
}

func scaled(a []float64, c float64) []float64 {
	return combine(a, c, nil, 0)
}

func (a Dual) Add(b Dual) Dual {
	return Dual{V: a.V + b.V, D: combine(a.D, 1, b.D, 1)}
}

func (a Dual) Sub(b Dual) Dual {
	return Dual{V: a.V - b.V, D: combine(a.D, 1, b.D, -1)}
}

func (a Dual) Mul(b Dual) Dual {
	return Dual{V: a.V * b.V, D: combine(a.D, b.V, b.D, a.V)}
}

func (a Dual) Div(b Dual) Dual {
	inv := 1 / b.V
	return Dual{V: a.V * inv, D: combine(a.D, inv, b.D, -a.V*inv*inv)}
}

func (a Dual) Scale(c float64) Dual {
	return Dual{V: a.V * c, D: scaled(a.D, c)}
}

func (a Dual) Shift(c float64) Dual {
	return Dual{V: a.V + c, D: scaled(a.D, 1)}
}

func (a Dual) Neg() Dual { return a.Scale(-1) }

func (a Dual) Abs() Dual {
	if a.V < 0 {
		return a.Neg()
	}
	return Dual{V: a.V, D: scaled(a.D, 1)}
}

func (a Dual) Log10() Dual {
	return Dual{V: math.Log10(a.V), D: scaled(a.D, 1/(a.V*math.Ln10))}
}

func (a Dual) Pow(p float64) Dual {
	v := math.Pow(a.V, p)
	var dv float64
	if p != 0 {
		dv = p * math.Pow(a.V, p-1)
	}
	return Dual{V: v, D: scaled(a.D, dv)}
}

func (a Dual) Const(c float64) Dual { return Dual{V: c} }
