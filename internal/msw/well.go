package msw

import (
	"context"
	"fmt"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/blockmat"
	"github.com/san-kum/mswell/internal/deferlog"
	"github.com/san-kum/mswell/internal/linalg"
	"github.com/san-kum/mswell/internal/numerr"
)

// Method selects how the Newton update D·dx = R is solved.
type Method string

const (
	Direct    Method = "direct"
	Iterative Method = "iterative"
	Dense     Method = "dense"
)

// ParseMethod returns the method named s.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Direct, Iterative, Dense:
		return m, nil
	}
	return "", numerr.New(numerr.InvalidConfig, "method", "unknown solver method %q (want direct, iterative or dense)", s)
}

// Options control the Newton loop.
type Options struct {
	Method    Method  `yaml:"method" json:"method"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	MaxNewton int     `yaml:"max_newton" json:"max_newton"`
}

// DefaultOptions returns the direct method with a 1e-6 residual tolerance and
// 30 Newton iterations.
func DefaultOptions() Options {
	return Options{Method: Direct, Tolerance: 1e-6, MaxNewton: 30}
}

const blockSize = 2

// Well is a multi-segment well and its solver state. A Well is not safe for
// concurrent use.
type Well struct {
	Name        string
	TopPressure float64
	Segments    []Segment
	Options     Options

	d      *blockmat.Matrix
	r      blockmat.Vector
	x      blockmat.Vector
	handle linalg.Handle
	stale  bool
	warned bool
	log    *deferlog.Logger
}

// NewWell validates the segments and returns a well initialized at the top
// pressure with zero rates.
func NewWell(name string, topPressure float64, segments []Segment, opts Options) (*Well, error) {
	if len(segments) == 0 {
		return nil, numerr.New(numerr.InvalidConfig, "well "+name, "no segments")
	}
	if _, err := ParseMethod(string(opts.Method)); err != nil {
		return nil, err
	}
	if opts.Tolerance <= 0 || opts.MaxNewton < 1 {
		return nil, numerr.New(numerr.InvalidConfig, "well "+name,
			"tolerance %g and max_newton %d must be positive", opts.Tolerance, opts.MaxNewton)
	}
	for _, s := range segments {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("well %s: %w", name, err)
		}
	}

	n := len(segments)
	d, err := blockmat.NewMatrix(n, blockSize, blockmat.Tridiagonal(n))
	if err != nil {
		return nil, err
	}
	w := &Well{
		Name:        name,
		TopPressure: topPressure,
		Segments:    append([]Segment(nil), segments...),
		Options:     opts,
		d:           d,
		r:           blockmat.NewVector(n, blockSize),
		x:           blockmat.NewVector(n, blockSize),
		log:         deferlog.New(),
	}
	for i := 0; i < n; i++ {
		w.x.Set(i, 0, topPressure)
	}
	return w, nil
}

// Logger returns the deferred logger the well records its messages on.
func (w *Well) Logger() *deferlog.Logger { return w.log }

// Pressure returns the pressure of segment i.
func (w *Well) Pressure(i int) float64 { return w.x.At(i, 0) }

// Rate returns the mass rate of segment i.
func (w *Well) Rate(i int) float64 { return w.x.At(i, 1) }

// Factorizations returns how many direct factorizations the well has built.
func (w *Well) Factorizations() int { return w.handle.Factorizations() }

// assemble evaluates the residual R and Jacobian D at the current state.
func (w *Well) assemble() error {
	n := len(w.Segments)
	w.d.Zero()
	w.stale = true

	for i, seg := range w.Segments {
		p := ad.Variable(w.x.At(i, 0), 0, blockSize)
		rate := ad.Variable(w.x.At(i, 1), 1, blockSize)

		dp, err := PressureDrop(seg, rate)
		if err != nil {
			return fmt.Errorf("segment %d (%s): %w", i, seg.Name, err)
		}

		outlet := w.TopPressure
		if i > 0 {
			outlet = w.x.At(i-1, 0)
		}
		below := 0.0
		if i+1 < n {
			below = w.x.At(i+1, 1)
		}

		rp := p.Shift(-outlet).Sub(dp)
		rw := rate.Shift(-below - seg.Inflow)

		w.r.Set(i, 0, rp.V)
		w.r.Set(i, 1, rw.V)

		diag := []float64{rp.Deriv(0), rp.Deriv(1), rw.Deriv(0), rw.Deriv(1)}
		if err := w.d.SetBlock(i, i, diag); err != nil {
			return err
		}
		if i > 0 {
			if err := w.d.SetBlock(i, i-1, []float64{-1, 0, 0, 0}); err != nil {
				return err
			}
		}
		if i+1 < n {
			if err := w.d.SetBlock(i, i+1, []float64{0, 0, 0, -1}); err != nil {
				return err
			}
		}
	}
	return nil
}

// refresh drops a factorization that no longer matches the values of D.
func (w *Well) refresh() {
	if w.stale {
		w.handle.Release()
		w.stale = false
	}
}

func (w *Well) linearSolve() (blockmat.Vector, error) {
	switch w.Options.Method {
	case Iterative:
		return linalg.IterativeSolve(w.d, w.r, w.log)
	case Dense:
		dx, err := linalg.DenseSolve(w.d, w.r)
		return dx, w.log.Fail("segment solver", err)
	}

	if name, ok := linalg.DirectBackend(); !ok {
		if !w.warned {
			w.log.Warning("segment solver", "well %s: %s direct backend not built in, using the iterative solver", w.Name, name)
			w.warned = true
		}
		return linalg.IterativeSolve(w.d, w.r, w.log)
	}

	w.refresh()
	dx, err := linalg.Solve(w.d, &w.handle, w.r)
	return dx, w.log.Fail("segment solver", err)
}

// Solve runs Newton iterations until the largest residual drops below the
// tolerance. Failures are also recorded on the well's logger.
func (w *Well) Solve(ctx context.Context) (*Result, error) {
	const tag = "newton"

	var res0, res float64
	for it := 0; it <= w.Options.MaxNewton; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.assemble(); err != nil {
			return nil, w.log.Fail(tag, fmt.Errorf("well %s: %w", w.Name, err))
		}

		res = w.r.MaxAbs()
		if it == 0 {
			res0 = res
		}
		if res < w.Options.Tolerance {
			w.log.Debug(tag, "well %s converged in %d iterations (residual %.3e)", w.Name, it, res)
			return w.result(it, res)
		}
		if it == w.Options.MaxNewton {
			break
		}

		dx, err := w.linearSolve()
		if err != nil {
			return nil, fmt.Errorf("well %s: %w", w.Name, err)
		}
		w.x = w.x.Sub(dx)
	}

	reduction := 1.0
	if res0 > 0 {
		reduction = res / res0
	}
	return nil, w.log.Fail(tag, &numerr.Error{
		Kind:       numerr.ConvergenceFailure,
		Op:         "newton",
		Msg:        fmt.Sprintf("well %s did not converge", w.Name),
		Iterations: w.Options.MaxNewton,
		Reduction:  reduction,
	})
}

// InverseD returns the explicit inverse of the segment Jacobian at the
// current state, the operator used to eliminate the well from a reservoir
// system.
func (w *Well) InverseD() (*blockmat.DenseBlocks, error) {
	if err := w.assemble(); err != nil {
		return nil, w.log.Fail("inverse", err)
	}
	if w.Options.Method == Dense {
		inv, err := linalg.DenseInverse(w.d)
		return inv, w.log.Fail("inverse", err)
	}
	w.refresh()
	inv, err := linalg.Invert(w.d, &w.handle)
	return inv, w.log.Fail("inverse", err)
}

// Close releases the cached factorization.
func (w *Well) Close() {
	w.handle.Release()
}
