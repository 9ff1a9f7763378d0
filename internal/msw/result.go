package msw

import "github.com/san-kum/mswell/internal/ad"

// Result is the converged state of a well.
type Result struct {
	Well       string    `json:"well"`
	Method     Method    `json:"method"`
	Iterations int       `json:"iterations"`
	Residual   float64   `json:"residual"`
	Segments   []string  `json:"segments"`
	Pressures  []float64 `json:"pressures"`
	Rates      []float64 `json:"rates"`
	Drops      []float64 `json:"drops"`
}

// BottomPressure returns the pressure of the deepest segment.
func (r *Result) BottomPressure() float64 {
	return r.Pressures[len(r.Pressures)-1]
}

func (w *Well) result(iterations int, residual float64) (*Result, error) {
	n := len(w.Segments)
	r := &Result{
		Well:       w.Name,
		Method:     w.Options.Method,
		Iterations: iterations,
		Residual:   residual,
		Segments:   make([]string, n),
		Pressures:  make([]float64, n),
		Rates:      make([]float64, n),
		Drops:      make([]float64, n),
	}
	for i, seg := range w.Segments {
		r.Segments[i] = seg.Name
		r.Pressures[i] = w.Pressure(i)
		r.Rates[i] = w.Rate(i)
		dp, err := PressureDrop(seg, ad.Float(r.Rates[i]))
		if err != nil {
			return nil, err
		}
		r.Drops[i] = dp.Value()
	}
	return r, nil
}
