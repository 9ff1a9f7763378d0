package hydraulics

import (
	"math"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/numerr"
)

// Reynolds number bounds of the laminar/turbulent transition band.
const (
	LaminarReynolds   = 2000.0
	TurbulentReynolds = 4000.0
)

// Reynolds returns |diameter*w / (area*mu)|.
func Reynolds[T ad.Scalar[T]](area, diameter float64, w T, mu T) T {
	return w.Scale(diameter).Div(mu.Scale(area)).Abs()
}

// haaland returns the Haaland-type turbulent friction factor
// 1/value^2 with value = -3.6 log10(6.9/re + (roughness/(3.7 diameter))^(10/9)).
func haaland[T ad.Scalar[T]](re T, diameter, roughness float64) (T, error) {
	rel := math.Pow(roughness/(3.7*diameter), 10.0/9.0)
	value := re.Const(6.9).Div(re).Shift(rel).Log10().Scale(-3.6)

	// sqrt(1/f) must be non-negative; NaN fails too
	if !(value.Value() >= 0) {
		return re.Const(0), numerr.New(numerr.InvalidConfig, "haaland",
			"negative friction correlation %.6g (re=%.6g, diameter=%.6g, roughness=%.6g)",
			value.Value(), re.Value(), diameter, roughness)
	}
	return re.Const(1).Div(value.Mul(value)), nil
}

// FrictionFactor returns the Fanning friction factor of a segment.
//
// A zero Reynolds number must come from zero flow and gives 0; with a
// nonzero rate it is an invalid-configuration error. Below
// [LaminarReynolds] the laminar value 16/re is used, above
// [TurbulentReynolds] the Haaland correlation, and in between f is
// interpolated linearly in re between the two endpoint values.
func FrictionFactor[T ad.Scalar[T]](area, diameter float64, w T, roughness float64, mu T) (T, error) {
	re := Reynolds(area, diameter, w, mu)

	if re.Value() == 0 {
		if w.Value() != 0 {
			return w.Const(0), numerr.New(numerr.InvalidConfig, "friction factor",
				"zero reynolds number with nonzero rate %g", w.Value())
		}
		return w.Const(0), nil
	}

	switch {
	case re.Value() < LaminarReynolds:
		return re.Const(16).Div(re), nil
	case re.Value() > TurbulentReynolds:
		return haaland(re, diameter, roughness)
	}

	f1 := 16.0 / LaminarReynolds
	f2, err := haaland(re.Const(TurbulentReynolds), diameter, roughness)
	if err != nil {
		return w.Const(0), err
	}
	slope := (f2.Value() - f1) / (TurbulentReynolds - LaminarReynolds)
	return re.Shift(-LaminarReynolds).Scale(slope).Shift(f1), nil
}

// FrictionPressureLoss returns the frictional pressure loss over a segment of
// length l:
//
//	dp = 2 f l w^2 / (area^2 diameter density)
//
// The factor 2 is an empirical correction; results calibrated against it
// depend on it.
func FrictionPressureLoss[T ad.Scalar[T]](l, diameter, area, roughness float64, density, w, mu T) (T, error) {
	f, err := FrictionFactor(area, diameter, w, roughness, mu)
	if err != nil {
		return w.Const(0), err
	}
	return f.Mul(w).Mul(w).Scale(2 * l).Div(density.Scale(area * area * diameter)), nil
}
