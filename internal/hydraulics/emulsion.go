package hydraulics

import (
	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/numerr"
)

const (
	wioCoefficient = 0.8415 / 0.7480
	oiwCoefficient = 0.6019 / 0.6410
	emulsionPower  = 2.5
)

// cappedRatio returns min((1/(1 - k x))^2.5, maxRatio). A non-positive
// denominator is past the correlation's pole and takes the cap.
func cappedRatio[T ad.Scalar[T]](x T, k, maxRatio float64) T {
	denom := x.Scale(-k).Shift(1)
	if denom.Value() <= 0 {
		return x.Const(maxRatio)
	}
	return ad.Min(x.Const(1).Div(denom).Pow(emulsionPower), maxRatio)
}

// WaterInOilViscosity returns the water-in-oil emulsion viscosity at water
// liquid fraction x.
func WaterInOilViscosity[T ad.Scalar[T]](oilViscosity, x T, maxRatio float64) T {
	return oilViscosity.Mul(cappedRatio(x, wioCoefficient, maxRatio))
}

// OilInWaterViscosity returns the oil-in-water emulsion viscosity at water
// liquid fraction x.
func OilInWaterViscosity[T ad.Scalar[T]](waterViscosity, x T, maxRatio float64) T {
	oilFraction := x.Neg().Shift(1)
	return waterViscosity.Mul(cappedRatio(oilFraction, oiwCoefficient, maxRatio))
}

// EmulsionViscosity returns the viscosity of an oil/water emulsion at local
// conditions.
//
// The water liquid fraction x = wf/(wf+of) selects the regime: water-in-oil
// below critical-width/2, oil-in-water above critical+width/2, and a linear
// blend of the two boundary viscosities in between. No liquid gives 0.
func EmulsionViscosity[T ad.Scalar[T]](waterFraction, waterViscosity, oilFraction, oilViscosity T, icd EmulsionParams) (T, error) {
	width := icd.WidthTransitionRegion()
	if width <= 0 {
		return waterFraction.Const(0), numerr.New(numerr.InvalidConfig, "emulsion viscosity",
			"non-positive transition width %g", width)
	}

	critical := icd.CriticalValue()
	start := critical - width/2
	end := critical + width/2

	liquid := waterFraction.Add(oilFraction)
	if liquid.Value() == 0 {
		return waterFraction.Const(0), nil
	}

	x := waterFraction.Div(liquid)
	maxRatio := icd.MaxViscosityRatio()

	switch {
	case x.Value() <= start:
		return WaterInOilViscosity(oilViscosity, x, maxRatio), nil
	case x.Value() >= end:
		return OilInWaterViscosity(waterViscosity, x, maxRatio), nil
	}

	muStart := WaterInOilViscosity(oilViscosity, x.Const(start), maxRatio)
	muEnd := OilInWaterViscosity(waterViscosity, x.Const(end), maxRatio)
	blend := muStart.Mul(x.Neg().Shift(end)).Add(muEnd.Mul(x.Shift(-start)))
	return blend.Scale(1 / width), nil
}
