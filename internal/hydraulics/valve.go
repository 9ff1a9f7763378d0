package hydraulics

import "github.com/san-kum/mswell/internal/ad"

// MinConstrictionArea bounds the valve constriction area from below.
const MinConstrictionArea = 1e-10

// ValveConstrictionPressureLoss returns mass_rate^2 / (2 density cv^2 area^2).
// Velocity is written as mass_rate/(density area). areaCon below
// [MinConstrictionArea], including zero and negative values, is clamped.
func ValveConstrictionPressureLoss[T ad.Scalar[T]](massRate, density T, areaCon, cv float64) T {
	area := areaCon
	if area <= MinConstrictionArea {
		area = MinConstrictionArea
	}
	return massRate.Mul(massRate).Div(density.Scale(2 * cv * cv * area * area))
}

// VelocityHead returns mass_rate^2 / (area^2 density). The missing 1/2 is the
// same empirical factor of 2 carried by [FrictionPressureLoss].
func VelocityHead[T ad.Scalar[T]](area float64, massRate, density T) T {
	return massRate.Mul(massRate).Div(density.Scale(area * area))
}
