package hydraulics

import (
	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/numerr"
)

// EmulsionParams describes the emulsion transition of an inflow control
// device.
type EmulsionParams interface {
	WidthTransitionRegion() float64
	CriticalValue() float64
	MaxViscosityRatio() float64
}

// SICD is a spiral inflow control device completion.
type SICD struct {
	Strength             float64 `yaml:"strength" json:"strength"`
	DensityCalibration   float64 `yaml:"density_calibration" json:"density_calibration"`
	ViscosityCalibration float64 `yaml:"viscosity_calibration" json:"viscosity_calibration"`
	CriticalWaterCut     float64 `yaml:"critical_value" json:"critical_value"`
	WidthTransition      float64 `yaml:"width_transition" json:"width_transition"`
	MaxViscRatio         float64 `yaml:"max_viscosity_ratio" json:"max_viscosity_ratio"`
	ScalingFactor        float64 `yaml:"scaling_factor" json:"scaling_factor"`
}

// DefaultSICD returns the device defaults used when a completion leaves them
// out.
func DefaultSICD() SICD {
	return SICD{
		Strength:             2.0e5,
		DensityCalibration:   1000.25,
		ViscosityCalibration: 1.45e-3,
		CriticalWaterCut:     0.5,
		WidthTransition:      0.05,
		MaxViscRatio:         5.0,
		ScalingFactor:        1.0,
	}
}

func (s SICD) WidthTransitionRegion() float64 { return s.WidthTransition }
func (s SICD) CriticalValue() float64         { return s.CriticalWaterCut }
func (s SICD) MaxViscosityRatio() float64     { return s.MaxViscRatio }

// Validate reports malformed device parameters.
func (s SICD) Validate() error {
	switch {
	case s.WidthTransition <= 0:
		return numerr.New(numerr.InvalidConfig, "sicd", "non-positive transition width %g", s.WidthTransition)
	case s.MaxViscRatio < 1:
		return numerr.New(numerr.InvalidConfig, "sicd", "max viscosity ratio %g below 1", s.MaxViscRatio)
	case s.DensityCalibration <= 0 || s.ViscosityCalibration <= 0:
		return numerr.New(numerr.InvalidConfig, "sicd", "non-positive calibration fluid")
	case s.ScalingFactor <= 0:
		return numerr.New(numerr.InvalidConfig, "sicd", "non-positive scaling factor %g", s.ScalingFactor)
	}
	return nil
}

// SpiralICDPressureDrop returns the signed pressure drop across a spiral
// ICD:
//
//	dp = strength (density/density_cal)^0.75 (mu/mu_cal)^0.25 q|q|
//
// with q = massRate*scaling/density the volumetric rate through it.
func SpiralICDPressureDrop[T ad.Scalar[T]](s SICD, massRate, density, mu T) T {
	q := massRate.Scale(s.ScalingFactor).Div(density)
	densityTerm := density.Scale(1 / s.DensityCalibration).Pow(0.75)
	viscosityTerm := mu.Scale(1 / s.ViscosityCalibration).Pow(0.25)
	return q.Mul(q.Abs()).Mul(densityTerm).Mul(viscosityTerm).Scale(s.Strength)
}
