package msw

import (
	"fmt"
	"math"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/numerr"
)

// Gravity is the standard acceleration of gravity in m/s².
const Gravity = 9.80665

// Kind is the completion type of a segment.
type Kind string

const (
	Pipe  Kind = "pipe"
	SICD  Kind = "sicd"
	Valve Kind = "valve"
)

// Fluid is the liquid in a segment. Fractions are volume fractions and need
// not add up to one; gas is ignored.
type Fluid struct {
	WaterFraction  float64 `yaml:"water_fraction" json:"water_fraction"`
	OilFraction    float64 `yaml:"oil_fraction" json:"oil_fraction"`
	WaterDensity   float64 `yaml:"water_density" json:"water_density"`
	OilDensity     float64 `yaml:"oil_density" json:"oil_density"`
	WaterViscosity float64 `yaml:"water_viscosity" json:"water_viscosity"`
	OilViscosity   float64 `yaml:"oil_viscosity" json:"oil_viscosity"`
}

func (f Fluid) mix(water, oil float64) float64 {
	liquid := f.WaterFraction + f.OilFraction
	if liquid == 0 {
		return oil
	}
	return (f.WaterFraction*water + f.OilFraction*oil) / liquid
}

// Density returns the liquid mixture density. Without liquid the oil
// density is used.
func (f Fluid) Density() float64 { return f.mix(f.WaterDensity, f.OilDensity) }

// Viscosity returns the volume weighted liquid viscosity.
func (f Fluid) Viscosity() float64 { return f.mix(f.WaterViscosity, f.OilViscosity) }

// ValveSpec describes a constriction valve.
type ValveSpec struct {
	Area float64 `yaml:"area" json:"area"`
	Cv   float64 `yaml:"cv" json:"cv"`
}

// Segment is one hydraulic element of the well.
type Segment struct {
	Name       string  `yaml:"name" json:"name"`
	Kind       Kind    `yaml:"kind" json:"kind"`
	Length     float64 `yaml:"length" json:"length"`
	DeltaDepth float64 `yaml:"delta_depth" json:"delta_depth"`
	Diameter   float64 `yaml:"diameter" json:"diameter"`
	Roughness  float64 `yaml:"roughness" json:"roughness"`
	// Area defaults to the circular cross-section of Diameter.
	Area   float64 `yaml:"area,omitempty" json:"area,omitempty"`
	Inflow float64 `yaml:"inflow" json:"inflow"`
	Fluid  Fluid   `yaml:"fluid" json:"fluid"`

	Valve *ValveSpec       `yaml:"valve,omitempty" json:"valve,omitempty"`
	SICD  *hydraulics.SICD `yaml:"sicd,omitempty" json:"sicd,omitempty"`
}

// CrossSection returns the flow area of the segment.
func (s Segment) CrossSection() float64 {
	if s.Area > 0 {
		return s.Area
	}
	return math.Pi * s.Diameter * s.Diameter / 4
}

// Validate checks geometry, fluid and device parameters.
func (s Segment) Validate() error {
	bad := func(format string, args ...any) error {
		return numerr.New(numerr.InvalidConfig, "segment "+s.Name, format, args...)
	}
	switch {
	case s.Diameter <= 0:
		return bad("non-positive diameter %g", s.Diameter)
	case s.Length < 0:
		return bad("negative length %g", s.Length)
	case s.Roughness < 0:
		return bad("negative roughness %g", s.Roughness)
	case s.Fluid.WaterFraction < 0 || s.Fluid.OilFraction < 0:
		return bad("negative phase fraction")
	case s.Fluid.Density() <= 0:
		return bad("non-positive fluid density")
	case s.Fluid.Viscosity() <= 0:
		return bad("non-positive fluid viscosity")
	}

	switch s.Kind {
	case Pipe:
	case Valve:
		if s.Valve == nil {
			return bad("valve segment without valve parameters")
		}
		if s.Valve.Cv <= 0 {
			return bad("non-positive valve cv %g", s.Valve.Cv)
		}
	case SICD:
		if s.SICD == nil {
			return bad("sicd segment without device parameters")
		}
		if err := s.SICD.Validate(); err != nil {
			return fmt.Errorf("segment %s: %w", s.Name, err)
		}
	default:
		return bad("unknown segment kind %q", s.Kind)
	}
	return nil
}

// PressureDrop returns the pressure difference between the segment and its
// outlet at mass rate w.
func PressureDrop[T ad.Scalar[T]](s Segment, w T) (T, error) {
	rho := s.Fluid.Density()
	density := w.Const(rho)
	sign := ad.Sign(w)

	dp := w.Const(rho * Gravity * s.DeltaDepth)

	friction, err := hydraulics.FrictionPressureLoss(s.Length, s.Diameter, s.CrossSection(), s.Roughness,
		density, w, w.Const(s.Fluid.Viscosity()))
	if err != nil {
		return dp, err
	}
	dp = dp.Add(friction.Scale(sign))

	switch s.Kind {
	case Valve:
		loss := hydraulics.ValveConstrictionPressureLoss(w, density, s.Valve.Area, s.Valve.Cv)
		dp = dp.Add(loss.Scale(sign))
	case SICD:
		f := s.Fluid
		mu, err := hydraulics.EmulsionViscosity(w.Const(f.WaterFraction), w.Const(f.WaterViscosity),
			w.Const(f.OilFraction), w.Const(f.OilViscosity), *s.SICD)
		if err != nil {
			return dp, err
		}
		if mu.Value() == 0 {
			mu = w.Const(f.Viscosity())
		}
		dp = dp.Add(hydraulics.SpiralICDPressureDrop(*s.SICD, w, density, mu))
	}
	return dp, nil
}
