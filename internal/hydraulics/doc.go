// Package hydraulics implements the closure relations of a multi-segment well
// segment: friction factor and frictional pressure loss, valve constriction
// loss, velocity head, spiral ICD pressure drop and oil/water emulsion
// viscosity.
//
// All functions are pure and generic over [ad.Scalar], so the same code
// evaluates plain values (ad.Float) and values with derivatives (ad.Dual)
// for Newton Jacobian assembly.
//
// # Regime blending
//
// Both the friction factor and the emulsion viscosity switch between two
// correlations. Each switch is bridged by a linear blend across a transition
// band so the result stays continuous in its argument:
//
//	re < 2000          laminar     f = 16/re
//	2000 <= re <= 4000 transition  linear in re
//	re > 4000          turbulent   Haaland
//
// # Units
//
// SI throughout: lengths in m, areas in m^2, mass rates in kg/s, densities
// in kg/m^3, viscosities in Pa·s, pressures in Pa.
package hydraulics
