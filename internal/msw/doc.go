// Package msw models a multi-segment well as a chain of segments, each
// carrying a pressure and a mass rate, and solves its flow equations with
// Newton iterations on top of the segment solvers in package linalg.
//
// Segment 0 is the top segment and discharges into the wellhead at the
// well's top pressure; segment i discharges into segment i-1. Rates are
// positive toward the surface. For every segment two residuals are kept:
//
//	pressure: p_i - p_(i-1) - dp_i(w_i)
//	mass:     w_i - w_(i+1) - q_i
//
// where dp_i is the hydrostatic head plus the signed friction, valve and
// spiral ICD losses, and q_i the reservoir inflow. The Jacobian is block
// tridiagonal with 2×2 blocks; its local derivatives come from package ad.
package msw
