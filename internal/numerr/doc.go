// Package numerr defines the error taxonomy shared by the hydraulics and
// segment solver packages.
//
// Every failure reported by this module belongs to one of four kinds:
//
//   - [InvalidConfig]: malformed physical input, never retried
//   - [NumericalIssue]: non-finite solution after a direct solve
//   - [ConvergenceFailure]: iterative solver hit its iteration cap
//   - [CapabilityUnavailable]: solver backend not compiled in
//
// Callers branch with errors.Is against the sentinels or with [KindOf]:
//
//	y, err := linalg.Solve(d, h, x)
//	if errors.Is(err, numerr.ErrNumericalIssue) {
//		// chop the time step
//	}
package numerr
