// Package linalg solves the per-well segment systems D·y = x.
//
// Three paths are available:
//
//   - [Solve] and [Invert]: direct sparse LU factorization cached in a
//     caller-owned [Handle] (factor once, solve many)
//   - [IterativeSolve]: block ILU(0) preconditioned BiCGSTAB
//   - [DenseSolve] and [DenseInverse]: gonum dense LU, for tiny wells and
//     cross-checks
//
// # Capability gate
//
// The direct backend is compiled in by default. Building with
//
//	go build -tags nosparselu ./...
//
// removes it; [Solve] and [Invert] then fail immediately with
// numerr.ErrCapabilityUnavailable.
//
// # Thread Safety
//
// A Handle is NOT safe for concurrent use. Each well owns its own handle;
// distinct wells can be solved in parallel.
package linalg
