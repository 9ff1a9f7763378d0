//go:build nosparselu

package linalg

import "github.com/san-kum/mswell/internal/blockmat"

const (
	directBackendName = "sparselu"
	directAvailable   = false
)

func newDirect(d *blockmat.Matrix) (factorization, error) {
	return nil, capabilityError("Solve")
}
