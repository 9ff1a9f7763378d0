package numerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	Unknown Kind = iota
	InvalidConfig
	NumericalIssue
	ConvergenceFailure
	CapabilityUnavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidConfig:
		return "invalid configuration"
	case NumericalIssue:
		return "numerical issue"
	case ConvergenceFailure:
		return "convergence failure"
	case CapabilityUnavailable:
		return "capability unavailable"
	default:
		return "unknown"
	}
}

// Sentinels, one per kind.
var (
	// ErrInvalidConfig indicates malformed physical input such as a
	// non-positive ICD transition width.
	ErrInvalidConfig = errors.New("mswell: invalid configuration")

	// ErrNumericalIssue indicates a singular or ill-conditioned system.
	ErrNumericalIssue = errors.New("mswell: numerical issue")

	// ErrConvergenceFailure indicates an iterative method exceeded its cap.
	ErrConvergenceFailure = errors.New("mswell: convergence failure")

	// ErrCapabilityUnavailable indicates a solver backend missing from the build.
	ErrCapabilityUnavailable = errors.New("mswell: capability unavailable")
)

func (k Kind) sentinel() error {
	switch k {
	case InvalidConfig:
		return ErrInvalidConfig
	case NumericalIssue:
		return ErrNumericalIssue
	case ConvergenceFailure:
		return ErrConvergenceFailure
	case CapabilityUnavailable:
		return ErrCapabilityUnavailable
	default:
		return nil
	}
}

// Error carries the operation that failed along with its kind. Iterations and
// Reduction are only filled for convergence failures.
type Error struct {
	Kind       Kind
	Op         string
	Msg        string
	Iterations int
	Reduction  float64
	Wrapped    error
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Msg
	if e.Kind == ConvergenceFailure {
		s += fmt.Sprintf(" (iterations=%d, reduction=%.3e)", e.Iterations, e.Reduction)
	}
	if e.Wrapped != nil {
		s += ": " + e.Wrapped.Error()
	}
	return s
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Wrapped != nil {
		errs = append(errs, e.Wrapped)
	}
	return errs
}

// New returns an *Error of the given kind.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Wrapped: err}
}

// KindOf reports the kind of err, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []Kind{InvalidConfig, NumericalIssue, ConvergenceFailure, CapabilityUnavailable} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return Unknown
}
