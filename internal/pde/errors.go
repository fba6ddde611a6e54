package pde

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKind is returned when the option kind is neither CALL nor PUT.
	ErrInvalidKind = errors.New("pde: option kind must be CALL or PUT")

	// ErrInvalidConfig signals a violated Config invariant.
	ErrInvalidConfig = errors.New("pde: invalid configuration")

	// ErrSingular is returned when the implicit operator has a zero or
	// non-finite pivot and cannot be factored.
	ErrSingular = errors.New("pde: singular implicit operator")

	// ErrVerification is returned when a factored step solve disagrees with
	// the dense reference solve by more than the configured tolerance.
	ErrVerification = errors.New("pde: factored solve deviates from dense solve")

	// ErrDimensionMismatch reports vectors whose length does not match the operator.
	ErrDimensionMismatch = errors.New("pde: dimension mismatch")
)

// SingularityError carries the configuration that produced a singular
// implicit operator. It unwraps to ErrSingular.
type SingularityError struct {
	Config Config
	Err    error
}

func (e *SingularityError) Error() string {
	c := e.Config
	return fmt.Sprintf("%v (kind=%s rate=%g volatility=%g maturity=%g strike=%g smin=%g smax=%g N=%d M=%d)",
		e.Err, c.Kind, c.Rate, c.Volatility, c.Maturity, c.Strike, c.SMin, c.SMax, c.TimeSteps, c.PriceSteps)
}

func (e *SingularityError) Unwrap() error { return e.Err }
