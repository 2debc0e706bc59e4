package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStock is returned when no positive finite stock length survives normalization.
	ErrNoStock = errors.New("no valid stock lengths")
	// ErrCutTooLong is returned when a cut exceeds every configured stock length.
	ErrCutTooLong = errors.New("cut exceeds all configured stock lengths")
	// ErrInvalidKerf is returned for a negative or non-finite kerf.
	ErrInvalidKerf = errors.New("kerf must be a finite number 0 or greater")
	// ErrInvalidBudget is returned for a negative time budget.
	ErrInvalidBudget = errors.New("time budget must be 0 or greater")
	// ErrInternal marks a broken invariant inside the engine.
	ErrInternal = errors.New("internal solver error")
)

// ValidationError reports input the engine cannot solve. Msg is the
// caller-facing text; Err is the sentinel used with errors.Is.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

// InternalError wraps an unexpected failure such as a recovered panic.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return e.Msg }
func (e *InternalError) Unwrap() error { return ErrInternal }

// IsValidation reports whether err was caused by invalid input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func errNoStock() error {
	return &ValidationError{Msg: "No valid stock lengths available for exact optimization.", Err: ErrNoStock}
}

func errCutTooLong(cut float64) error {
	return &ValidationError{
		Msg: fmt.Sprintf("Cut %.3f in exceeds all configured stock lengths.", cut),
		Err: ErrCutTooLong,
	}
}

func errInternalf(format string, args ...any) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// Recovered converts a recovered panic value into an InternalError.
func Recovered(v any) error {
	if err, ok := v.(error); ok {
		return errInternalf("internal solver error: %v", err)
	}
	return errInternalf("internal solver error: %v", v)
}
