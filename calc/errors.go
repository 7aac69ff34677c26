package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero is returned when an expression divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrProhibited is returned for expressions that look like code rather than arithmetic.
	ErrProhibited = errors.New("contains prohibited operations")

	// ErrInvalidCharacters is returned for input outside the calculator's alphabet.
	ErrInvalidCharacters = errors.New("contains invalid characters")

	// ErrNotFinite is returned when the result overflows or is undefined.
	ErrNotFinite = errors.New("result is not a finite number")
)

// SyntaxError reports a malformed expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// DomainError reports a function argument outside its domain, such as sqrt(-1).
type DomainError struct {
	Func string
	Msg  string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Msg)
}
