package vector

import "errors"

// Vector and range argument errors
var (
	ErrDivisionByZero = errors.New("vector: division by zero component")
	ErrNotIntegral    = errors.New("vector: operation requires integral components")
	ErrZeroStep       = errors.New("vector: no element of step may be zero")
	ErrNotInRange     = errors.New("vector: not in range")
)
