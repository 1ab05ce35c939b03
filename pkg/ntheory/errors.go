package ntheory

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the arithmetic core. Wrapped errors always match
// one of these with errors.Is.
var (
	ErrNoInverse      = errors.New("modular inverse does not exist")
	ErrNotFound       = errors.New("discrete logarithm not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrCancelled      = errors.New("computation cancelled")
	ErrSecretMismatch = errors.New("shared secrets do not match")
	ErrInvalidMsg     = errors.New("invalid message received")
	ErrProtocolDone   = errors.New("protocol already finished")
)

// OpError records which operation failed and why.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError.
func NewOpError(op string, err error) *OpError {
	return &OpError{
		Op:  op,
		Err: err,
	}
}
