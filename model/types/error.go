package types

import (
	"errors"
	"fmt"
)

var (
	ErrMethodNotFound = errors.New("method not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidOutput  = errors.New("invalid output")
)

func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("%w: %v", ErrMethodNotFound, name)
}

func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("%w %T", ErrInvalidInput, in)
}

func NewInvalidOutputError(out interface{}) error {
	return fmt.Errorf("%w %T", ErrInvalidOutput, out)
}
