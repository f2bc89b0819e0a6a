package slimorm

import (
	"errors"
	"fmt"
)

var (
	ErrUninitializedConnection = errors.New("the DB instance has not been initialized")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrPrimaryKeyMissing       = errors.New("primary key not provided")
)

// ErrUnknownOperation is returned when a method is not callable through the
// given caller kind.
type ErrUnknownOperation struct {
	Caller CallerKind
	Method string
}

func (e ErrUnknownOperation) Error() string {
	return fmt.Sprintf("Call to undefined method %s::%s()", e.Caller, e.Method)
}

// ErrPrecondition is returned when a statement would run without a
// safeguard it requires.
type ErrPrecondition struct {
	Reason string
}

func (e ErrPrecondition) Error() string {
	return e.Reason
}

var errWhereMandatory = ErrPrecondition{
	Reason: "the where clause is mandatory in the UPDATE statement",
}
