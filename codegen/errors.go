package codegen

import (
	"errors"
	"fmt"
)

type ErrCode int

const (
	ErrUnknown ErrCode = iota
	// ErrType marks classification and construction failures.
	ErrType
	// ErrExecution marks failures while evaluating a batch.
	ErrExecution
)

type Error struct {
	Code ErrCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func TypeErrorf(format string, args ...interface{}) *Error {
	return &Error{Code: ErrType, Msg: fmt.Sprintf(format, args...)}
}

func ExecErrorf(format string, args ...interface{}) *Error {
	return &Error{Code: ErrExecution, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}

func IsTypeError(err error) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code == ErrType
	}
	return false
}
