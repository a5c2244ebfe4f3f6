package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
)

// AppError is a domain failure carrying an error code. It satisfies the
// coder interface failure.Code looks for, so codes survive wrapping.
type AppError struct {
	code    failure.ErrorCode
	message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}

	return e.message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) Code() failure.ErrorCode {
	return e.code
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		code:    code,
		message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		code:    code,
		message: message,
		cause:   err,
	}
}

// HasCode reports whether err or anything it wraps is an AppError with code.
func HasCode(err error, code failure.ErrorCode) bool {
	var appErr *AppError

	return errors.As(err, &appErr) && appErr.code == code
}

// Innermost returns the deepest AppError in err's chain. Its text is free of
// the call-site context the outer layers add.
func Innermost(err error) (*AppError, bool) {
	var last *AppError

	for {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}

		last = appErr
		err = appErr.cause
	}

	return last, last != nil
}

// ItemError ties a failure to its position in a batch.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
