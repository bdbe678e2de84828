package httperr

import (
	"errors"
	"fmt"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a business code to an infrastructure error, keeping it
// reachable through errors.Is / errors.As.
func Wrap(code string, err error, message string) error {
	return BusinessError{Code: code, Message: message, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "" when err is not a
// BusinessError.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// MessageOf returns the human message of a BusinessError, falling back to its
// code.
func MessageOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		if be.Message != "" {
			return be.Message
		}
		return be.Code
	}
	return err.Error()
}
