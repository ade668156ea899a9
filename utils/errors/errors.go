// Package errors - acts as a wrapper around errors providing causes and codes
package errors

import "errors"

// ErrorBundle - and error with a cause and associated data
type ErrorBundle struct {
	cause   error
	message string
	data    interface{}
}

// New creates a new error bundle
func New(cause error, message string, data interface{}) error {
	return &ErrorBundle{
		cause,
		message,
		data,
	}
}

// Wrap wraps an error
func Wrap(cause error, message string) error {
	return &ErrorBundle{
		cause:   cause,
		message: message,
		data:    nil,
	}
}

// Data from error origin
func (err *ErrorBundle) Data() interface{} {
	return err.data
}

// Cause returns the associated cause
func (err *ErrorBundle) Cause() error {
	return err.cause
}

// Unwrap returns the associated cause, supporting errors.Is / errors.As
func (err *ErrorBundle) Unwrap() error {
	return err.cause
}

// Error turns into an error
func (err *ErrorBundle) Error() string {
	return err.message
}

// Is - implement interface for errors.Is to check the message of the target
func (err *ErrorBundle) Is(target error) bool {
	return errors.Is(err.cause, target) || err.message == target.Error()
}
