package clients

import (
	"errors"

	errorutils "github.com/vendwars/vote-ledger/utils/errors"
)

var (
	// ErrUnableToDecode unable to decode body
	ErrUnableToDecode = "unable to decode response"
	// ErrProtocolError the error was within the data that went into the endpoint
	ErrProtocolError = "protocol error"
	// ErrUnableToEscapeURL the url could not be escaped
	ErrUnableToEscapeURL = "unable to escape url"
	// ErrInvalidHost the host was invalid
	ErrInvalidHost = "invalid host"
	// ErrMalformedRequest the request was malformed
	ErrMalformedRequest = "malformed request"
	// ErrUnableToEncodeBody body could not be encoded
	ErrUnableToEncodeBody = "unable to encode body"
)

// HTTPState captures the state of the response to be read by lower fns in the stack
type HTTPState struct {
	Status int
	Path   string
	Body   interface{}
}

// NewHTTPError creates a new response error
// This returns an *errorutils.ErrorBundle which wraps an HTTPState as its data field
func NewHTTPError(err error, path, message string, status int, v interface{}) error {
	return errorutils.New(err, message, HTTPState{
		Status: status,
		Path:   path,
		Body:   v,
	})
}

// UnwrapHTTPState is a helper to retrieve the wrapped HTTPState from an error
func UnwrapHTTPState(err error) (*HTTPState, bool) {
	var errorBundle *errorutils.ErrorBundle
	if errors.As(err, &errorBundle) {
		if httpState, ok := errorBundle.Data().(HTTPState); ok {
			return &httpState, true
		}
	}
	return nil, false
}
