package requestutils

// CTXKey - the type for context keys in this package
type CTXKey string

const (
	// RequestID - the context key for the request id
	RequestID CTXKey = "request-id"
)

var (
	// RequestIDHeaderKey - the request header key for the request id
	RequestIDHeaderKey = "x-request-id"
)
