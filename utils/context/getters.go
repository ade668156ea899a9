package context

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GetStringFromContext - given a CTXKey return the string value from the context if it exists
func GetStringFromContext(ctx context.Context, key CTXKey) (string, error) {
	v := ctx.Value(key)
	if v == nil {
		return "", ErrNotInContext
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", ErrValueWrongType
}

// GetIntFromContext - given a CTXKey return the int value from the context if it exists
func GetIntFromContext(ctx context.Context, key CTXKey) (int, error) {
	v := ctx.Value(key)
	if v == nil {
		return 0, ErrNotInContext
	}
	if i, ok := v.(int); ok {
		return i, nil
	}
	return 0, ErrValueWrongType
}

// GetDurationFromContext - given a CTXKey return the duration value from the context if it exists
func GetDurationFromContext(ctx context.Context, key CTXKey) (time.Duration, error) {
	v := ctx.Value(key)
	if v == nil {
		return 0, ErrNotInContext
	}
	if d, ok := v.(time.Duration); ok {
		return d, nil
	}
	return 0, ErrValueWrongType
}

// GetLogLevelFromContext - return the log level from the context if it exists
func GetLogLevelFromContext(ctx context.Context, key CTXKey) (zerolog.Level, error) {
	v := ctx.Value(key)
	if v == nil {
		return zerolog.InfoLevel, ErrNotInContext
	}
	if l, ok := v.(zerolog.Level); ok {
		return l, nil
	}
	return zerolog.InfoLevel, ErrValueWrongType
}

// GetLogger - return the logger value from the context if it exists
func GetLogger(ctx context.Context) (*zerolog.Logger, error) {
	v := ctx.Value(LoggerCTXKey)
	if v == nil {
		return nil, ErrNotInContext
	}
	if l, ok := v.(*zerolog.Logger); ok {
		return l, nil
	}
	return nil, ErrValueWrongType
}
