package retrypolicy

import (
	"errors"
	"time"
)

// WithInitialInterval - set the initial interval for the retry policy
func WithInitialInterval(interval time.Duration) Option {
	return func(policy *policy) error {
		if interval < 0 {
			return errors.New("initial interval cannot be negative")
		}
		policy.initialInterval = interval
		return nil
	}
}

// WithBackoffCoefficient - set the backoff coefficient for the retry policy
func WithBackoffCoefficient(backoffCoefficient float64) Option {
	return func(policy *policy) error {
		if backoffCoefficient < 0 {
			return errors.New("backoff coefficient cannot be negative")
		}
		policy.backoffCoefficient = backoffCoefficient
		return nil
	}
}

// WithMaximumInterval - set the maximum interval for the retry policy
func WithMaximumInterval(interval time.Duration) Option {
	return func(policy *policy) error {
		if interval < 0 {
			return errors.New("maximum interval cannot be negative")
		}
		policy.maximumInterval = interval
		return nil
	}
}

// WithExpirationInterval - set the expiration interval for the retry policy
func WithExpirationInterval(interval time.Duration) Option {
	return func(policy *policy) error {
		if interval < 0 {
			return errors.New("expiration interval cannot be negative")
		}
		policy.expirationInterval = interval
		return nil
	}
}

// WithMaximumAttempts - set the maximum attempts for the retry policy
func WithMaximumAttempts(attempts int) Option {
	return func(policy *policy) error {
		if attempts < 0 {
			return errors.New("maximum attempts cannot be negative")
		}
		policy.maximumAttempt = attempts
		return nil
	}
}
