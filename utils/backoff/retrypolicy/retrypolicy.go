package retrypolicy

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"
)

// Done is returned when CalculateNextDelay is done
const Done time.Duration = -1

type (
	// Retry implementations of this method should return the next delay duration
	Retry interface {
		CalculateNextDelay() time.Duration
	}

	policy struct {
		startTime          time.Time
		currentAttempt     int
		initialInterval    time.Duration
		backoffCoefficient float64
		maximumInterval    time.Duration
		expirationInterval time.Duration
		maximumAttempt     int
	}

	// Option func to build retry policy
	Option func(policy *policy) error
)

// New return a new instance of retry policy
func New(options ...Option) (Retry, error) {
	retryPolicy := new(policy)

	retryPolicy.startTime = time.Now()
	retryPolicy.currentAttempt = 0

	for _, option := range options {
		if err := option(retryPolicy); err != nil {
			return nil, fmt.Errorf("error initializing retry policy %w", err)
		}
	}

	return retryPolicy, nil
}

// CalculateNextDelay returns the next delay interval based on the retry policy
func (p *policy) CalculateNextDelay() time.Duration {

	if p.currentAttempt >= p.maximumAttempt {
		return Done
	}

	elapsedTime := time.Since(p.startTime)

	if elapsedTime >= p.expirationInterval {
		return Done
	}

	nextInterval := float64(p.initialInterval) * math.Pow(p.backoffCoefficient, float64(p.currentAttempt))
	if nextInterval <= 0 {
		return Done
	}

	if p.maximumInterval != 0 {
		nextInterval = math.Min(nextInterval, float64(p.maximumInterval))
	}

	if p.expirationInterval != 0 {
		remainingTime := math.Max(0, float64(p.expirationInterval-elapsedTime))
		nextInterval = math.Min(remainingTime, nextInterval)
	}

	nextDuration := time.Duration(nextInterval)
	if nextDuration < p.initialInterval {
		return Done
	}

	jitter := int64(0.2 * nextInterval)
	if jitter < 1 {
		jitter = 1
	}

	n, err := rand.Int(rand.Reader, big.NewInt(jitter))
	if err != nil || n == nil {
		panic("panic generating random int for jitter")
	}
	nextInterval = nextInterval*0.8 + float64(n.Int64())

	p.currentAttempt++
	return time.Duration(nextInterval)
}
