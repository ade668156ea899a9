package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vendwars/vote-ledger/utils/backoff/retrypolicy"
)

func TestRetry_Success_FirstAttempt(t *testing.T) {
	operation := func() (interface{}, error) {
		return "success", nil
	}

	response, err := Retry(context.Background(), operation, retrypolicy.DefaultRetry, func(error) bool { return true })

	assert.NoError(t, err)
	assert.Equal(t, "success", response)
}

func TestRetry_Success_AfterRetries(t *testing.T) {
	attempts := 0
	operation := func() (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return attempts, nil
	}

	policy, err := retrypolicy.New(
		retrypolicy.WithInitialInterval(1),
		retrypolicy.WithBackoffCoefficient(1),
		retrypolicy.WithMaximumInterval(1),
		retrypolicy.WithExpirationInterval(time.Minute),
		retrypolicy.WithMaximumAttempts(5),
	)
	assert.NoError(t, err)

	response, err := Retry(context.Background(), operation, policy, func(error) bool { return true })

	assert.NoError(t, err)
	assert.Equal(t, 3, response)
}

func TestRetry_NonRetriable(t *testing.T) {
	expected := errors.New("fatal")
	attempts := 0
	operation := func() (interface{}, error) {
		attempts++
		return nil, expected
	}

	_, err := Retry(context.Background(), operation, retrypolicy.DefaultRetry, func(error) bool { return false })

	assert.ErrorIs(t, err, expected)
	assert.Equal(t, 1, attempts)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	operation := func() (interface{}, error) {
		return nil, errors.New("should not run")
	}

	_, err := Retry(ctx, operation, retrypolicy.DefaultRetry, func(error) bool { return true })

	assert.ErrorIs(t, err, context.Canceled)
}
