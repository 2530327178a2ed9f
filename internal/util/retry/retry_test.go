package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	ctx := context.Background()
	err := WithExponentialBackoff(ctx, operation)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_EventualSuccess(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("throttled")
		}
		return nil
	}

	ctx := context.Background()
	err := WithExponentialBackoff(ctx, operation,
		WithMaxRetries(5),
		WithInitialDelay(time.Millisecond))

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("persistent failure")
	}

	ctx := context.Background()
	err := WithExponentialBackoff(ctx, operation,
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got: %d", attempts)
	}
}

func TestWithExponentialBackoff_FatalNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	cause := errors.New("invalid parameter")
	operation := func() error {
		attempts++
		return Fatal(cause)
	}

	ctx := context.Background()
	err := WithExponentialBackoff(ctx, operation,
		WithMaxRetries(5),
		WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("Expected error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for fatal error, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		cancel()
		return errors.New("failing")
	}

	err := WithExponentialBackoff(ctx, operation,
		WithMaxRetries(5),
		WithInitialDelay(time.Second))

	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got: %d", attempts)
	}
}

func TestFatal_Nil(t *testing.T) {
	t.Parallel()
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) should return nil")
	}
	if IsFatal(nil) {
		t.Error("IsFatal(nil) should be false")
	}
}
