package retry

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   10 * time.Millisecond,
		MaxDelay:       50 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff_Success(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(3), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithBackoff_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	upstreamErr := &HTTPError{StatusCode: 500, Message: "Internal Server Error"}
	err := WithBackoff(context.Background(), fastConfig(2), func() error {
		attempts++
		return upstreamErr
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if !errors.Is(err, upstreamErr) {
		t.Errorf("expected wrapped error to contain upstream error")
	}
}

func TestWithBackoff_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	upstreamErr := &HTTPError{StatusCode: 502, Message: "Bad Gateway"}
	err := WithBackoff(context.Background(), NoRetry(), func() error {
		return upstreamErr
	})

	if err != upstreamErr {
		t.Errorf("expected the upstream error itself, got %v", err)
	}
}

func TestWithBackoff_NonRetryableError(t *testing.T) {
	attempts := 0
	upstreamErr := &HTTPError{StatusCode: 401, Message: "Unauthorized"}
	err := WithBackoff(context.Background(), fastConfig(3), func() error {
		attempts++
		return upstreamErr
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt (non-retryable), got %d", attempts)
	}
	if err != upstreamErr {
		t.Errorf("expected same error, got %v", err)
	}
}

func TestWithBackoff_ZeroAttemptsStillCallsOnce(t *testing.T) {
	attempts := 0
	_ = WithBackoff(context.Background(), Config{}, func() error {
		attempts++
		return nil
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	cfg := fastConfig(5)
	cfg.InitialDelay = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &HTTPError{StatusCode: 500, Message: "Internal Server Error"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "context canceled", err: context.Canceled, retryable: false},
		{name: "context deadline exceeded", err: context.DeadlineExceeded, retryable: false},
		{name: "HTTP 500", err: &HTTPError{StatusCode: 500}, retryable: true},
		{name: "HTTP 503", err: &HTTPError{StatusCode: 503}, retryable: true},
		{name: "HTTP 429", err: &HTTPError{StatusCode: 429}, retryable: true},
		{name: "HTTP 408", err: &HTTPError{StatusCode: 408}, retryable: true},
		{name: "HTTP 401", err: &HTTPError{StatusCode: 401}, retryable: false},
		{name: "HTTP 404", err: &HTTPError{StatusCode: 404}, retryable: false},
		{name: "ECONNREFUSED", err: syscall.ECONNREFUSED, retryable: true},
		{name: "ECONNRESET", err: syscall.ECONNRESET, retryable: true},
		{name: "ETIMEDOUT", err: syscall.ETIMEDOUT, retryable: true},
		{name: "ENETUNREACH", err: syscall.ENETUNREACH, retryable: true},
		{name: "generic error", err: errors.New("decode campaign list"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestNamedConfigs(t *testing.T) {
	if got := CampaignAPIConfig().MaxAttempts; got != 2 {
		t.Errorf("CampaignAPIConfig MaxAttempts = %d, want 2", got)
	}
	if got := FeedConfig().MaxAttempts; got != 3 {
		t.Errorf("FeedConfig MaxAttempts = %d, want 3", got)
	}
	if got := NoRetry().MaxAttempts; got != 1 {
		t.Errorf("NoRetry MaxAttempts = %d, want 1", got)
	}
	if got := DefaultConfig().MaxDelay; got != 10*time.Second {
		t.Errorf("DefaultConfig MaxDelay = %v, want 10s", got)
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Message: "Internal Server Error"}
	if err.Error() != "HTTP 500: Internal Server Error" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAddJitter(t *testing.T) {
	duration := 100 * time.Millisecond
	maxDuration := time.Duration(float64(duration) * 1.2)

	for i := 0; i < 10; i++ {
		result := addJitter(duration, 0.2)
		if result < duration || result > maxDuration {
			t.Errorf("expected result between %v and %v, got %v", duration, maxDuration, result)
		}
	}
}

func TestAddJitter_ZeroFraction(t *testing.T) {
	if result := addJitter(100*time.Millisecond, 0.0); result != 100*time.Millisecond {
		t.Errorf("expected no jitter with fraction=0, got %v", result)
	}
}
