package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docsum/internal/llm"
	"docsum/internal/logging"
)

// Defaults for the retry/backoff controller.
const (
	DefaultMaxAttempts  = 5
	DefaultTimeoutDelay = 5 * time.Second
)

// RetriesExhaustedError is the terminal, non-retryable failure raised when
// a chunk's request still fails after the attempt budget is spent. Cause is
// the last classified failure, so callers can tell which class exhausted
// the budget.
type RetriesExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Cause)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Cause }

// RetryController wraps a completion call with the rate-limit/timeout
// recovery policy. Rate limits wait for the backend-supplied delay;
// transport timeouts wait a fixed delay; every other failure propagates
// immediately. The controller is invoked strictly sequentially - one
// chunk's request fully resolves before the next chunk is processed.
type RetryController struct {
	maxAttempts  int
	timeoutDelay time.Duration

	// sleep is injectable so tests can observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error

	// notify receives informational retry messages; no effect on control
	// flow.
	notify func(format string, args ...interface{})
}

// NewRetryController creates a controller with the given attempt budget
// and fixed timeout delay. notify may be nil.
func NewRetryController(maxAttempts int, timeoutDelay time.Duration, notify func(string, ...interface{})) *RetryController {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if timeoutDelay <= 0 {
		timeoutDelay = DefaultTimeoutDelay
	}
	if notify == nil {
		notify = func(string, ...interface{}) {}
	}
	return &RetryController{
		maxAttempts:  maxAttempts,
		timeoutDelay: timeoutDelay,
		sleep:        sleepContext,
		notify:       notify,
	}
}

// Do runs attempt until it succeeds, a non-retryable failure occurs, or
// the attempt budget is exhausted. Every retry resubmits the identical
// request; attempt must be safe to call repeatedly.
func (rc *RetryController) Do(ctx context.Context, attempt func(context.Context) (string, error)) (string, error) {
	for attempts := 1; ; attempts++ {
		text, err := attempt(ctx)
		if err == nil {
			logging.APIDebug("request succeeded on attempt %d", attempts)
			return text, nil
		}

		var delay time.Duration
		var rateLimit *llm.RateLimitError
		var timeout *llm.TimeoutError
		switch {
		case errors.As(err, &rateLimit):
			delay = rateLimit.RetryAfter
			rc.notify("Rate limit exceeded. Retrying in %v...", delay)
			logging.APIWarn("attempt %d rate limited, backend delay %v", attempts, delay)
		case errors.As(err, &timeout):
			delay = rc.timeoutDelay
			rc.notify("Timeout error occurred. Retrying in %v...", delay)
			logging.APIWarn("attempt %d timed out, fixed delay %v", attempts, delay)
		default:
			// ServiceError and everything else: no safe retry policy.
			logging.APIError("attempt %d failed, not retryable: %v", attempts, err)
			return "", err
		}

		if attempts >= rc.maxAttempts {
			logging.APIError("retries exhausted after %d attempts: %v", attempts, err)
			return "", &RetriesExhaustedError{Attempts: attempts, Cause: err}
		}

		if err := rc.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
