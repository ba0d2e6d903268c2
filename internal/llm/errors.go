package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// The completion error surface is a closed set: callers (the retry
// controller in particular) branch on these types with errors.As instead
// of re-parsing message text.

// RateLimitError reports backend throttling. RetryAfter carries the wait
// the backend asked for and is always > 0; a throttle response without an
// extractable delay is normalized to a ServiceError instead, because no
// safe wait time can be inferred.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %s", e.RetryAfter, e.Message)
}

// TimeoutError reports a pure transport timeout on the completion call.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("completion request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ServiceError reports any backend failure that is neither a rate limit
// with a usable delay nor a transport timeout. It is not retryable.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error: %s", e.Message)
}

// classifyTransportError maps a raw HTTP/SDK error onto the taxonomy.
// Timeouts (net.Error timeouts and context deadlines) become TimeoutError;
// everything else becomes ServiceError.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	return &ServiceError{Message: err.Error()}
}
