package llm

import (
	"regexp"
	"strings"
	"time"
)

// Some backends report throttling inside a 200 response body rather than a
// raised error, so the marker scan has to run on successful completions too.
var retryAfterPattern = regexp.MustCompile(`(?i)retry after (\d+)`)

// rateLimitMarkers are the phrases backends embed in throttle messages.
// Deliberately narrow: a summary of a document about rate limiting must
// not be mistaken for a throttle response.
var rateLimitMarkers = []string{
	"exceeded token rate limit",
}

// normalizeCompletion inspects a completion result for an embedded
// rate-limit marker. Clean text passes through trimmed. A marker with an
// extractable "retry after N" delay becomes a *RateLimitError; a marker
// without one becomes a *ServiceError - the controller must never guess a
// wait time.
func normalizeCompletion(text string) (string, error) {
	if !containsRateLimitMarker(text) {
		return strings.TrimSpace(text), nil
	}
	if delay, ok := extractRetryAfter(text); ok {
		return "", &RateLimitError{RetryAfter: delay, Message: strings.TrimSpace(text)}
	}
	return "", &ServiceError{Message: "unrecognized rate limit message: " + strings.TrimSpace(text)}
}

// normalizeThrottleMessage classifies an explicit throttle response (HTTP
// 429 or equivalent) using the same delay extraction rules.
func normalizeThrottleMessage(message string) error {
	if delay, ok := extractRetryAfter(message); ok {
		return &RateLimitError{RetryAfter: delay, Message: strings.TrimSpace(message)}
	}
	return &ServiceError{Message: "throttled without retry-after delay: " + strings.TrimSpace(message)}
}

func containsRateLimitMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractRetryAfter pulls the "retry after N" second count out of a backend
// message.
func extractRetryAfter(message string) (time.Duration, bool) {
	m := retryAfterPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	secs := 0
	for _, r := range m[1] {
		secs = secs*10 + int(r-'0')
	}
	if secs <= 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
