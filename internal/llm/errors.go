package llm

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError represents a failed call to the model provider: network
// failure, rate limiting, or a 5xx from the API. It is the error class that
// retry and fallback logic keys on.
type TransportError struct {
	Op    string
	Model string
	Cause error
}

func (e *TransportError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("llm %s (%s): %v", e.Op, e.Model, e.Cause)
	}
	return fmt.Sprintf("llm %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// rateLimitMarkers are the substrings that identify quota-class provider
// errors. Classification by message matching is crude but it is what the
// provider SDKs give us across error shapes.
var rateLimitMarkers = []string{
	"quota",
	"rate limit",
	"429",
	"resource_exhausted",
}

// IsRateLimited reports whether err looks like a rate-limit or quota error.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
