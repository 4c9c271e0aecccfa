package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit is a 429 from the backend. RetryAfter is zero when the
// backend did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the backend answered but the reply carried no
// usable text.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, 5xx replies and network failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// FailureKind is a coarse label for a failed chat call, used in logs,
// metrics and retry decisions.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureTimeout     FailureKind = "timeout"
	FailureCanceled    FailureKind = "canceled"
	FailureRateLimit   FailureKind = "rate_limit"
	FailureUnavailable FailureKind = "unavailable"
	FailureInvalid     FailureKind = "invalid_response"
	FailureOther       FailureKind = "error"
)

// KindOf classifies err. Context errors take precedence over provider
// errors wrapping them.
func KindOf(err error) FailureKind {
	var (
		rl      *ErrRateLimit
		invalid *ErrInvalidResponse
		down    *ErrProviderUnavailable
	)
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.As(err, &rl):
		return FailureRateLimit
	case errors.As(err, &invalid):
		return FailureInvalid
	case errors.As(err, &down):
		return FailureUnavailable
	default:
		return FailureOther
	}
}

// Transient reports whether a retry could plausibly succeed.
func (k FailureKind) Transient() bool {
	switch k {
	case FailureRateLimit, FailureUnavailable, FailureInvalid, FailureOther:
		return true
	}
	return false
}

// fromStatus turns an HTTP failure reported by a backend SDK into one of the
// typed errors. header is nil when the SDK does not expose the response.
func fromStatus(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: parseRetryAfter(header), Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After header given either as seconds or as
// an HTTP date.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func asRateLimit(err error) (*ErrRateLimit, bool) {
	var rl *ErrRateLimit
	ok := errors.As(err, &rl)
	return rl, ok
}
