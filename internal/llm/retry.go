package llm

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. An empty reply is retried at most once per call.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// RetryOption configures a RetryProvider.
type RetryOption func(*RetryProvider)

// RetryLogger logs every retry decision.
func RetryLogger(l *zap.Logger) RetryOption {
	return func(r *RetryProvider) { r.logger = l }
}

// WithRetry wraps p. MaxAttempts below one is treated as one, i.e. no retry.
func WithRetry(p Provider, cfg RetryConfig, opts ...RetryOption) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	r := &RetryProvider{inner: p, config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	emptyRetried := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		kind := KindOf(err)
		if !kind.Transient() || attempt >= r.config.MaxAttempts {
			return nil, err
		}
		if kind == FailureInvalid {
			if emptyRetried {
				return nil, err
			}
			emptyRetried = true
		}

		wait := r.backoff(attempt, err)
		r.logger.Warn("retrying llm request",
			zap.Int("attempt", attempt),
			zap.String("kind", string(kind)),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Duration("wait", wait),
			zap.Error(err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before attempt+1. A Retry-After hint from the
// backend takes precedence.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	if rl, ok := asRateLimit(err); ok && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.config.MaxWait))

	// ±20% jitter.
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}
