package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"
)

// ModelOptions bounds every outbound model call. The zero value means one
// attempt and no deadline.
type ModelOptions struct {
	Timeout time.Duration
	Retry   RetryPolicy
}

type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) maxTries() uint {
	if p.MaxRetries <= 0 {
		return 1
	}
	return uint(p.MaxRetries) + 1
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.Reset()
	return b
}

// IsRetryable reports whether a model error is worth another attempt:
// rate limiting, transient server failures and per-call timeouts.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
			return true
		default:
			return false
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (o ModelOptions) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.Timeout)
}
