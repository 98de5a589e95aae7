// Package retry runs calls to external services with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy controls how a failing call is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// DefaultPolicy allows two retries after the first attempt.
var DefaultPolicy = Policy{
	MaxRetries:      2,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     4 * time.Second,
	MaxElapsed:      30 * time.Second,
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Do calls op until it succeeds, returns an error that retryable rejects, or
// the policy is exhausted. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, retryable Classifier, name string, op func(context.Context) (T, error)) (T, error) {
	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err != nil && !retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval

	maxElapsed := p.MaxElapsed
	if maxElapsed <= 0 {
		maxElapsed = DefaultPolicy.MaxElapsed
	}

	notify := func(err error, wait time.Duration) {
		slog.Debug("retrying call",
			slog.String("call", name),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.Any("error", err))
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(max(p.MaxRetries, 0)+1)),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(notify))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return res, err
}

// StatusError is returned by HTTP-based service clients for non-2xx replies.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// TransientStatus returns true for HTTP status codes worth retrying.
func TransientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsTransient returns true for network failures, timeouts and retryable
// HTTP statuses. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return TransientStatus(statusErr.StatusCode)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
