package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = Policy{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
	MaxElapsed:      time.Second,
}

var errFlaky = errors.New("flaky")

func always(error) bool { return true }
func never(error) bool  { return false }

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy, always, "test", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errFlaky
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, always, "test", func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls, "one attempt plus two retries")
}

func TestDo_NoRetryOnPermanentError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, never, "test", func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroRetries(t *testing.T) {
	p := fastPolicy
	p.MaxRetries = 0
	calls := 0
	_, err := Do(context.Background(), p, always, "test", func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"503", &StatusError{Service: "x", StatusCode: http.StatusServiceUnavailable}, true},
		{"429 wrapped", fmt.Errorf("call: %w", &StatusError{StatusCode: http.StatusTooManyRequests}), true},
		{"400", &StatusError{StatusCode: http.StatusBadRequest}, false},
		{"401", &StatusError{StatusCode: http.StatusUnauthorized}, false},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, true},
		{"timeout", timeoutErr{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Service: "serper", StatusCode: 502, Body: "bad gateway"}
	assert.Equal(t, "serper returned status 502: bad gateway", err.Error())
	assert.Equal(t, "serper returned status 500", (&StatusError{Service: "serper", StatusCode: 500}).Error())
}
