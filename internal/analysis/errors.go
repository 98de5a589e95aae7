package analysis

import (
	"github.com/jonathan/skillbridge/internal/types"
)

// UnavailableError is returned when the reasoning service could not be
// reached or refused the request. Retryable distinguishes network failures
// and throttling from permanent refusals such as a rejected API key.
type UnavailableError struct {
	Retryable bool
	Cause     error
}

func (e *UnavailableError) Error() string {
	if e.Retryable {
		return "analysis service unavailable: " + e.Cause.Error()
	}
	return "analysis service refused the request: " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Kind marks the error as transient.
func (e *UnavailableError) Kind() types.ErrorKind {
	return types.KindTransient
}

// MalformedError is returned when the service replied but the payload cannot
// be coerced into a valid skill gap. Repeating the request with the same
// input is not expected to help.
type MalformedError struct {
	Reason string
	Cause  error
}

func (e *MalformedError) Error() string {
	return "malformed analysis: " + e.Reason
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// Kind marks the error as an upstream payload defect.
func (e *MalformedError) Kind() types.ErrorKind {
	return types.KindUpstream
}
