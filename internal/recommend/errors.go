package recommend

import "github.com/jonathan/skillbridge/internal/types"

// InvalidSkillError is returned for a blank skill.
type InvalidSkillError struct {
	Skill string
}

func (e *InvalidSkillError) Error() string {
	return "skill must not be blank"
}

// Kind marks the error as user-correctable.
func (e *InvalidSkillError) Kind() types.ErrorKind {
	return types.KindInput
}

// UnavailableError is returned when the search service could not be reached
// or refused the request.
type UnavailableError struct {
	Service   string
	Retryable bool
	Cause     error
}

func (e *UnavailableError) Error() string {
	return "search service " + e.Service + " unavailable: " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Kind marks the error as transient.
func (e *UnavailableError) Kind() types.ErrorKind {
	return types.KindTransient
}
