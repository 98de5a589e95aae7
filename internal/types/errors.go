// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies terminal pipeline errors for presentation.
type ErrorKind string

const (
	// KindTransient means an upstream service was unavailable; retrying later may succeed.
	KindTransient ErrorKind = "transient"
	// KindInput means the user's document or content must be fixed.
	KindInput ErrorKind = "input"
	// KindUpstream means a service replied with a payload that could not be used.
	KindUpstream ErrorKind = "upstream"
)

// Kinder is implemented by errors that carry an ErrorKind.
type Kinder interface {
	Kind() ErrorKind
}

// KindOf returns the ErrorKind of the first error in err's chain that has one.
func KindOf(err error) (ErrorKind, bool) {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

// User-facing messages, one per ErrorKind.
const (
	MessageTransient = "The analysis or search service is temporarily unavailable. Please try again in a moment."
	MessageInput     = "We could not read your input. Please check the document or text and try again."
	MessageUpstream  = "The service returned a response we could not use. Please try again later or report the problem."
	MessageUnknown   = "Something went wrong."
)

// UserMessage maps err to one of the user-facing messages.
func UserMessage(err error) string {
	kind, ok := KindOf(err)
	if !ok {
		return MessageUnknown
	}
	switch kind {
	case KindTransient:
		return MessageTransient
	case KindInput:
		return MessageInput
	case KindUpstream:
		return MessageUpstream
	default:
		return MessageUnknown
	}
}

// InvariantError reports a SkillGap field that violates the model's invariants.
type InvariantError struct {
	Field   string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invalid skill gap field %s: %s", e.Field, e.Message)
}
