// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type kindedErr struct{ kind ErrorKind }

func (e kindedErr) Error() string   { return string(e.kind) }
func (e kindedErr) Kind() ErrorKind { return e.kind }

func TestUserMessage_DistinctPerKind(t *testing.T) {
	transient := UserMessage(kindedErr{KindTransient})
	input := UserMessage(kindedErr{KindInput})
	upstream := UserMessage(kindedErr{KindUpstream})

	assert.Equal(t, MessageTransient, transient)
	assert.Equal(t, MessageInput, input)
	assert.Equal(t, MessageUpstream, upstream)
	assert.NotEqual(t, transient, input)
	assert.NotEqual(t, input, upstream)
	assert.NotEqual(t, transient, upstream)
}

func TestUserMessage_WrappedAndUnknown(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", kindedErr{KindUpstream})
	assert.Equal(t, MessageUpstream, UserMessage(wrapped))
	assert.Equal(t, MessageUnknown, UserMessage(errors.New("plain")))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("x: %w", kindedErr{KindInput}))
	assert.True(t, ok)
	assert.Equal(t, KindInput, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
