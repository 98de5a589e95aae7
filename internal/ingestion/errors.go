package ingestion

import (
	"fmt"

	"github.com/jonathan/skillbridge/internal/types"
)

// Reasons a document cannot be used.
const (
	ReasonEmpty       = "empty document"
	ReasonTooLarge    = "document too large"
	ReasonUnsupported = "unsupported document format"
	ReasonCorrupt     = "document could not be parsed"
	ReasonNoText      = "no extractable text"
	ReasonTooShort    = "too little text"
)

// UnreadableDocumentError is returned when a document is not parseable or
// holds no usable text after cleaning.
type UnreadableDocumentError struct {
	Reason string
	Format Format
	Cause  error
}

func (e *UnreadableDocumentError) Error() string {
	msg := "unreadable document: " + e.Reason
	if e.Format != "" {
		msg = fmt.Sprintf("unreadable %s document: %s", e.Format, e.Reason)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnreadableDocumentError) Unwrap() error {
	return e.Cause
}

// Kind marks the error as user-correctable.
func (e *UnreadableDocumentError) Kind() types.ErrorKind {
	return types.KindInput
}

// EmptyTextError is returned when job description text is blank after cleaning.
type EmptyTextError struct {
	Field string
}

func (e *EmptyTextError) Error() string {
	return e.Field + " is empty"
}

// Kind marks the error as user-correctable.
func (e *EmptyTextError) Kind() types.ErrorKind {
	return types.KindInput
}
