package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSubmitInFlight is returned when a form is submitted again before the
	// previous submission resolved.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrFormClosed is returned when a closed form is submitted.
	ErrFormClosed = errors.New("form is closed")
)

// ValidationError carries per-field messages, either from a 422 response or
// from the form's own pre-validation.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// First returns the first message for field, or "".
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// TransportError is any other failure: the network, an undecodable body or
// an unexpected status.
type TransportError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return "transport: " + e.Err.Error()
	}
	return fmt.Sprintf("transport: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
