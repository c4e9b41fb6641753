package broker

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AdapterError.
type ErrorKind string

const (
	// KindMissingParameter is a caller-input defect detected before any request is sent.
	KindMissingParameter ErrorKind = "missing_parameter"
	// KindTransportFailure covers connect, DNS, timeout and body read failures.
	KindTransportFailure ErrorKind = "transport_failure"
	// KindDecodeFailure is a response body that is not valid JSON.
	KindDecodeFailure ErrorKind = "decode_failure"
)

// AdapterError is the single error shape returned by the adapter layer.
// Message is short and caller-facing; Reason carries the underlying cause text.
type AdapterError struct {
	Kind    ErrorKind
	Message string
	Reason  string
	URL     string
	err     error
}

func (e *AdapterError) Error() string {
	if e.Reason == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Reason)
}

func (e *AdapterError) Unwrap() error {
	return e.err
}

// Fields returns the structured view attached to tool error results.
func (e *AdapterError) Fields() map[string]any {
	return map[string]any{
		"kind":    string(e.Kind),
		"message": e.Message,
		"reason":  e.Reason,
	}
}

// transportError builds the error for a request that never produced a readable response.
func transportError(url string, err error) *AdapterError {
	return &AdapterError{
		Kind:    KindTransportFailure,
		Message: fmt.Sprintf("Failed to fetch URL: %s", url),
		Reason:  err.Error(),
		URL:     url,
		err:     err,
	}
}

// decodeError builds the error for a response body that does not parse as JSON.
func decodeError(url string, err error) *AdapterError {
	return &AdapterError{
		Kind:    KindDecodeFailure,
		Message: "Failed to parse response Json",
		Reason:  err.Error(),
		URL:     url,
		err:     err,
	}
}

// MissingParameter reports a required tool parameter that was not supplied.
func MissingParameter(tool, param string) *AdapterError {
	return &AdapterError{
		Kind:    KindMissingParameter,
		Message: fmt.Sprintf("Missing required parameter: %s", param),
		Reason:  fmt.Sprintf("tool %s requires parameter %q", tool, param),
	}
}

// InvalidParameter reports a supplied parameter that cannot be used.
func InvalidParameter(tool, param string, err error) *AdapterError {
	return &AdapterError{
		Kind:    KindMissingParameter,
		Message: fmt.Sprintf("Invalid parameter: %s", param),
		Reason:  fmt.Sprintf("tool %s: %v", tool, err),
		err:     err,
	}
}

// AsAdapterError extracts an *AdapterError from err, if there is one.
func AsAdapterError(err error) (*AdapterError, bool) {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err is an AdapterError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ae, ok := AsAdapterError(err)
	return ok && ae.Kind == kind
}
