package errs

import (
	"errors"
	"strings"
)

// ErrorKind tells which stage of the /hello pipeline produced a PipelineError.
//
// The kind is only used for logging and tests; clients only ever see Message.
type ErrorKind string

const (
	// KindQuery means the query parameters did not match the schema.
	KindQuery ErrorKind = "query"

	// KindRule means a business rule rejected an otherwise valid query.
	KindRule ErrorKind = "rule"

	// KindTransport means the downstream lookup could not be performed.
	KindTransport ErrorKind = "transport"

	// KindDecode means the downstream body did not match the expected shape.
	KindDecode ErrorKind = "decode"
)

const (
	queryErrorPrefix  = "Invalid query parameters:"
	decodeErrorPrefix = "Could not parse response body:"
)

// PipelineError is the single failure type of the request pipeline.
//
// Message is rendered verbatim as the 400 response body.
// Err optionally keeps the underlying cause (e.g. a transport error) for logs.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewQueryError builds a KindQuery error listing every field failure,
// one per line, under the "Invalid query parameters:" header.
func NewQueryError(failures []string) *PipelineError {
	return &PipelineError{
		Kind:    KindQuery,
		Message: joinFailures(queryErrorPrefix, failures),
	}
}

// NewRuleError builds a KindRule error with the given message.
func NewRuleError(message string) *PipelineError {
	return &PipelineError{
		Kind:    KindRule,
		Message: message,
	}
}

// NewTransportError wraps a failed outbound call. The cause's text becomes
// the message.
func NewTransportError(err error) *PipelineError {
	return &PipelineError{
		Kind:    KindTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// NewDecodeError builds a KindDecode error listing every body failure under
// the "Could not parse response body:" header.
func NewDecodeError(failures []string) *PipelineError {
	return &PipelineError{
		Kind:    KindDecode,
		Message: joinFailures(decodeErrorPrefix, failures),
	}
}

// KindOf returns the kind of the first PipelineError in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var pipelineErr *PipelineError
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Kind
	}
	return ""
}

func joinFailures(prefix string, failures []string) string {
	return prefix + "\n" + strings.Join(failures, "\n")
}
