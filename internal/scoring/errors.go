package scoring

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a scoring failure.
type Kind string

const (
	KindInvalidRequest          Kind = "invalid_request"
	KindUpstream                Kind = "upstream_error"
	KindEmptyOutput             Kind = "empty_output"
	KindMalformedOutput         Kind = "malformed_output"
	KindInvalidStructuredOutput Kind = "invalid_structured_output"
	KindIncompleteOutput        Kind = "incomplete_output"
)

// Error is returned by every failing stage of the pipeline. Message is safe to
// show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Status maps the failure onto an HTTP status code.
func (e *Error) Status() int {
	if e.Kind == KindInvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (e *Error) wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

var (
	ErrMissingIdea             = &Error{Kind: KindInvalidRequest, Message: "Missing idea"}
	ErrEmptyOutput             = &Error{Kind: KindEmptyOutput, Message: "AI returned empty output"}
	ErrMalformedOutput         = &Error{Kind: KindMalformedOutput, Message: "AI returned invalid JSON"}
	ErrInvalidStructuredOutput = &Error{Kind: KindInvalidStructuredOutput, Message: "AI returned invalid structured output"}
	ErrIncompleteOutput        = &Error{Kind: KindIncompleteOutput, Message: "AI returned incomplete structured output"}
)

const fallbackMessage = "Score failed"

func upstreamError(err error) *Error {
	message := ""
	if err != nil {
		message = strings.TrimSpace(err.Error())
	}
	if message == "" {
		message = fallbackMessage
	}
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf reports the Kind of a scoring failure, or "" for any other error.
func KindOf(err error) Kind {
	var scoringErr *Error
	if errors.As(err, &scoringErr) {
		return scoringErr.Kind
	}
	return ""
}

// StatusOf maps any error onto an HTTP status; non-scoring errors are 500.
func StatusOf(err error) int {
	var scoringErr *Error
	if errors.As(err, &scoringErr) {
		return scoringErr.Status()
	}
	return http.StatusInternalServerError
}
