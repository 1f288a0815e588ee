package sparql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ParseError reports a result the client could not interpret: an
// undecodable body, a missing variable, or a reference that is not a
// Wikidata item.
type ParseError struct {
	Ref    string
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "sparql: malformed response"
	if e.Field != "" {
		msg += fmt.Sprintf(" (?%s)", e.Field)
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusError is returned for non-2xx answers from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sparql: endpoint returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Retryable reports whether err is worth another attempt: transport
// failures, throttling and server-side errors.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
