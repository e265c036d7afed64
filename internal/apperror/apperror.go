// Package apperror defines the errors the service returns to HTTP callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindBadRequest         Kind = "bad_request"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindServiceUnavailable Kind = "service_unavailable"
	// KindUpstream carries a business error returned by a reachable peer service.
	KindUpstream Kind = "upstream"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Validation aggregates field-level messages under a single bad request.
func Validation(errs []string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: "validation failed", Errors: errs}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

func ServiceUnavailable(service string) *Error {
	return &Error{
		Kind:    KindServiceUnavailable,
		Status:  http.StatusServiceUnavailable,
		Message: service + " service not available. Try later",
	}
}

// Upstream keeps the peer's status code and message untouched.
func Upstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
