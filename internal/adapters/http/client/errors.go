package client

import (
	"errors"
	"fmt"
)

// Sentinel kinds for request failures. Every *Error matches exactly one.
var (
	ErrTransport  = errors.New("transport error")
	ErrHTTPStatus = errors.New("http status error")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
)

// Kind classifies a request failure.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindHTTPStatus
	KindParse
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindHTTPStatus:
		return ErrHTTPStatus
	case KindParse:
		return ErrParse
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// Error is returned by every Client request. Message is the single line
// shown to the user.
type Error struct {
	Kind    Kind
	Method  string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func transportError(method, url string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Method:  method,
		URL:     url,
		Message: fmt.Sprintf("transport error: %v", err),
		Err:     err,
	}
}

func statusError(method, url string, status int) *Error {
	return &Error{
		Kind:    KindHTTPStatus,
		Method:  method,
		URL:     url,
		Status:  status,
		Message: fmt.Sprintf("HTTP error: status %d", status),
	}
}

func parseError(method, url string, status int, err error) *Error {
	return &Error{
		Kind:    KindParse,
		Method:  method,
		URL:     url,
		Status:  status,
		Message: fmt.Sprintf("parse error: %v", err),
		Err:     err,
	}
}

func validationError(method, url string, status int, body string) *Error {
	return &Error{
		Kind:    KindValidation,
		Method:  method,
		URL:     url,
		Status:  status,
		Message: body,
	}
}
