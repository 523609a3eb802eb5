package cqbus

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerNotRegistered matches every *HandlerNotRegisteredError through errors.Is.
	ErrHandlerNotRegistered = errors.New("request handler not registered")

	// ErrConflictingRegistration is the panic value when a request type is registered
	// under both handler conventions.
	ErrConflictingRegistration = errors.New("request handler registered under both conventions")

	// ErrNilFactory is the panic value when a nil handler factory is registered.
	ErrNilFactory = errors.New("handler factory is nil")

	// ErrNilHandler is returned when a factory produces a nil handler.
	ErrNilHandler = errors.New("handler factory returned nil handler")

	// ErrNilRequest is returned when Execute is called with a nil request.
	ErrNilRequest = errors.New("request is nil")

	// ErrResultType is returned by the typed Execute when the chain produced
	// a result of an unexpected type.
	ErrResultType = errors.New("unexpected result type")
)

// HandlerNotRegisteredError reports a request type with no handler in either registry.
type HandlerNotRegisteredError struct {
	RequestType string
}

func (e *HandlerNotRegisteredError) Error() string {
	return fmt.Sprintf("request handler not registered for request %s", e.RequestType)
}

// Unwrap allows errors.Is(err, ErrHandlerNotRegistered).
func (e *HandlerNotRegisteredError) Unwrap() error {
	return ErrHandlerNotRegistered
}

// IsHandlerNotRegistered reports whether err is, or wraps, a missing-handler error.
func IsHandlerNotRegistered(err error) bool {
	return errors.Is(err, ErrHandlerNotRegistered)
}
