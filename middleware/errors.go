package middleware

import "errors"

var (
	// ErrUnauthenticated is returned when a request requires an authenticated identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the identity lacks the required permissions.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when the caller exceeded its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrPanic wraps a recovered handler or middleware panic.
	ErrPanic = errors.New("request panicked")

	// ErrNoAuthenticator is the panic value when authentication is configured without an Authenticator.
	ErrNoAuthenticator = errors.New("authenticator is required")

	// ErrNoPolicy is the panic value when authorization is configured without a Policy.
	ErrNoPolicy = errors.New("authorization policy is required")
)
