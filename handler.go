package cqbus

import (
	"context"

	"github.com/dmitrymomot/cqbus/core/identity"
)

// Handler processes requests of type T using only the caller identity.
type Handler[T any, R any] interface {
	Handle(ctx context.Context, req T, id identity.Identity) (R, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[T any, R any] func(ctx context.Context, req T, id identity.Identity) (R, error)

// Handle calls f(ctx, req, id).
func (f HandlerFunc[T, R]) Handle(ctx context.Context, req T, id identity.Identity) (R, error) {
	return f(ctx, req, id)
}

// ContextAwareHandler processes requests of type T with access to the whole
// execution context, including values set by middleware.
type ContextAwareHandler[T any, R any] interface {
	Handle(ctx context.Context, req T, ec *ExecutionContext) (R, error)
}

// ContextAwareHandlerFunc adapts a plain function to ContextAwareHandler.
type ContextAwareHandlerFunc[T any, R any] func(ctx context.Context, req T, ec *ExecutionContext) (R, error)

// Handle calls f(ctx, req, ec).
func (f ContextAwareHandlerFunc[T, R]) Handle(ctx context.Context, req T, ec *ExecutionContext) (R, error) {
	return f(ctx, req, ec)
}
