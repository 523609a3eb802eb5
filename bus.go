package cqbus

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrymomot/cqbus/core/identity"
	"github.com/dmitrymomot/cqbus/core/logger"
)

type (
	identityInvoker func(ctx context.Context, req any, id identity.Identity) (any, error)
	contextInvoker  func(ctx context.Context, req any, ec *ExecutionContext) (any, error)
)

// Bus routes requests to handlers by the request's concrete type and runs
// them through the registered middleware.
//
// Example:
//
//	bus := cqbus.New(cqbus.WithLogger(logger))
//	cqbus.RegisterHandlerFunc(bus, func(ctx context.Context, q GetUser, id identity.Identity) (User, error) {
//		return repo.Find(ctx, q.ID)
//	})
//	user, err := cqbus.Execute[User](ctx, bus, GetUser{ID: 42}, nil)
type Bus struct {
	mu              sync.RWMutex
	handlers        map[reflect.Type]identityInvoker
	contextHandlers map[reflect.Type]contextInvoker
	middleware      []Middleware
	logger          *slog.Logger
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers:        make(map[reflect.Type]identityInvoker),
		contextHandlers: make(map[reflect.Type]contextInvoker),
		logger:          logger.Discard(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// RegisterMiddleware appends m to the middleware list.
// Middleware registered later wraps middleware registered earlier.
func (b *Bus) RegisterMiddleware(m Middleware) {
	if m == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.middleware = append(b.middleware, m)
}

// Registered reports whether a handler exists for the type of req.
func (b *Bus) Registered(req any) bool {
	if req == nil {
		return false
	}

	t := reflect.TypeOf(req)

	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.handlers[t]
	if !ok {
		_, ok = b.contextHandlers[t]
	}
	return ok
}

// Execute runs req through the middleware chain and its handler.
// A nil ec is replaced by EmptyContext(). Handler and middleware errors are
// returned unchanged.
func (b *Bus) Execute(ctx context.Context, req any, ec *ExecutionContext) (any, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ec == nil {
		ec = EmptyContext()
	}

	ctx = WithExecutionContext(ctx, ec)
	ctx = withRequestName(ctx, RequestName(req))

	b.mu.RLock()
	middleware := b.middleware[:len(b.middleware):len(b.middleware)]
	b.mu.RUnlock()

	return chain(b.dispatch(ec), middleware, ec)(ctx, req)
}

// dispatch returns the innermost step: resolve the handler for req and run it.
func (b *Bus) dispatch(ec *ExecutionContext) Next {
	return func(ctx context.Context, req any) (any, error) {
		if req == nil {
			return nil, ErrNilRequest
		}

		t := reflect.TypeOf(req)

		b.mu.RLock()
		invoke, ok := b.handlers[t]
		invokeWithContext, okWithContext := b.contextHandlers[t]
		b.mu.RUnlock()

		switch {
		case ok:
			return invoke(ctx, req, ec.Identity())
		case okWithContext:
			return invokeWithContext(ctx, req, ec)
		}

		name := typeName(t)
		b.logger.DebugContext(ctx, "no handler for request",
			logger.Component("cqbus"),
			logger.RequestType(name))
		return nil, &HandlerNotRegisteredError{RequestType: name}
	}
}

func (b *Bus) registerIdentity(t reflect.Type, invoke identityInvoker) {
	name := typeName(t)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.contextHandlers[t]; exists {
		panic(fmt.Errorf("%w: %s", ErrConflictingRegistration, name))
	}

	_, replaced := b.handlers[t]
	b.handlers[t] = invoke

	b.logger.Debug("handler registered",
		logger.Component("cqbus"),
		logger.RequestType(name),
		slog.String("convention", "identity"),
		slog.Bool("replaced", replaced))
}

func (b *Bus) registerContextAware(t reflect.Type, invoke contextInvoker) {
	name := typeName(t)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[t]; exists {
		panic(fmt.Errorf("%w: %s", ErrConflictingRegistration, name))
	}

	_, replaced := b.contextHandlers[t]
	b.contextHandlers[t] = invoke

	b.logger.Debug("handler registered",
		logger.Component("cqbus"),
		logger.RequestType(name),
		slog.String("convention", "context"),
		slog.Bool("replaced", replaced))
}

// RegisterHandler registers a factory for identity-only handlers of T.
// The factory runs once per Execute call, so every call gets a fresh handler.
// Registering T again replaces the previous factory. Registering T that
// already has a context-aware handler panics with ErrConflictingRegistration.
//
// Example:
//
//	cqbus.RegisterHandler[GetUser, User](bus, func() cqbus.Handler[GetUser, User] {
//		return &getUserHandler{repo: repo}
//	})
func RegisterHandler[T Request[R], R any](b *Bus, factory func() Handler[T, R]) {
	if factory == nil {
		panic(fmt.Errorf("%w: %s", ErrNilFactory, typeName(reflect.TypeFor[T]())))
	}

	t := reflect.TypeFor[T]()
	b.registerIdentity(t, func(ctx context.Context, req any, id identity.Identity) (any, error) {
		h := factory()
		if h == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilHandler, typeName(t))
		}
		return h.Handle(ctx, req.(T), id)
	})
}

// RegisterContextAwareHandler registers a factory for context-aware handlers of T.
// Semantics match RegisterHandler, with the two conventions mutually exclusive per type.
func RegisterContextAwareHandler[T Request[R], R any](b *Bus, factory func() ContextAwareHandler[T, R]) {
	if factory == nil {
		panic(fmt.Errorf("%w: %s", ErrNilFactory, typeName(reflect.TypeFor[T]())))
	}

	t := reflect.TypeFor[T]()
	b.registerContextAware(t, func(ctx context.Context, req any, ec *ExecutionContext) (any, error) {
		h := factory()
		if h == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilHandler, typeName(t))
		}
		return h.Handle(ctx, req.(T), ec)
	})
}

// RegisterHandlerFunc registers fn as a stateless identity-only handler of T.
func RegisterHandlerFunc[T Request[R], R any](b *Bus, fn func(ctx context.Context, req T, id identity.Identity) (R, error)) {
	if fn == nil {
		panic(fmt.Errorf("%w: %s", ErrNilFactory, typeName(reflect.TypeFor[T]())))
	}
	h := HandlerFunc[T, R](fn)
	RegisterHandler[T, R](b, func() Handler[T, R] { return h })
}

// RegisterContextAwareHandlerFunc registers fn as a stateless context-aware handler of T.
func RegisterContextAwareHandlerFunc[T Request[R], R any](b *Bus, fn func(ctx context.Context, req T, ec *ExecutionContext) (R, error)) {
	if fn == nil {
		panic(fmt.Errorf("%w: %s", ErrNilFactory, typeName(reflect.TypeFor[T]())))
	}
	h := ContextAwareHandlerFunc[T, R](fn)
	RegisterContextAwareHandler[T, R](b, func() ContextAwareHandler[T, R] { return h })
}

// Execute runs req on b and returns the result typed as R.
// A nil result yields the zero R. A result of another type, which only a
// short-circuiting middleware can produce, yields ErrResultType.
//
// Example:
//
//	id, err := cqbus.Execute[UserID](ctx, bus, CreateUser{Email: email}, ec)
func Execute[R any](ctx context.Context, b *Bus, req Request[R], ec *ExecutionContext) (R, error) {
	var zero R
	if req == nil {
		return zero, ErrNilRequest
	}

	res, err := b.Execute(ctx, req, ec)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}

	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T, expected %s",
			ErrResultType, RequestName(req), res, reflect.TypeFor[R]())
	}
	return typed, nil
}
