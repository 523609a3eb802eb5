// Package cqbus provides an in-process command/query bus.
//
// Requests are plain structs that embed a marker describing their intent and
// result type. Handlers are registered per concrete request type, and every
// execution runs through an ordered middleware chain.
//
// # Requests
//
//	type CreateUser struct {
//		cqbus.Command[string] // returns the new user ID
//		Email string
//	}
//
//	type GetUser struct {
//		cqbus.Query[User]
//		ID string
//	}
//
//	type DeleteUser struct {
//		cqbus.PureCommand // no result
//		ID string
//	}
//
// Values and pointers are different request types. A handler registered for
// CreateUser does not serve *CreateUser.
//
// # Handlers
//
// Two conventions exist. Identity-only handlers receive the caller identity:
//
//	cqbus.RegisterHandlerFunc[GetUser, User](bus,
//		func(ctx context.Context, q GetUser, id identity.Identity) (User, error) {
//			return repo.Find(ctx, q.ID)
//		})
//
// Context-aware handlers receive the whole ExecutionContext:
//
//	cqbus.RegisterContextAwareHandlerFunc[CreateUser, string](bus,
//		func(ctx context.Context, c CreateUser, ec *cqbus.ExecutionContext) (string, error) {
//			tenant, _ := cqbus.Value[string](ec, "tenant")
//			return repo.Create(ctx, tenant, c.Email)
//		})
//
// RegisterHandler and RegisterContextAwareHandler take a factory invoked once
// per execution, so handlers may keep per-call state. A request type belongs
// to exactly one convention; registering it under the other one panics with
// ErrConflictingRegistration. Registering it again under the same convention
// replaces the previous handler.
//
// # Execution
//
//	user, err := cqbus.Execute[User](ctx, bus, GetUser{ID: "42"}, cqbus.NewExecutionContext(caller))
//
//	var notFound *cqbus.HandlerNotRegisteredError
//	if errors.As(err, &notFound) {
//		log.Printf("no handler for %s", notFound.RequestType)
//	}
//
// A nil ExecutionContext is replaced by EmptyContext(), which carries the
// anonymous identity. ExecuteAsync returns a Future instead of blocking.
//
// # Middleware
//
// Middleware wraps every execution. The last registered middleware is the
// outermost one:
//
//	bus.RegisterMiddleware(m1)
//	bus.RegisterMiddleware(m2)
//	// m2 before, m1 before, handler, m1 after, m2 after
//
// A middleware may short-circuit by returning without calling next. Ready-made
// middleware lives in the middleware package.
package cqbus
