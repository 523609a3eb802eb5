package middleware_test

import (
	"context"
	"errors"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
)

type Greet struct {
	cqbus.Query[string]
	Name string
}

// Explode panics with Value, or fails with errBoom when Value is nil.
type Explode struct {
	cqbus.PureCommand
	Value any
}

type Wait struct {
	cqbus.PureCommand
}

type Unhandled struct {
	cqbus.Command[int]
}

var errBoom = errors.New("boom")

// newBus returns a bus with handlers for the test requests and the given middleware.
func newBus(middleware ...cqbus.Middleware) *cqbus.Bus {
	bus := cqbus.New(cqbus.WithMiddleware(middleware...))

	cqbus.RegisterHandlerFunc[Greet, string](bus,
		func(_ context.Context, q Greet, id identity.Identity) (string, error) {
			if q.Name == "" {
				return "hello " + id.Name(), nil
			}
			return "hello " + q.Name, nil
		})

	cqbus.RegisterHandlerFunc[Explode, cqbus.Void](bus,
		func(_ context.Context, c Explode, _ identity.Identity) (cqbus.Void, error) {
			if c.Value == nil {
				return cqbus.Void{}, errBoom
			}
			panic(c.Value)
		})

	cqbus.RegisterHandlerFunc[Wait, cqbus.Void](bus,
		func(ctx context.Context, _ Wait, _ identity.Identity) (cqbus.Void, error) {
			<-ctx.Done()
			return cqbus.Void{}, ctx.Err()
		})

	return bus
}
