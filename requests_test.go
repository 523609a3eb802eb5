package cqbus_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
)

type CreateFullName struct {
	cqbus.Command[string]
	FirstName string
	LastName  string
}

type ReadSampleKey struct {
	cqbus.Command[string]
}

type WhoAmI struct {
	cqbus.Query[identity.Identity]
}

type Ping struct {
	cqbus.PureCommand
}

type CountUsers struct {
	cqbus.Query[int]
}

type createFullNameHandler struct{}

func (createFullNameHandler) Handle(_ context.Context, c CreateFullName, _ identity.Identity) (string, error) {
	return c.FirstName + " " + c.LastName, nil
}

// recorder collects ordered events from handlers and middleware.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type loggingHandler struct {
	log *recorder
}

func (h loggingHandler) Handle(_ context.Context, c CreateFullName, _ identity.Identity) (string, error) {
	result := c.FirstName + " " + c.LastName
	h.log.add(result)
	return result, nil
}

func loggingMiddleware(log *recorder, suffix string) cqbus.Middleware {
	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		log.add("before" + suffix)
		res, err := next(ctx, req)
		log.add("after" + suffix)
		return res, err
	})
}
