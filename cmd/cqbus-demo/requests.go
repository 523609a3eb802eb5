package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
	"github.com/dmitrymomot/cqbus/middleware"
)

// CreateFullName joins a first and last name.
type CreateFullName struct {
	cqbus.Command[string]
	FirstName string
	LastName  string
}

// DescribeCaller reports who is executing the request.
type DescribeCaller struct {
	cqbus.Query[string]
}

// RecordVisit stores a visit note in the execution context.
type RecordVisit struct {
	cqbus.PureCommand
	Note string
}

const visitKey = "visit"

type createFullNameHandler struct{}

func (h *createFullNameHandler) Handle(_ context.Context, c CreateFullName, _ identity.Identity) (string, error) {
	first, last := strings.TrimSpace(c.FirstName), strings.TrimSpace(c.LastName)
	if first == "" && last == "" {
		return "", fmt.Errorf("create full name: %w", errEmptyName)
	}
	return strings.TrimSpace(first + " " + last), nil
}

func describeCaller(_ context.Context, _ DescribeCaller, id identity.Identity) (string, error) {
	if !id.IsAuthenticated() {
		return id.Name() + " (not authenticated)", nil
	}
	roles := id.Roles()
	if len(roles) == 0 {
		return id.Name() + " via " + id.AuthenticationType(), nil
	}
	return fmt.Sprintf("%s via %s, roles: %s", id.Name(), id.AuthenticationType(), strings.Join(roles, ", ")), nil
}

func recordVisit(_ context.Context, c RecordVisit, ec *cqbus.ExecutionContext) (cqbus.Void, error) {
	requestID, _ := middleware.GetRequestID(ec)
	ec.Set(visitKey, fmt.Sprintf("%s visited (%s): %s", ec.Identity().Name(), requestID, c.Note))
	return cqbus.Void{}, nil
}

func register(bus *cqbus.Bus) {
	cqbus.RegisterHandler[CreateFullName, string](bus, func() cqbus.Handler[CreateFullName, string] {
		return &createFullNameHandler{}
	})
	cqbus.RegisterHandlerFunc[DescribeCaller, string](bus, describeCaller)
	cqbus.RegisterContextAwareHandlerFunc[RecordVisit, cqbus.Void](bus, recordVisit)
}
