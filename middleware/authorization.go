package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
)

// Policy decides whether id may execute req.
// A non-nil error short-circuits the chain and is returned to the caller.
type Policy func(ctx context.Context, req any, id identity.Identity) error

// AuthorizationConfig configures the authorization middleware.
type AuthorizationConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Policy is evaluated against the current identity (required)
	Policy Policy
}

// RequireAuthenticated rejects anonymous callers with ErrUnauthenticated.
func RequireAuthenticated() cqbus.Middleware {
	return AuthorizationWithConfig(AuthorizationConfig{Policy: Authenticated})
}

// RequireRoles rejects callers that lack any of roles.
// Anonymous callers get ErrUnauthenticated, authenticated ones ErrForbidden.
func RequireRoles(roles ...string) cqbus.Middleware {
	return AuthorizationWithConfig(AuthorizationConfig{Policy: AllRoles(roles...)})
}

// AuthorizationWithConfig creates an authorization middleware with custom configuration.
// The identity is read when the middleware runs, so register it before
// (inside) Authentication. Panics if no Policy is configured.
func AuthorizationWithConfig(cfg AuthorizationConfig) cqbus.Middleware {
	if cfg.Policy == nil {
		panic(ErrNoPolicy)
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		if err := cfg.Policy(ctx, req, ec.Identity()); err != nil {
			return nil, err
		}

		return next(ctx, req)
	})
}

// Authenticated is a Policy admitting any authenticated identity.
func Authenticated(_ context.Context, req any, id identity.Identity) error {
	if id == nil || !id.IsAuthenticated() {
		return fmt.Errorf("%w: %s requires an authenticated caller", ErrUnauthenticated, cqbus.RequestName(req))
	}
	return nil
}

// AllRoles returns a Policy admitting authenticated identities holding every role.
func AllRoles(roles ...string) Policy {
	return func(ctx context.Context, req any, id identity.Identity) error {
		if err := Authenticated(ctx, req, id); err != nil {
			return err
		}
		if !identity.HasAllRoles(id, roles...) {
			return fmt.Errorf("%w: %s requires roles [%s]", ErrForbidden, cqbus.RequestName(req), strings.Join(roles, ", "))
		}
		return nil
	}
}

// AnyRole returns a Policy admitting authenticated identities holding at least one role.
func AnyRole(roles ...string) Policy {
	return func(ctx context.Context, req any, id identity.Identity) error {
		if err := Authenticated(ctx, req, id); err != nil {
			return err
		}
		if !identity.HasAnyRole(id, roles...) {
			return fmt.Errorf("%w: %s requires one of roles [%s]", ErrForbidden, cqbus.RequestName(req), strings.Join(roles, ", "))
		}
		return nil
	}
}

// CommandsOnly applies p to commands and admits every other request.
func CommandsOnly(p Policy) Policy {
	return func(ctx context.Context, req any, id identity.Identity) error {
		if cqbus.KindOf(req) != cqbus.KindCommand {
			return nil
		}
		return p(ctx, req, id)
	}
}
