package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
)

// TokenKey is the default execution context key holding the caller credential.
const TokenKey = "auth_token"

// Authenticator resolves a credential into an identity.
// Implementations must be safe for concurrent use.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (identity.Identity, error)

// Authenticate calls f(ctx, token).
func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	return f(ctx, token)
}

// AuthenticationConfig configures the authentication middleware.
type AuthenticationConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Authenticator resolves the credential (required)
	Authenticator Authenticator

	// TokenKey is the execution context key holding the credential (default: "auth_token")
	TokenKey string

	// Optional lets requests without a credential through with their current identity (default: false)
	Optional bool

	// KeepToken leaves the credential in the execution context after authentication (default: false)
	KeepToken bool
}

// Authentication creates an authentication middleware that requires a credential.
// Panics if a is nil.
func Authentication(a Authenticator) cqbus.Middleware {
	return AuthenticationWithConfig(AuthenticationConfig{Authenticator: a})
}

// AuthenticationWithConfig creates an authentication middleware with custom configuration.
//
// The credential is read from the execution context, resolved through the
// Authenticator and the resulting identity replaces the context identity
// before next runs. A missing credential fails with ErrUnauthenticated unless
// Optional is set. Authenticator errors are wrapped with ErrUnauthenticated.
// Panics if no Authenticator is configured.
func AuthenticationWithConfig(cfg AuthenticationConfig) cqbus.Middleware {
	if cfg.Authenticator == nil {
		panic(ErrNoAuthenticator)
	}

	if cfg.TokenKey == "" {
		cfg.TokenKey = TokenKey
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		token, _ := cqbus.Value[string](ec, cfg.TokenKey)
		if token == "" {
			if cfg.Optional {
				return next(ctx, req)
			}
			return nil, fmt.Errorf("%w: %s: missing credential", ErrUnauthenticated, cqbus.RequestName(req))
		}

		id, err := cfg.Authenticator.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		if id == nil || !id.IsAuthenticated() {
			return nil, fmt.Errorf("%w: %s: credential rejected", ErrUnauthenticated, cqbus.RequestName(req))
		}

		ec.SetIdentity(id)
		if !cfg.KeepToken {
			ec.Delete(cfg.TokenKey)
		}

		return next(ctx, req)
	})
}

// StaticTokens returns an Authenticator backed by a fixed token table.
// Useful for tests, demos and service-to-service credentials.
func StaticTokens(tokens map[string]identity.Identity) Authenticator {
	table := make(map[string]identity.Identity, len(tokens))
	for token, id := range tokens {
		table[token] = id
	}

	return AuthenticatorFunc(func(_ context.Context, token string) (identity.Identity, error) {
		id, ok := table[token]
		if !ok {
			return nil, fmt.Errorf("%w: unknown token", ErrUnauthenticated)
		}
		return id, nil
	})
}
