// Command cqbus-demo wires a bus with the full middleware stack and runs a
// command, a query and a context-aware command through it.
//
// Usage:
//
//	cqbus-demo --first John --last Doe --user alice --roles admin,ops
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/config"
	"github.com/dmitrymomot/cqbus/core/identity"
	"github.com/dmitrymomot/cqbus/core/logger"
	"github.com/dmitrymomot/cqbus/middleware"
)

var errEmptyName = errors.New("first and last name are empty")

type demoConfig struct {
	Logger        logger.Config
	RateLimit     float64       `env:"CQBUS_RATE_LIMIT" envDefault:"50"`
	Timeout       time.Duration `env:"CQBUS_TIMEOUT" envDefault:"5s"`
	SlowThreshold time.Duration `env:"CQBUS_SLOW_THRESHOLD" envDefault:"250ms"`
	Token         string        `env:"CQBUS_DEMO_TOKEN" envDefault:"demo-token"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cfg demoConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	fs := flag.NewFlagSet("cqbus-demo", flag.ContinueOnError)
	fs.SetOutput(out)
	first := fs.String("first", "John", "first name")
	last := fs.String("last", "Doe", "last name")
	user := fs.StringP("user", "u", "", "authenticate as this user (anonymous when empty)")
	roles := fs.StringSlice("roles", nil, "roles granted to --user")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	log := logger.NewFromConfig(cfg.Logger)

	bus := newBus(cfg, log, tokenTable(cfg.Token, *user, *roles))

	ec := cqbus.EmptyContext()
	if *user != "" {
		ec.With(middleware.TokenKey, cfg.Token)
	}

	name, err := cqbus.Execute[string](ctx, bus, CreateFullName{FirstName: *first, LastName: *last}, ec)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "full name:", name)

	caller, err := cqbus.ExecuteAsync[string](ctx, bus, DescribeCaller{}, ec).AwaitWithTimeout(cfg.Timeout)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "caller:", caller)

	if _, err := cqbus.Execute[cqbus.Void](ctx, bus, RecordVisit{Note: "demo run"}, ec); err != nil {
		if errors.Is(err, middleware.ErrUnauthenticated) {
			fmt.Fprintln(out, "visit: skipped, requires --user")
			return nil
		}
		return err
	}
	visit, _ := cqbus.Value[string](ec, visitKey)
	fmt.Fprintln(out, "visit:", visit)

	return nil
}

// newBus registers handlers and middleware. Middleware is listed innermost first.
func newBus(cfg demoConfig, log *slog.Logger, auth middleware.Authenticator) *cqbus.Bus {
	bus := cqbus.New(
		cqbus.WithLogger(log),
		cqbus.WithMiddleware(
			middleware.AuthorizationWithConfig(middleware.AuthorizationConfig{
				Policy: func(ctx context.Context, req any, id identity.Identity) error {
					if _, ok := req.(RecordVisit); !ok {
						return nil
					}
					return middleware.Authenticated(ctx, req, id)
				},
			}),
			middleware.RateLimit(cfg.RateLimit),
			middleware.AuthenticationWithConfig(middleware.AuthenticationConfig{
				Authenticator: auth,
				Optional:      true,
				KeepToken:     true,
			}),
			middleware.Timeout(cfg.Timeout),
			middleware.LoggingWithConfig(middleware.LoggingConfig{
				Logger:        log,
				SlowThreshold: cfg.SlowThreshold,
			}),
			middleware.Metrics(),
			middleware.Tracing(),
			middleware.RecoveryWithConfig(middleware.RecoveryConfig{Logger: log}),
			middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true}),
		),
	)

	register(bus)
	return bus
}

func tokenTable(token, user string, roles []string) middleware.Authenticator {
	tokens := map[string]identity.Identity{}
	if user != "" {
		tokens[token] = identity.NewUser(user,
			identity.WithAuthenticationType("token"),
			identity.WithRoles(roles...))
	}
	return middleware.StaticTokens(tokens)
}
