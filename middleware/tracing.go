package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cqbus"
)

const instrumentationName = "github.com/dmitrymomot/cqbus/middleware"

// Span attribute keys.
const (
	AttrRequestType   = attribute.Key("cqbus.request.type")
	AttrRequestKind   = attribute.Key("cqbus.request.kind")
	AttrIdentity      = attribute.Key("cqbus.identity.name")
	AttrAuthenticated = attribute.Key("cqbus.identity.authenticated")
	AttrOutcome       = attribute.Key("cqbus.outcome")
)

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// TracerProvider creates the tracer (default: otel.GetTracerProvider())
	TracerProvider trace.TracerProvider

	// SpanNamePrefix is prepended to the request type name (default: "cqbus.execute ")
	SpanNamePrefix string

	// HideIdentity omits identity attributes from spans (default: false)
	HideIdentity bool
}

// Tracing creates a tracing middleware using the global tracer provider.
func Tracing() cqbus.Middleware {
	return TracingWithConfig(TracingConfig{})
}

// TracingWithConfig creates a tracing middleware with custom configuration.
// Each execution gets one internal span; the span context is passed down the
// chain, so spans started by handlers become its children. Errors are
// recorded on the span and set its status.
func TracingWithConfig(cfg TracingConfig) cqbus.Middleware {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	if cfg.SpanNamePrefix == "" {
		cfg.SpanNamePrefix = "cqbus.execute "
	}

	tracer := cfg.TracerProvider.Tracer(instrumentationName)

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		name := cqbus.RequestName(req)
		ctx, span := tracer.Start(ctx, cfg.SpanNamePrefix+name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				AttrRequestType.String(name),
				AttrRequestKind.String(cqbus.KindOf(req).String()),
			))
		defer span.End()

		result, err := next(ctx, req)

		if !cfg.HideIdentity {
			id := ec.Identity()
			span.SetAttributes(
				AttrIdentity.String(id.Name()),
				AttrAuthenticated.Bool(id.IsAuthenticated()),
			)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(AttrOutcome.String(outcome(err)))
			return result, err
		}

		span.SetAttributes(AttrOutcome.String(outcome(nil)))
		span.SetStatus(codes.Ok, "")
		return result, nil
	})
}
