package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/dmitrymomot/cqbus"
)

// Instrument names.
const (
	MetricRequests        = "cqbus.requests"
	MetricRequestDuration = "cqbus.request.duration"
)

// Outcome attribute values.
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeNotRegistered = "not_registered"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeRateLimited   = "rate_limited"
	OutcomePanic         = "panic"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// MeterProvider creates the meter (default: otel.GetMeterProvider())
	MeterProvider metric.MeterProvider
}

// Metrics creates a metrics middleware using the global meter provider.
func Metrics() cqbus.Middleware {
	return MetricsWithConfig(MetricsConfig{})
}

// MetricsWithConfig creates a metrics middleware with custom configuration.
// It records a request counter and a duration histogram in seconds, both
// with request type, kind and outcome attributes.
func MetricsWithConfig(cfg MetricsConfig) cqbus.Middleware {
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	meter := cfg.MeterProvider.Meter(instrumentationName)

	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Total number of executed requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		otel.Handle(err)
	}

	duration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of request execution"),
		metric.WithUnit("s"))
	if err != nil {
		otel.Handle(err)
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, _ *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		start := time.Now()
		result, err := next(ctx, req)
		elapsed := time.Since(start)

		attrs := metric.WithAttributes(
			AttrRequestType.String(cqbus.RequestName(req)),
			AttrRequestKind.String(cqbus.KindOf(req).String()),
			AttrOutcome.String(outcome(err)),
		)

		// Measurements are recorded even when ctx is already cancelled.
		mctx := context.WithoutCancel(ctx)
		if requests != nil {
			requests.Add(mctx, 1, attrs)
		}
		if duration != nil {
			duration.Record(mctx, elapsed.Seconds(), attrs)
		}

		return result, err
	})
}

// outcome classifies err for telemetry attributes.
func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, cqbus.ErrHandlerNotRegistered):
		return OutcomeNotRegistered
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrForbidden):
		return OutcomeUnauthorized
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrPanic):
		return OutcomePanic
	default:
		return OutcomeError
	}
}
