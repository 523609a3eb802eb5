package cqbus

import "context"

type executionContextCtx struct{}

// WithExecutionContext attaches ec to ctx.
// The bus does this for every Execute call.
func WithExecutionContext(ctx context.Context, ec *ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextCtx{}, ec)
}

// ExecutionContextFrom extracts the execution context from ctx.
// Returns nil if not present.
func ExecutionContextFrom(ctx context.Context) *ExecutionContext {
	if ec, ok := ctx.Value(executionContextCtx{}).(*ExecutionContext); ok {
		return ec
	}
	return nil
}

type requestNameCtx struct{}

func withRequestName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, requestNameCtx{}, name)
}

// RequestNameFrom extracts the name of the executing request from ctx.
// Returns empty string if not present.
func RequestNameFrom(ctx context.Context) string {
	if name, ok := ctx.Value(requestNameCtx{}).(string); ok {
		return name
	}
	return ""
}
