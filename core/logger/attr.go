package logger

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/dmitrymomot/cqbus/core/identity"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// slog drops empty attributes, so log.Info("msg", logger.Error(err)) needs no nil check.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Panic creates an attribute for a recovered panic value.
func Panic(v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any("panic", v)
}

// ============================================================================
// Performance and Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// ============================================================================
// Identifiers
// ============================================================================

// RequestID creates an attribute for bus request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// TraceID creates an attribute for distributed tracing IDs.
func TraceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("trace_id", id)
}

// ============================================================================
// Bus
// ============================================================================

// RequestType creates an attribute for the request type name.
func RequestType(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("request_type", name)
}

// RequestKind creates an attribute for the request kind (command/query).
func RequestKind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("request_kind", kind)
}

// Identity groups the caller's name, authentication state and roles under "identity".
// Properties are never logged.
func Identity(id identity.Identity) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}

	attrs := []slog.Attr{
		slog.String("name", id.Name()),
		slog.Bool("authenticated", id.IsAuthenticated()),
	}
	if authType := id.AuthenticationType(); authType != "" {
		attrs = append(attrs, slog.String("auth_type", authType))
	}
	if roles := id.Roles(); len(roles) > 0 {
		attrs = append(attrs, slog.Any("roles", roles))
	}
	return Group("identity", attrs...)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Result creates an attribute for operation results (success/failure).
func Result(result string) slog.Attr {
	return slog.String("result", result)
}

// ============================================================================
// Debugging
// ============================================================================

// Stack captures and returns the current stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}

