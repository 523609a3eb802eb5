package cqbus

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/cqbus/core/identity"
)

// ExecutionContext carries the caller identity and arbitrary key/value data
// through one Execute call. Middleware and context-aware handlers share the
// same instance, so a value set by one is visible to the others.
//
// The identity is never nil: a nil identity is replaced by identity.Anonymous().
// The zero value is usable and behaves like EmptyContext().
type ExecutionContext struct {
	mu       sync.RWMutex
	identity identity.Identity
	data     map[string]any
}

// EmptyContext returns a context with the anonymous identity and no data.
func EmptyContext() *ExecutionContext {
	return NewExecutionContext(nil)
}

// NewExecutionContext returns a context for id with no data.
func NewExecutionContext(id identity.Identity) *ExecutionContext {
	return &ExecutionContext{
		identity: identity.OrAnonymous(id),
		data:     make(map[string]any),
	}
}

// Identity returns the current identity.
func (ec *ExecutionContext) Identity() identity.Identity {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return identity.OrAnonymous(ec.identity)
}

// SetIdentity replaces the current identity.
func (ec *ExecutionContext) SetIdentity(id identity.Identity) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.identity = identity.OrAnonymous(id)
}

// WithIdentity replaces the current identity and returns ec for chaining.
func (ec *ExecutionContext) WithIdentity(id identity.Identity) *ExecutionContext {
	ec.SetIdentity(id)
	return ec
}

// With stores value under key and returns ec for chaining.
func (ec *ExecutionContext) With(key string, value any) *ExecutionContext {
	ec.Set(key, value)
	return ec
}

// Set stores value under key, replacing any previous value.
func (ec *ExecutionContext) Set(key string, value any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if ec.data == nil {
		ec.data = make(map[string]any)
	}
	ec.data[key] = value
}

// Get returns the value stored under key, or nil when absent.
func (ec *ExecutionContext) Get(key string) any {
	v, _ := ec.Lookup(key)
	return v
}

// Lookup returns the value stored under key and whether it was present.
// Unlike Get it tells an explicit nil value apart from a missing key.
func (ec *ExecutionContext) Lookup(key string) (any, bool) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	v, ok := ec.data[key]
	return v, ok
}

// Delete removes key.
func (ec *ExecutionContext) Delete(key string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	delete(ec.data, key)
}

// Keys returns the stored keys in sorted order.
func (ec *ExecutionContext) Keys() []string {
	ec.mu.RLock()
	keys := make([]string, 0, len(ec.data))
	for k := range ec.data {
		keys = append(keys, k)
	}
	ec.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Value returns the value stored under key asserted to T.
// It returns false when the key is absent or holds another type.
func Value[T any](ec *ExecutionContext, key string) (T, bool) {
	var zero T
	if ec == nil {
		return zero, false
	}
	v, ok := ec.Lookup(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
