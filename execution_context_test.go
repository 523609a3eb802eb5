package cqbus_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/identity"
)

func TestExecutionContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context is anonymous with no data", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.EmptyContext()
		assert.True(t, identity.IsAnonymous(ec.Identity()))
		assert.Empty(t, ec.Keys())
		assert.Nil(t, ec.Get("missing"))
	})

	t.Run("nil identity becomes anonymous", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.NewExecutionContext(nil)
		require.NotNil(t, ec.Identity())
		assert.False(t, ec.Identity().IsAuthenticated())

		ec.SetIdentity(identity.NewUser("alice"))
		ec.SetIdentity(nil)
		assert.True(t, identity.IsAnonymous(ec.Identity()))
	})

	t.Run("fluent setters return the same instance", func(t *testing.T) {
		t.Parallel()

		alice := identity.NewUser("alice")
		ec := cqbus.EmptyContext()

		assert.Same(t, ec, ec.With("a", 1))
		assert.Same(t, ec, ec.WithIdentity(alice))
		assert.Same(t, alice, ec.Identity())
		assert.Equal(t, 1, ec.Get("a"))
	})

	t.Run("set overwrites and delete removes", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.EmptyContext()
		ec.Set("k", "v1")
		ec.Set("k", "v2")
		assert.Equal(t, "v2", ec.Get("k"))

		ec.Delete("k")
		_, ok := ec.Lookup("k")
		assert.False(t, ok)
	})

	t.Run("lookup distinguishes nil value from missing key", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.EmptyContext().With("nil", nil)

		v, ok := ec.Lookup("nil")
		assert.True(t, ok)
		assert.Nil(t, v)

		_, ok = ec.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.EmptyContext().With("b", 1).With("c", 2).With("a", 3)
		assert.Equal(t, []string{"a", "b", "c"}, ec.Keys())
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		ec := cqbus.EmptyContext()
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ec.Set("shared", i)
				_ = ec.Get("shared")
				_ = ec.Keys()
				ec.SetIdentity(identity.NewUser("u"))
				_ = ec.Identity()
			}()
		}
		wg.Wait()

		assert.Equal(t, []string{"shared"}, ec.Keys())
	})

	t.Run("zero value behaves like an empty context", func(t *testing.T) {
		t.Parallel()

		ec := new(cqbus.ExecutionContext)
		require.NotNil(t, ec.Identity())
		assert.True(t, identity.IsAnonymous(ec.Identity()))
		assert.Nil(t, ec.Get("missing"))
		assert.Empty(t, ec.Keys())
		ec.Delete("missing")

		assert.Same(t, ec, ec.With("a", 1))
		ec.Set("b", 2)
		assert.Equal(t, []string{"a", "b"}, ec.Keys())
	})

	t.Run("zero value reaches handlers with the anonymous identity", func(t *testing.T) {
		t.Parallel()

		bus := cqbus.New()
		cqbus.RegisterHandlerFunc[WhoAmI, identity.Identity](bus,
			func(_ context.Context, _ WhoAmI, id identity.Identity) (identity.Identity, error) {
				return id, nil
			})
		cqbus.RegisterContextAwareHandlerFunc[ReadSampleKey, string](bus,
			func(_ context.Context, _ ReadSampleKey, ec *cqbus.ExecutionContext) (string, error) {
				ec.Set("sample-key", "written")
				return ec.Identity().Name(), nil
			})

		id, err := cqbus.Execute[identity.Identity](context.Background(), bus, WhoAmI{}, new(cqbus.ExecutionContext))
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, identity.AnonymousName, id.Name())

		ec := new(cqbus.ExecutionContext)
		name, err := cqbus.Execute[string](context.Background(), bus, ReadSampleKey{}, ec)
		require.NoError(t, err)
		assert.Equal(t, identity.AnonymousName, name)
		assert.Equal(t, "written", ec.Get("sample-key"))
	})
}

func TestValue(t *testing.T) {
	t.Parallel()

	ec := cqbus.EmptyContext().With("name", "alice").With("count", 3)

	name, ok := cqbus.Value[string](ec, "name")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	_, ok = cqbus.Value[string](ec, "count")
	assert.False(t, ok, "type mismatch")

	_, ok = cqbus.Value[int](ec, "missing")
	assert.False(t, ok)

	_, ok = cqbus.Value[int](nil, "count")
	assert.False(t, ok)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, cqbus.ExecutionContextFrom(ctx))
	assert.Empty(t, cqbus.RequestNameFrom(ctx))

	ec := cqbus.EmptyContext()
	ctx = cqbus.WithExecutionContext(ctx, ec)
	assert.Same(t, ec, cqbus.ExecutionContextFrom(ctx))
}
