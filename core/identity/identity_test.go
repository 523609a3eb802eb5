package identity_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cqbus/core/identity"
)

func TestAnonymous(t *testing.T) {
	t.Parallel()

	t.Run("reports the default anonymous capabilities", func(t *testing.T) {
		t.Parallel()

		id := identity.Anonymous()

		assert.Equal(t, "Anonymous", id.Name())
		assert.False(t, id.IsAuthenticated())
		assert.Empty(t, id.AuthenticationType())
		assert.NotNil(t, id.Roles())
		assert.Empty(t, id.Roles())
		assert.NotNil(t, id.Properties())
		assert.Empty(t, id.Properties())
	})

	t.Run("cannot be mutated through its accessors", func(t *testing.T) {
		t.Parallel()

		id := identity.Anonymous()
		id.Properties()["leak"] = true
		_ = append(id.Roles(), "admin")

		assert.Empty(t, id.Properties())
		assert.Empty(t, id.Roles())
	})

	t.Run("is recognised by IsAnonymous", func(t *testing.T) {
		t.Parallel()

		assert.True(t, identity.IsAnonymous(identity.Anonymous()))
		assert.True(t, identity.IsAnonymous(nil))
		assert.False(t, identity.IsAnonymous(identity.NewUser("alice")))
	})

	t.Run("OrAnonymous replaces nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, identity.AnonymousName, identity.OrAnonymous(nil).Name())

		alice := identity.NewUser("alice")
		assert.Same(t, alice, identity.OrAnonymous(alice))
	})
}

func TestUser(t *testing.T) {
	t.Parallel()

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		u := identity.NewUser("alice",
			identity.WithAuthenticationType("jwt"),
			identity.WithRoles("admin", "billing", "admin", ""),
			identity.WithProperty("tenant_id", "t-42"),
			identity.WithProperties(map[string]any{"plan": "pro"}),
		)

		assert.Equal(t, "alice", u.Name())
		assert.True(t, u.IsAuthenticated())
		assert.Equal(t, "jwt", u.AuthenticationType())

		if diff := cmp.Diff([]string{"admin", "billing"}, u.Roles()); diff != "" {
			t.Errorf("roles mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]any{"tenant_id": "t-42", "plan": "pro"}, u.Properties()); diff != "" {
			t.Errorf("properties mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns copies from accessors", func(t *testing.T) {
		t.Parallel()

		u := identity.NewUser("bob", identity.WithRoles("viewer"), identity.WithProperty("k", "v"))

		roles := u.Roles()
		roles[0] = "admin"
		props := u.Properties()
		props["k"] = "changed"

		assert.Equal(t, []string{"viewer"}, u.Roles())
		assert.Equal(t, "v", u.Properties()["k"])
	})

	t.Run("does not alias the properties map passed in", func(t *testing.T) {
		t.Parallel()

		src := map[string]any{"k": "v"}
		u := identity.NewUser("carol", identity.WithProperties(src))
		src["k"] = "changed"

		assert.Equal(t, "v", u.Properties()["k"])
	})

	t.Run("satisfies Identity", func(t *testing.T) {
		t.Parallel()

		var id identity.Identity = identity.NewUser("dave")
		require.NotNil(t, id)
		assert.Equal(t, "dave", id.Name())
	})
}

func TestRoleHelpers(t *testing.T) {
	t.Parallel()

	admin := identity.NewUser("root", identity.WithRoles("admin", "ops"))

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"HasRole granted", identity.HasRole(admin, "admin"), true},
		{"HasRole missing", identity.HasRole(admin, "billing"), false},
		{"HasRole nil identity", identity.HasRole(nil, "admin"), false},
		{"HasAnyRole one matches", identity.HasAnyRole(admin, "billing", "ops"), true},
		{"HasAnyRole none match", identity.HasAnyRole(admin, "billing", "support"), false},
		{"HasAnyRole empty list", identity.HasAnyRole(admin), false},
		{"HasAllRoles all granted", identity.HasAllRoles(admin, "admin", "ops"), true},
		{"HasAllRoles one missing", identity.HasAllRoles(admin, "admin", "billing"), false},
		{"HasAllRoles empty list", identity.HasAllRoles(nil), true},
		{"anonymous has no roles", identity.HasAnyRole(identity.Anonymous(), "admin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestProperty(t *testing.T) {
	t.Parallel()

	u := identity.NewUser("alice", identity.WithProperty("tenant_id", "t-1"))

	v, ok := identity.Property(u, "tenant_id")
	assert.True(t, ok)
	assert.Equal(t, "t-1", v)

	_, ok = identity.Property(u, "missing")
	assert.False(t, ok)

	_, ok = identity.Property(nil, "tenant_id")
	assert.False(t, ok)
}
