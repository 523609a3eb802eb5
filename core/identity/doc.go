// Package identity describes who is executing a request on the bus.
//
// An Identity is a read-only capability set: a name, whether the caller is
// authenticated (and how), a list of roles and an open set of properties.
// The bus never mutates an identity, it only reads it or swaps the reference
// held by an execution context.
//
// When no caller identity is available the anonymous identity is used:
//
//	id := identity.Anonymous()
//	id.Name()            // "Anonymous"
//	id.IsAuthenticated() // false
//
// Authenticated callers are usually represented by a User:
//
//	alice := identity.NewUser("alice",
//		identity.WithAuthenticationType("jwt"),
//		identity.WithRoles("admin", "billing"),
//		identity.WithProperty("tenant_id", "t-42"),
//	)
//
//	if identity.HasRole(alice, "admin") {
//		// ...
//	}
//
// Any type implementing Identity can be used instead, for example an adapter
// over JWT claims or a session record.
package identity
