package identity

import "slices"

// Identity is the capability contract of a caller.
// Implementations must be safe for concurrent reads.
type Identity interface {
	// Name returns a human-readable identifier of the caller.
	Name() string

	// IsAuthenticated reports whether the caller has been authenticated.
	IsAuthenticated() bool

	// AuthenticationType returns the authentication scheme that produced the identity.
	// An empty string means no authentication type is known.
	AuthenticationType() string

	// Roles returns the roles granted to the caller.
	Roles() []string

	// Properties returns arbitrary attributes of the caller.
	Properties() map[string]any
}

// AnonymousName is the name reported by the anonymous identity.
const AnonymousName = "Anonymous"

type anonymous struct{}

func (anonymous) Name() string               { return AnonymousName }
func (anonymous) IsAuthenticated() bool      { return false }
func (anonymous) AuthenticationType() string { return "" }
func (anonymous) Roles() []string            { return []string{} }
func (anonymous) Properties() map[string]any { return map[string]any{} }

// Anonymous returns the identity used when the caller supplies none.
func Anonymous() Identity {
	return anonymous{}
}

// IsAnonymous reports whether id is nil or the anonymous identity.
func IsAnonymous(id Identity) bool {
	if id == nil {
		return true
	}
	_, ok := id.(anonymous)
	return ok
}

// OrAnonymous returns id, or the anonymous identity when id is nil.
func OrAnonymous(id Identity) Identity {
	if id == nil {
		return Anonymous()
	}
	return id
}

// HasRole reports whether id has been granted role.
func HasRole(id Identity, role string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Roles(), role)
}

// HasAnyRole reports whether id has at least one of roles.
func HasAnyRole(id Identity, roles ...string) bool {
	if id == nil {
		return false
	}
	granted := id.Roles()
	for _, role := range roles {
		if slices.Contains(granted, role) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether id has every one of roles.
// An empty roles list is always satisfied.
func HasAllRoles(id Identity, roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	if id == nil {
		return false
	}
	granted := id.Roles()
	for _, role := range roles {
		if !slices.Contains(granted, role) {
			return false
		}
	}
	return true
}

// Property returns a single property of id and whether it was present.
func Property(id Identity, key string) (any, bool) {
	if id == nil {
		return nil, false
	}
	v, ok := id.Properties()[key]
	return v, ok
}
