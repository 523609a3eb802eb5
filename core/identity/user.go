package identity

import (
	"maps"
	"slices"
)

// User is an authenticated, immutable identity.
// Accessors return copies, so values obtained from a User can be modified freely.
type User struct {
	name       string
	authType   string
	roles      []string
	properties map[string]any
}

// Option configures a User.
type Option func(*User)

// WithAuthenticationType sets the authentication scheme (e.g. "jwt", "api_key").
func WithAuthenticationType(authType string) Option {
	return func(u *User) {
		u.authType = authType
	}
}

// WithRoles appends roles to the user. Duplicates are dropped.
func WithRoles(roles ...string) Option {
	return func(u *User) {
		for _, role := range roles {
			if role != "" && !slices.Contains(u.roles, role) {
				u.roles = append(u.roles, role)
			}
		}
	}
}

// WithProperty sets a single property.
func WithProperty(key string, value any) Option {
	return func(u *User) {
		u.properties[key] = value
	}
}

// WithProperties merges props into the user's properties.
func WithProperties(props map[string]any) Option {
	return func(u *User) {
		maps.Copy(u.properties, props)
	}
}

// NewUser creates an authenticated identity with the given name.
func NewUser(name string, opts ...Option) *User {
	u := &User{
		name:       name,
		roles:      []string{},
		properties: make(map[string]any),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Name returns the user name.
func (u *User) Name() string {
	return u.name
}

// IsAuthenticated always returns true for a User.
func (u *User) IsAuthenticated() bool {
	return true
}

// AuthenticationType returns the authentication scheme, or an empty string if unset.
func (u *User) AuthenticationType() string {
	return u.authType
}

// Roles returns a copy of the user's roles.
func (u *User) Roles() []string {
	return slices.Clone(u.roles)
}

// Properties returns a copy of the user's properties.
func (u *User) Properties() map[string]any {
	return maps.Clone(u.properties)
}
