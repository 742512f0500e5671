// Package identity abstracts the session/user-identity collaborator. The
// managed identity provider lives outside this system; components only ever
// ask "who is the current user".
package identity

import "context"

// Resolver yields the current user's ID, or an empty string when no user is
// signed in.
type Resolver interface {
	CurrentUserID(ctx context.Context) string
}

// Static is a Resolver fixed to one user, used by tests.
type Static string

// CurrentUserID implements Resolver.
func (s Static) CurrentUserID(context.Context) string { return string(s) }

// Func adapts a function to a Resolver. The CLI uses it to read the user
// from live configuration, so a flag applied after assembly still counts.
type Func func(ctx context.Context) string

// CurrentUserID implements Resolver.
func (f Func) CurrentUserID(ctx context.Context) string { return f(ctx) }
