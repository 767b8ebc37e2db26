// Package actorctx carries the authenticated actor through request contexts.
// Services read it to fill created_by/updated_by audit fields.
package actorctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Actor identifies the authenticated user performing a request.
type Actor struct {
	UserID snowflake.ID
	Email  string
	Roles  []string
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext returns the actor from context, if set.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UserID == 0 {
		return Actor{}, false
	}
	return actor, true
}

// UserIDFromContext returns the acting user's ID, or zero when unauthenticated.
func UserIDFromContext(ctx context.Context) snowflake.ID {
	actor, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return actor.UserID
}
