package identity

import "context"

// Repository describes identity persistence needs from use cases.
//
// Create methods must tolerate a concurrent insert of the same
// (name, source) pair: on conflict they return the already stored row.
type Repository interface {
	GetLeague(ctx context.Context, name string, source Source) (League, bool, error)
	CreateLeague(ctx context.Context, l League) (League, error)
	GetTeam(ctx context.Context, name string, source Source) (Team, bool, error)
	CreateTeam(ctx context.Context, t Team) (Team, error)
}
