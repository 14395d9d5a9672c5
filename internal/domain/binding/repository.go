package binding

import (
	"context"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// Repository describes binding persistence needs from use cases.
type Repository interface {
	// SaveSubmission persists a batch atomically: identity rows are
	// upserted (get-or-create) and records inserted inside one
	// transaction. Partial writes must not become visible.
	SaveSubmission(ctx context.Context, sub Submission) error

	List(ctx context.Context) ([]Record, error)

	// TeamBound reports whether any stored record matches the full
	// source-ordered league triple and has the given team in the given
	// feed's home or away field.
	TeamBound(ctx context.Context, triple LeagueTriple, source identity.Source, team string) (bool, error)

	// ExistingValues returns the distinct stored values of targetField
	// among rows whose leagueField equals league, restricted to the given
	// candidate values. Both fields must come from the column catalog.
	ExistingValues(ctx context.Context, leagueField Field, league string, targetField Field, values []string) ([]string, error)

	// ExistingValuesAnyLeague is the league-unscoped variant used by the
	// existence check.
	ExistingValuesAnyLeague(ctx context.Context, targetField Field, values []string) ([]string, error)

	// FindByTeam returns the records whose given feed's league column
	// equals league and whose role column equals team.
	FindByTeam(ctx context.Context, source identity.Source, league, team string, role Role) ([]Record, error)

	// ClearTeamRole nulls the role's team column for the given feeds on
	// every listed record. League columns are never touched and rows are
	// never deleted.
	ClearTeamRole(ctx context.Context, ids []int64, role Role, sources []identity.Source) error
}
