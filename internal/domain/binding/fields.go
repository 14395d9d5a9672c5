package binding

import (
	"errors"
	"fmt"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// Field is one of the nine stored binding columns. Column names used in
// queries are always resolved through this enumeration, never assembled
// from a numeric source id at request time, so a malformed source can never
// reach query construction.
type Field string

const (
	FieldSource1League   Field = "source1_league"
	FieldSource1HomeTeam Field = "source1_home_team"
	FieldSource1AwayTeam Field = "source1_away_team"
	FieldSource2League   Field = "source2_league"
	FieldSource2HomeTeam Field = "source2_home_team"
	FieldSource2AwayTeam Field = "source2_away_team"
	FieldSource3League   Field = "source3_league"
	FieldSource3HomeTeam Field = "source3_home_team"
	FieldSource3AwayTeam Field = "source3_away_team"
)

var ErrUnknownField = errors.New("unknown binding field")

var leagueFields = map[identity.Source]Field{
	identity.SourceOne:   FieldSource1League,
	identity.SourceTwo:   FieldSource2League,
	identity.SourceThree: FieldSource3League,
}

var teamFields = map[identity.Source]map[Role]Field{
	identity.SourceOne:   {RoleHome: FieldSource1HomeTeam, RoleAway: FieldSource1AwayTeam},
	identity.SourceTwo:   {RoleHome: FieldSource2HomeTeam, RoleAway: FieldSource2AwayTeam},
	identity.SourceThree: {RoleHome: FieldSource3HomeTeam, RoleAway: FieldSource3AwayTeam},
}

// LeagueField returns the league column for a feed.
func LeagueField(source identity.Source) (Field, error) {
	f, ok := leagueFields[source]
	if !ok {
		return "", fmt.Errorf("%w: no league column for source %d", ErrUnknownField, int(source))
	}
	return f, nil
}

// TeamField returns the home or away column for a feed.
func TeamField(source identity.Source, role Role) (Field, error) {
	byRole, ok := teamFields[source]
	if !ok {
		return "", fmt.Errorf("%w: no team columns for source %d", ErrUnknownField, int(source))
	}
	f, ok := byRole[role]
	if !ok {
		return "", fmt.Errorf("%w: no %s column for source %d", ErrUnknownField, role, int(source))
	}
	return f, nil
}

// Fields lists the full nine-member column catalog.
func Fields() []Field {
	return []Field{
		FieldSource1League, FieldSource1HomeTeam, FieldSource1AwayTeam,
		FieldSource2League, FieldSource2HomeTeam, FieldSource2AwayTeam,
		FieldSource3League, FieldSource3HomeTeam, FieldSource3AwayTeam,
	}
}
