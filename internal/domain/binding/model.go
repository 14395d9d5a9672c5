package binding

import (
	"fmt"
	"time"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// Role marks a team position inside a fixture.
type Role string

const (
	RoleHome Role = "home"
	RoleAway Role = "away"
)

func ParseRole(v string) (Role, error) {
	switch Role(v) {
	case RoleHome, RoleAway:
		return Role(v), nil
	default:
		return "", fmt.Errorf("role must be home or away, got %q", v)
	}
}

// Slot is one feed's contribution to a binding: its league name plus the
// home/away team names. A nil team field means the feed contributes no team
// at that position, either because it was already bound elsewhere or because
// it was retracted.
type Slot struct {
	League   string
	HomeTeam *string
	AwayTeam *string
}

func (s Slot) Team(role Role) *string {
	if role == RoleHome {
		return s.HomeTeam
	}
	return s.AwayTeam
}

// LeagueTriple is the full source-ordered set of league names declared in
// one submission. Binding equivalence is keyed on the whole triple, not on
// any single feed's league, because a team name can legitimately repeat
// across unrelated league combinations.
type LeagueTriple [3]string

func (t LeagueTriple) League(source identity.Source) string {
	return t[source-1]
}

// Record is one asserted fixture equivalence across the three feeds. The
// three league names need not be equal as strings; the row records exactly
// the assertion that they name the same real-world league.
type Record struct {
	ID        int64
	Slots     [3]Slot
	CreatedAt time.Time
}

func (r Record) Slot(source identity.Source) Slot {
	return r.Slots[source-1]
}

func (r Record) Triple() LeagueTriple {
	return LeagueTriple{r.Slots[0].League, r.Slots[1].League, r.Slots[2].League}
}

// LeagueRef names a league identity to get-or-create during submission.
type LeagueRef struct {
	Name   string
	Source identity.Source
}

// TeamRef names a team identity to get-or-create during submission. The
// owning league is referenced by name because identity ids are only known
// once the submission transaction runs.
type TeamRef struct {
	Name       string
	Source     identity.Source
	LeagueName string
}

// Submission is the unit persisted atomically for one batch: the admitted
// binding rows plus the identities resolved while processing them.
type Submission struct {
	Records []Record
	Leagues []LeagueRef
	Teams   []TeamRef
}

// RetractionScope selects how broadly a team retraction clears role fields.
// The three slots of a record represent one asserted real-world match, so
// the default clears the role across all three feeds; the single-source
// scope limits the clearing to the feed that requested it.
type RetractionScope string

const (
	RetractionScopeAllSources   RetractionScope = "all-sources"
	RetractionScopeSingleSource RetractionScope = "single-source"
)

func ParseRetractionScope(v string) (RetractionScope, error) {
	switch RetractionScope(v) {
	case RetractionScopeAllSources, RetractionScopeSingleSource:
		return RetractionScope(v), nil
	case "":
		return RetractionScopeAllSources, nil
	default:
		return "", fmt.Errorf("retraction scope must be %q or %q, got %q",
			RetractionScopeAllSources, RetractionScopeSingleSource, v)
	}
}

// Sources returns the feeds whose role fields a retraction under this scope
// clears, given the feed that requested it.
func (s RetractionScope) Sources(requested identity.Source) []identity.Source {
	if s == RetractionScopeSingleSource {
		return []identity.Source{requested}
	}
	return identity.Sources
}
