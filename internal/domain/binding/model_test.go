package binding

import (
	"testing"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

func TestParseRole(t *testing.T) {
	if role, err := ParseRole("home"); err != nil || role != RoleHome {
		t.Fatalf("ParseRole(home) = %q, %v", role, err)
	}
	if role, err := ParseRole("away"); err != nil || role != RoleAway {
		t.Fatalf("ParseRole(away) = %q, %v", role, err)
	}
	if _, err := ParseRole("goalie"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseRetractionScope(t *testing.T) {
	if scope, err := ParseRetractionScope(""); err != nil || scope != RetractionScopeAllSources {
		t.Fatalf("empty scope should default to all-sources, got %q, %v", scope, err)
	}
	if scope, err := ParseRetractionScope("single-source"); err != nil || scope != RetractionScopeSingleSource {
		t.Fatalf("ParseRetractionScope(single-source) = %q, %v", scope, err)
	}
	if _, err := ParseRetractionScope("everything"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}

func TestRetractionScope_Sources(t *testing.T) {
	all := RetractionScopeAllSources.Sources(identity.SourceTwo)
	if len(all) != 3 {
		t.Fatalf("all-sources scope should target 3 feeds, got %d", len(all))
	}

	single := RetractionScopeSingleSource.Sources(identity.SourceTwo)
	if len(single) != 1 || single[0] != identity.SourceTwo {
		t.Fatalf("single-source scope should target the requesting feed, got %v", single)
	}
}

func TestRecord_TripleAndSlot(t *testing.T) {
	home := "Arsenal"
	record := Record{
		Slots: [3]Slot{
			{League: "EPL", HomeTeam: &home},
			{League: "Premier League"},
			{League: "ENG1"},
		},
	}

	triple := record.Triple()
	if triple != (LeagueTriple{"EPL", "Premier League", "ENG1"}) {
		t.Fatalf("unexpected triple %v", triple)
	}
	if triple.League(identity.SourceTwo) != "Premier League" {
		t.Fatalf("League(2) = %q", triple.League(identity.SourceTwo))
	}

	slot := record.Slot(identity.SourceOne)
	if slot.Team(RoleHome) == nil || *slot.Team(RoleHome) != "Arsenal" {
		t.Fatalf("Slot(1).Team(home) = %v", slot.Team(RoleHome))
	}
	if slot.Team(RoleAway) != nil {
		t.Fatalf("Slot(1).Team(away) should be nil")
	}
}
