package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
)

func seedBindings(t *testing.T, service *BindingService) {
	t.Helper()

	err := service.SubmitBindings(t.Context(), []FixtureSubmission{
		submission("EPL", "Arsenal", "Chelsea", "Premier League", "Arsenal FC", "Chelsea FC", "ENG1", "ARS", "CHE"),
		submission("La Liga", "Barcelona", "Sevilla", "Primera", "FC Barcelona", "Sevilla FC", "ESP1", "BAR", "SEV"),
	})
	if err != nil {
		t.Fatalf("seed submit failed: %v", err)
	}
}

func TestBindingService_CheckDuplicates_ReportsLeagueAndTeams(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	report, err := service.CheckDuplicates(t.Context(), identity.SourceOne, []MatchCandidate{
		{League: "EPL", HomeTeam: "Arsenal", AwayTeam: "Liverpool"},
		{League: "Serie A", HomeTeam: "Inter", AwayTeam: "Milan"},
	})
	if err != nil {
		t.Fatalf("check duplicates failed: %v", err)
	}

	if !reflect.DeepEqual(report.Leagues, []string{"EPL"}) {
		t.Fatalf("expected duplicate league [EPL], got %v", report.Leagues)
	}
	if !reflect.DeepEqual(report.Teams, []string{"Arsenal"}) {
		t.Fatalf("expected duplicate team [Arsenal], got %v", report.Teams)
	}
}

func TestBindingService_CheckDuplicates_ScopedToSource(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	// "EPL" and "Arsenal" are stored under source1 only; checking source2
	// must not see them.
	report, err := service.CheckDuplicates(t.Context(), identity.SourceTwo, []MatchCandidate{
		{League: "EPL", HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
	})
	if err != nil {
		t.Fatalf("check duplicates failed: %v", err)
	}

	if len(report.Leagues) != 0 || len(report.Teams) != 0 {
		t.Fatalf("expected empty report for other source, got %+v", report)
	}
}

func TestBindingService_CheckDuplicates_TeamsScopedToLeague(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	// "Arsenal" is bound in EPL, not in La Liga: the league-scoped check
	// must not report it under the wrong league.
	report, err := service.CheckDuplicates(t.Context(), identity.SourceOne, []MatchCandidate{
		{League: "La Liga", HomeTeam: "Arsenal", AwayTeam: "Barcelona"},
	})
	if err != nil {
		t.Fatalf("check duplicates failed: %v", err)
	}

	if !reflect.DeepEqual(report.Leagues, []string{"La Liga"}) {
		t.Fatalf("expected duplicate league [La Liga], got %v", report.Leagues)
	}
	if !reflect.DeepEqual(report.Teams, []string{"Barcelona"}) {
		t.Fatalf("expected duplicate team [Barcelona], got %v", report.Teams)
	}
}

func TestBindingService_CheckDuplicates_AwayColumnCounts(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	report, err := service.CheckDuplicates(t.Context(), identity.SourceOne, []MatchCandidate{
		{League: "EPL", HomeTeam: "Chelsea"},
	})
	if err != nil {
		t.Fatalf("check duplicates failed: %v", err)
	}

	if !reflect.DeepEqual(report.Teams, []string{"Chelsea"}) {
		t.Fatalf("expected Chelsea found via away column, got %v", report.Teams)
	}
}

func TestBindingService_CheckDuplicates_EmptyCandidates(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	report, err := service.CheckDuplicates(t.Context(), identity.SourceOne, nil)
	if err != nil {
		t.Fatalf("check duplicates failed: %v", err)
	}
	if len(report.Leagues) != 0 || len(report.Teams) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestBindingService_CheckDuplicates_InvalidSource(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)

	_, err := service.CheckDuplicates(t.Context(), identity.Source(9), []MatchCandidate{{League: "EPL"}})
	if !errors.Is(err, identity.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestBindingService_CheckExisting_IgnoresLeagueScope(t *testing.T) {
	service, _ := newTestBindingService(t, binding.RetractionScopeAllSources)
	seedBindings(t, service)

	// Unlike CheckDuplicates, the existence check reports a team bound
	// anywhere for the feed, whatever league the candidate declares.
	report, err := service.CheckExisting(t.Context(), identity.SourceOne, []MatchCandidate{
		{League: "Serie A", HomeTeam: "Arsenal", AwayTeam: "Sevilla"},
	})
	if err != nil {
		t.Fatalf("check existing failed: %v", err)
	}

	if len(report.Leagues) != 0 {
		t.Fatalf("expected no leagues, got %v", report.Leagues)
	}
	if !reflect.DeepEqual(report.Teams, []string{"Arsenal", "Sevilla"}) {
		t.Fatalf("expected [Arsenal Sevilla], got %v", report.Teams)
	}
}
