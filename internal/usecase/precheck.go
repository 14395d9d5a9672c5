package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// MatchCandidate is one fixture an operator intends to submit for a feed.
type MatchCandidate struct {
	League   string
	HomeTeam string
	AwayTeam string
}

// DuplicateReport lists the candidate leagues and teams that already appear
// in stored bindings for the checked feed.
type DuplicateReport struct {
	Leagues []string
	Teams   []string
}

type precheckLeagueResult struct {
	league string
	teams  []string
	err    error
}

// CheckDuplicates answers, before a bulk submission, which of the candidate
// leagues and teams for one feed already appear in stored bindings for that
// feed. Checks are scoped to the declared feed: the same name stored under
// another feed does not count. Team checks are additionally scoped to the
// candidate's league.
func (s *BindingService) CheckDuplicates(ctx context.Context, source identity.Source, candidates []MatchCandidate) (DuplicateReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BindingService.CheckDuplicates")
	defer span.End()

	if err := source.Validate(); err != nil {
		return DuplicateReport{}, err
	}

	leagueField, err := binding.LeagueField(source)
	if err != nil {
		return DuplicateReport{}, err
	}
	homeField, err := binding.TeamField(source, binding.RoleHome)
	if err != nil {
		return DuplicateReport{}, err
	}
	awayField, err := binding.TeamField(source, binding.RoleAway)
	if err != nil {
		return DuplicateReport{}, err
	}

	teamsByLeague := groupCandidates(candidates)
	if len(teamsByLeague) == 0 {
		return DuplicateReport{Leagues: []string{}, Teams: []string{}}, nil
	}

	pool, err := ants.NewPool(s.precheckWorkers)
	if err != nil {
		return DuplicateReport{}, fmt.Errorf("create precheck worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan precheckLeagueResult, len(teamsByLeague))
	var workers sync.WaitGroup
	for league, teams := range teamsByLeague {
		league, teams := league, teams
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.checkLeague(ctx, league, teams, leagueField, homeField, awayField)
		}); err != nil {
			workers.Done()
			return DuplicateReport{}, fmt.Errorf("submit precheck task: %w", err)
		}
	}

	workers.Wait()
	close(results)

	duplicateLeagues := make(map[string]struct{})
	duplicateTeams := make(map[string]struct{})
	for row := range results {
		if row.err != nil {
			return DuplicateReport{}, row.err
		}
		if row.league != "" {
			duplicateLeagues[row.league] = struct{}{}
		}
		for _, team := range row.teams {
			duplicateTeams[team] = struct{}{}
		}
	}

	return DuplicateReport{
		Leagues: sortedKeys(duplicateLeagues),
		Teams:   sortedKeys(duplicateTeams),
	}, nil
}

// checkLeague runs the per-league queries: is the league itself already
// stored under this feed, and which of its candidate teams occupy the
// feed's home or away columns within it.
func (s *BindingService) checkLeague(
	ctx context.Context,
	league string,
	teams []string,
	leagueField, homeField, awayField binding.Field,
) precheckLeagueResult {
	out := precheckLeagueResult{}

	existing, err := s.bindingRepo.ExistingValues(ctx, leagueField, league, leagueField, []string{league})
	if err != nil {
		out.err = fmt.Errorf("check league %q: %w", league, err)
		return out
	}
	if len(existing) > 0 {
		out.league = league
	}

	if len(teams) == 0 {
		return out
	}

	homeMatches, err := s.bindingRepo.ExistingValues(ctx, leagueField, league, homeField, teams)
	if err != nil {
		out.err = fmt.Errorf("check home teams in league %q: %w", league, err)
		return out
	}
	awayMatches, err := s.bindingRepo.ExistingValues(ctx, leagueField, league, awayField, teams)
	if err != nil {
		out.err = fmt.Errorf("check away teams in league %q: %w", league, err)
		return out
	}

	out.teams = append(out.teams, homeMatches...)
	out.teams = append(out.teams, awayMatches...)
	return out
}

// CheckExisting is the league-unscoped variant: which of the candidate
// leagues and teams appear anywhere in stored bindings for the feed,
// regardless of league combination.
func (s *BindingService) CheckExisting(ctx context.Context, source identity.Source, candidates []MatchCandidate) (DuplicateReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BindingService.CheckExisting")
	defer span.End()

	if err := source.Validate(); err != nil {
		return DuplicateReport{}, err
	}

	leagueField, err := binding.LeagueField(source)
	if err != nil {
		return DuplicateReport{}, err
	}
	homeField, err := binding.TeamField(source, binding.RoleHome)
	if err != nil {
		return DuplicateReport{}, err
	}
	awayField, err := binding.TeamField(source, binding.RoleAway)
	if err != nil {
		return DuplicateReport{}, err
	}

	leagueSet := make(map[string]struct{})
	teamSet := make(map[string]struct{})
	for _, candidate := range candidates {
		if candidate.League != "" {
			leagueSet[candidate.League] = struct{}{}
		}
		if candidate.HomeTeam != "" {
			teamSet[candidate.HomeTeam] = struct{}{}
		}
		if candidate.AwayTeam != "" {
			teamSet[candidate.AwayTeam] = struct{}{}
		}
	}
	if len(leagueSet) == 0 && len(teamSet) == 0 {
		return DuplicateReport{Leagues: []string{}, Teams: []string{}}, nil
	}

	existingLeagues := make(map[string]struct{})
	if len(leagueSet) > 0 {
		found, err := s.bindingRepo.ExistingValuesAnyLeague(ctx, leagueField, sortedKeys(leagueSet))
		if err != nil {
			return DuplicateReport{}, fmt.Errorf("check existing leagues: %w", err)
		}
		for _, v := range found {
			existingLeagues[v] = struct{}{}
		}
	}

	existingTeams := make(map[string]struct{})
	if len(teamSet) > 0 {
		teams := sortedKeys(teamSet)
		for _, field := range []binding.Field{homeField, awayField} {
			found, err := s.bindingRepo.ExistingValuesAnyLeague(ctx, field, teams)
			if err != nil {
				return DuplicateReport{}, fmt.Errorf("check existing teams: %w", err)
			}
			for _, v := range found {
				existingTeams[v] = struct{}{}
			}
		}
	}

	return DuplicateReport{
		Leagues: sortedKeys(existingLeagues),
		Teams:   sortedKeys(existingTeams),
	}, nil
}

// groupCandidates collects the candidate team names per league, skipping
// blanks. Values are matched exactly as provided.
func groupCandidates(candidates []MatchCandidate) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, candidate := range candidates {
		if candidate.League == "" {
			continue
		}
		teams, ok := seen[candidate.League]
		if !ok {
			teams = make(map[string]struct{})
			seen[candidate.League] = teams
		}
		if candidate.HomeTeam != "" {
			teams[candidate.HomeTeam] = struct{}{}
		}
		if candidate.AwayTeam != "" {
			teams[candidate.AwayTeam] = struct{}{}
		}
	}

	out := make(map[string][]string, len(seen))
	for league, teams := range seen {
		out[league] = sortedKeys(teams)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
