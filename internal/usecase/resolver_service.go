package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// ResolverService maps a (name, source) pair to its canonical identity,
// creating the identity on first sight. The canonicalization key is the
// (name, source) pair itself; repeated calls with identical inputs return
// the same row and never create duplicates.
type ResolverService struct {
	identityRepo identity.Repository
}

func NewResolverService(identityRepo identity.Repository) *ResolverService {
	return &ResolverService{identityRepo: identityRepo}
}

func (s *ResolverService) ResolveLeague(ctx context.Context, name string, source identity.Source) (identity.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveLeague")
	defer span.End()

	// Names are matched exactly as reported by the feed; only fully blank
	// input is rejected.
	if strings.TrimSpace(name) == "" {
		return identity.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if err := source.Validate(); err != nil {
		return identity.League{}, err
	}

	existing, ok, err := s.identityRepo.GetLeague(ctx, name, source)
	if err != nil {
		return identity.League{}, fmt.Errorf("get league identity: %w", err)
	}
	if ok {
		return existing, nil
	}

	created, err := s.identityRepo.CreateLeague(ctx, identity.League{Name: name, Source: source})
	if err != nil {
		return identity.League{}, fmt.Errorf("create league identity: %w", err)
	}

	return created, nil
}

// ResolveTeam resolves a team identity under an already resolved league.
// The league must exist for the same source; resolving a team before its
// league fails with identity.ErrMissingDependency.
func (s *ResolverService) ResolveTeam(ctx context.Context, name string, source identity.Source, leagueName string) (identity.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveTeam")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return identity.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(leagueName) == "" {
		return identity.Team{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if err := source.Validate(); err != nil {
		return identity.Team{}, err
	}

	owner, ok, err := s.identityRepo.GetLeague(ctx, leagueName, source)
	if err != nil {
		return identity.Team{}, fmt.Errorf("get league identity: %w", err)
	}
	if !ok {
		return identity.Team{}, fmt.Errorf("%w: league=%s source=%d", identity.ErrMissingDependency, leagueName, int(source))
	}

	existing, ok, err := s.identityRepo.GetTeam(ctx, name, source)
	if err != nil {
		return identity.Team{}, fmt.Errorf("get team identity: %w", err)
	}
	if ok {
		return existing, nil
	}

	created, err := s.identityRepo.CreateTeam(ctx, identity.Team{Name: name, Source: source, LeagueID: owner.ID})
	if err != nil {
		return identity.Team{}, fmt.Errorf("create team identity: %w", err)
	}

	return created, nil
}
