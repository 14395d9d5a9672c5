package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// DeleteTeamBinding retracts a previously bound team, identified by the
// feed that reported it plus its league and role. League columns are never
// modified and no row is deleted; only the role's team columns are nulled,
// on the feeds selected by the configured retraction scope. Under the
// default all-sources scope the role is cleared on every slot of each
// matched row, because the three slots record one asserted real-world
// match.
func (s *BindingService) DeleteTeamBinding(ctx context.Context, source identity.Source, league, team string, role binding.Role) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BindingService.DeleteTeamBinding")
	defer span.End()

	if err := source.Validate(); err != nil {
		return err
	}
	if _, err := binding.ParseRole(string(role)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(league) == "" {
		return fmt.Errorf("%w: league is required", ErrInvalidInput)
	}
	if strings.TrimSpace(team) == "" {
		return fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	matched, err := s.bindingRepo.FindByTeam(ctx, source, league, team, role)
	if err != nil {
		return fmt.Errorf("find bindings for retraction: %w", err)
	}
	if len(matched) == 0 {
		// Retracting an unbound team is a no-op, matching the guard's
		// silent handling of duplicates.
		s.logger.DebugContext(ctx, "retraction matched no bindings",
			"source", int(source), "league", league, "team", team, "role", string(role))
		return nil
	}

	ids := make([]int64, 0, len(matched))
	for _, record := range matched {
		ids = append(ids, record.ID)
	}

	targets := s.retractionScope.Sources(source)
	if err := s.bindingRepo.ClearTeamRole(ctx, ids, role, targets); err != nil {
		return fmt.Errorf("clear team role: %w", err)
	}

	s.logger.InfoContext(ctx, "team binding retracted",
		"source", int(source),
		"league", league,
		"team", team,
		"role", string(role),
		"scope", string(s.retractionScope),
		"rows", len(ids),
	)

	return nil
}
