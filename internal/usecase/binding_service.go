package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
	"github.com/fixturelab/matchbind/internal/platform/logging"
)

// SlotInput is one feed's part of a fixture submission. Team fields may be
// nil when the feed contributes no team at that position.
type SlotInput struct {
	LeagueName string
	HomeTeam   *string
	AwayTeam   *string
	Source     identity.Source
}

// FixtureSubmission asserts that three per-feed fixtures are the same
// real-world match.
type FixtureSubmission struct {
	Source1 SlotInput
	Source2 SlotInput
	Source3 SlotInput
}

func (r FixtureSubmission) slots() [3]SlotInput {
	return [3]SlotInput{r.Source1, r.Source2, r.Source3}
}

// BindingService owns the write path: admitting candidate slots through the
// duplicate guard and persisting the resulting records.
type BindingService struct {
	bindingRepo     binding.Repository
	precheckWorkers int
	retractionScope binding.RetractionScope
	logger          *logging.Logger
	now             func() time.Time
}

func NewBindingService(
	bindingRepo binding.Repository,
	precheckWorkers int,
	retractionScope binding.RetractionScope,
	logger *logging.Logger,
) *BindingService {
	if logger == nil {
		logger = logging.Default()
	}
	if precheckWorkers < 1 {
		precheckWorkers = 1
	}
	if retractionScope == "" {
		retractionScope = binding.RetractionScopeAllSources
	}

	return &BindingService{
		bindingRepo:     bindingRepo,
		precheckWorkers: precheckWorkers,
		retractionScope: retractionScope,
		logger:          logger,
		now:             time.Now,
	}
}

// SubmitBindings runs every candidate through the duplicate guard and
// persists the whole batch in one transaction. Identities for the declared
// leagues and the admitted teams are get-or-created alongside the records.
func (s *BindingService) SubmitBindings(ctx context.Context, requests []FixtureSubmission) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BindingService.SubmitBindings")
	defer span.End()

	if len(requests) == 0 {
		return fmt.Errorf("%w: at least one binding request is required", ErrInvalidInput)
	}

	sub := binding.Submission{Records: make([]binding.Record, 0, len(requests))}
	seenLeagues := make(map[binding.LeagueRef]struct{})
	seenTeams := make(map[binding.TeamRef]struct{})

	for i, request := range requests {
		if err := validateSubmission(request); err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}

		slots := request.slots()
		triple := binding.LeagueTriple{slots[0].LeagueName, slots[1].LeagueName, slots[2].LeagueName}

		record := binding.Record{CreatedAt: s.now()}
		for _, source := range identity.Sources {
			in := slots[source-1]

			home, err := s.admitSlot(ctx, source, in.HomeTeam, triple, sub.Records)
			if err != nil {
				return err
			}
			away, err := s.admitSlot(ctx, source, in.AwayTeam, triple, sub.Records)
			if err != nil {
				return err
			}

			record.Slots[source-1] = binding.Slot{
				League:   in.LeagueName,
				HomeTeam: home,
				AwayTeam: away,
			}

			leagueRef := binding.LeagueRef{Name: in.LeagueName, Source: source}
			if _, ok := seenLeagues[leagueRef]; !ok {
				seenLeagues[leagueRef] = struct{}{}
				sub.Leagues = append(sub.Leagues, leagueRef)
			}
			for _, team := range []*string{home, away} {
				if team == nil {
					continue
				}
				teamRef := binding.TeamRef{Name: *team, Source: source, LeagueName: in.LeagueName}
				if _, ok := seenTeams[teamRef]; !ok {
					seenTeams[teamRef] = struct{}{}
					sub.Teams = append(sub.Teams, teamRef)
				}
			}
		}

		sub.Records = append(sub.Records, record)
	}

	if err := s.bindingRepo.SaveSubmission(ctx, sub); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}

	s.logger.InfoContext(ctx, "bindings submitted",
		"records", len(sub.Records),
		"leagues", len(sub.Leagues),
		"teams", len(sub.Teams),
	)

	return nil
}

func (s *BindingService) ListBindings(ctx context.Context) ([]binding.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BindingService.ListBindings")
	defer span.End()

	records, err := s.bindingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}

	return records, nil
}

// admitSlot decides whether a candidate team may occupy its slot. A nil
// candidate passes through untouched. A candidate already bound for the
// exact source-ordered league triple under the same feed is replaced with
// nil: a soft skip, not an error. The read-then-insert sequence is not
// serialized against concurrent submissions; two identical batches racing
// each other may both be admitted.
func (s *BindingService) admitSlot(
	ctx context.Context,
	source identity.Source,
	candidate *string,
	triple binding.LeagueTriple,
	pending []binding.Record,
) (*string, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}

	for _, record := range pending {
		if recordHoldsTeam(record, triple, source, *candidate) {
			return nil, nil
		}
	}

	bound, err := s.bindingRepo.TeamBound(ctx, triple, source, *candidate)
	if err != nil {
		return nil, fmt.Errorf("check team bound: %w", err)
	}
	if bound {
		return nil, nil
	}

	return candidate, nil
}

// recordHoldsTeam mirrors the stored-row guard condition for records that
// are still in the current batch and not yet visible to queries.
func recordHoldsTeam(record binding.Record, triple binding.LeagueTriple, source identity.Source, team string) bool {
	if record.Triple() != triple {
		return false
	}
	slot := record.Slot(source)
	if slot.HomeTeam != nil && *slot.HomeTeam == team {
		return true
	}
	if slot.AwayTeam != nil && *slot.AwayTeam == team {
		return true
	}
	return false
}

func validateSubmission(request FixtureSubmission) error {
	for i, slot := range request.slots() {
		expected := identity.Source(i + 1)
		if strings.TrimSpace(slot.LeagueName) == "" {
			return fmt.Errorf("%w: source%d league name is required", ErrInvalidInput, int(expected))
		}
		if slot.Source != 0 && slot.Source != expected {
			return fmt.Errorf("%w: source%d slot declares source %d", ErrInvalidInput, int(expected), int(slot.Source))
		}
	}
	return nil
}
