package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
)

// BindingRepository is an in-memory binding.Repository for tests and
// database-less development. Identity rows resolved alongside a submission
// are kept in the embedded identity store so both repositories observe the
// same batch.
type BindingRepository struct {
	mu         sync.RWMutex
	records    []binding.Record
	nextID     int64
	identities *IdentityRepository
}

func NewBindingRepository(identities *IdentityRepository) *BindingRepository {
	return &BindingRepository{nextID: 1, identities: identities}
}

func (r *BindingRepository) SaveSubmission(ctx context.Context, sub binding.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identities != nil {
		for _, ref := range sub.Leagues {
			if _, err := r.identities.CreateLeague(ctx, identity.League{Name: ref.Name, Source: ref.Source}); err != nil {
				return err
			}
		}
		for _, ref := range sub.Teams {
			owner, ok, err := r.identities.GetLeague(ctx, ref.LeagueName, ref.Source)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("team %q references unresolved league %q source %d",
					ref.Name, ref.LeagueName, int(ref.Source))
			}
			if _, err := r.identities.CreateTeam(ctx, identity.Team{Name: ref.Name, Source: ref.Source, LeagueID: owner.ID}); err != nil {
				return err
			}
		}
	}

	for _, record := range sub.Records {
		record.ID = r.nextID
		r.nextID++
		r.records = append(r.records, record)
	}
	return nil
}

func (r *BindingRepository) List(_ context.Context) ([]binding.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]binding.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *BindingRepository) TeamBound(_ context.Context, triple binding.LeagueTriple, source identity.Source, team string) (bool, error) {
	if err := source.Validate(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.Triple() != triple {
			continue
		}
		slot := record.Slot(source)
		if matches(slot.HomeTeam, team) || matches(slot.AwayTeam, team) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BindingRepository) ExistingValues(_ context.Context, leagueField binding.Field, league string, targetField binding.Field, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, record := range r.records {
		leagueValue, err := fieldValue(record, leagueField)
		if err != nil {
			return nil, err
		}
		if leagueValue == nil || *leagueValue != league {
			continue
		}
		target, err := fieldValue(record, targetField)
		if err != nil {
			return nil, err
		}
		if target == nil {
			continue
		}
		if _, ok := wanted[*target]; !ok {
			continue
		}
		if _, ok := seen[*target]; ok {
			continue
		}
		seen[*target] = struct{}{}
		out = append(out, *target)
	}
	return out, nil
}

func (r *BindingRepository) ExistingValuesAnyLeague(_ context.Context, targetField binding.Field, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, record := range r.records {
		target, err := fieldValue(record, targetField)
		if err != nil {
			return nil, err
		}
		if target == nil {
			continue
		}
		if _, ok := wanted[*target]; !ok {
			continue
		}
		if _, ok := seen[*target]; ok {
			continue
		}
		seen[*target] = struct{}{}
		out = append(out, *target)
	}
	return out, nil
}

func (r *BindingRepository) FindByTeam(_ context.Context, source identity.Source, league, team string, role binding.Role) ([]binding.Record, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []binding.Record
	for _, record := range r.records {
		slot := record.Slot(source)
		if slot.League != league {
			continue
		}
		if matches(slot.Team(role), team) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *BindingRepository) ClearTeamRole(_ context.Context, ids []int64, role binding.Role, sources []identity.Source) error {
	if len(ids) == 0 || len(sources) == 0 {
		return nil
	}

	targets := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if _, ok := targets[r.records[i].ID]; !ok {
			continue
		}
		for _, source := range sources {
			if err := source.Validate(); err != nil {
				return err
			}
			slot := &r.records[i].Slots[source-1]
			if role == binding.RoleHome {
				slot.HomeTeam = nil
			} else {
				slot.AwayTeam = nil
			}
		}
	}
	return nil
}

func matches(v *string, team string) bool {
	return v != nil && *v == team
}

// fieldValue reads the stored value of a catalog column from a record.
// League columns are always present; team columns may be null.
func fieldValue(record binding.Record, f binding.Field) (*string, error) {
	for _, source := range identity.Sources {
		slot := record.Slot(source)
		if lf, err := binding.LeagueField(source); err == nil && lf == f {
			league := slot.League
			return &league, nil
		}
		for _, role := range []binding.Role{binding.RoleHome, binding.RoleAway} {
			if tf, err := binding.TeamField(source, role); err == nil && tf == f {
				return slot.Team(role), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", binding.ErrUnknownField, string(f))
}
