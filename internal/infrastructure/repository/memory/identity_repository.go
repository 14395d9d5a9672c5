package memory

import (
	"context"
	"sync"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

type identityKey struct {
	name   string
	source identity.Source
}

// IdentityRepository is an in-memory identity.Repository for tests and
// database-less development.
type IdentityRepository struct {
	mu      sync.RWMutex
	leagues map[identityKey]identity.League
	teams   map[identityKey]identity.Team
	nextID  int64
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{
		leagues: make(map[identityKey]identity.League),
		teams:   make(map[identityKey]identity.Team),
		nextID:  1,
	}
}

func (r *IdentityRepository) GetLeague(_ context.Context, name string, source identity.Source) (identity.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[identityKey{name: name, source: source}]
	return l, ok, nil
}

func (r *IdentityRepository) CreateLeague(_ context.Context, l identity.League) (identity.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := identityKey{name: l.Name, source: l.Source}
	if stored, ok := r.leagues[key]; ok {
		return stored, nil
	}

	l.ID = r.nextID
	r.nextID++
	r.leagues[key] = l
	return l, nil
}

func (r *IdentityRepository) GetTeam(_ context.Context, name string, source identity.Source) (identity.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[identityKey{name: name, source: source}]
	return t, ok, nil
}

func (r *IdentityRepository) CreateTeam(_ context.Context, t identity.Team) (identity.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := identityKey{name: t.Name, source: t.Source}
	if stored, ok := r.teams[key]; ok {
		return stored, nil
	}

	t.ID = r.nextID
	r.nextID++
	r.teams[key] = t
	return t, nil
}
