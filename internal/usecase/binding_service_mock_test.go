package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
	"github.com/fixturelab/matchbind/internal/platform/logging"
)

type bindingRepositoryMock struct {
	mock.Mock
}

func (m *bindingRepositoryMock) SaveSubmission(ctx context.Context, sub binding.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *bindingRepositoryMock) List(ctx context.Context) ([]binding.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]binding.Record)
	return records, args.Error(1)
}

func (m *bindingRepositoryMock) TeamBound(ctx context.Context, triple binding.LeagueTriple, source identity.Source, team string) (bool, error) {
	args := m.Called(ctx, triple, source, team)
	return args.Bool(0), args.Error(1)
}

func (m *bindingRepositoryMock) ExistingValues(ctx context.Context, leagueField binding.Field, league string, targetField binding.Field, values []string) ([]string, error) {
	args := m.Called(ctx, leagueField, league, targetField, values)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *bindingRepositoryMock) ExistingValuesAnyLeague(ctx context.Context, targetField binding.Field, values []string) ([]string, error) {
	args := m.Called(ctx, targetField, values)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *bindingRepositoryMock) FindByTeam(ctx context.Context, source identity.Source, league, team string, role binding.Role) ([]binding.Record, error) {
	args := m.Called(ctx, source, league, team, role)
	records, _ := args.Get(0).([]binding.Record)
	return records, args.Error(1)
}

func (m *bindingRepositoryMock) ClearTeamRole(ctx context.Context, ids []int64, role binding.Role, sources []identity.Source) error {
	args := m.Called(ctx, ids, role, sources)
	return args.Error(0)
}

func TestBindingService_SubmitBindings_GuardErrorAborts(t *testing.T) {
	repo := &bindingRepositoryMock{}
	boom := errors.New("connection reset")
	repo.On("TeamBound", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, boom)

	service := NewBindingService(repo, 1, binding.RetractionScopeAllSources, logging.NewNop())

	err := service.SubmitBindings(t.Context(), []FixtureSubmission{
		submission("EPL", "Arsenal", "", "Premier League", "", "", "ENG1", "", ""),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected guard error to propagate, got %v", err)
	}

	repo.AssertNotCalled(t, "SaveSubmission", mock.Anything, mock.Anything)
}

func TestBindingService_CheckDuplicates_QueryErrorAborts(t *testing.T) {
	repo := &bindingRepositoryMock{}
	boom := errors.New("query timeout")
	repo.On("ExistingValues", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	service := NewBindingService(repo, 2, binding.RetractionScopeAllSources, logging.NewNop())

	_, err := service.CheckDuplicates(t.Context(), identity.SourceOne, []MatchCandidate{
		{League: "EPL", HomeTeam: "Arsenal"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected query error to propagate, got %v", err)
	}
}
