package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fixturelab/matchbind/internal/domain/identity"
	qb "github.com/fixturelab/matchbind/internal/platform/querybuilder"
)

// IdentityRepository stores resolved league and team identities keyed by
// (name, source).
type IdentityRepository struct {
	db *sqlx.DB
}

func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) GetLeague(ctx context.Context, name string, source identity.Source) (identity.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("name", name), qb.Eq("source", int(source))).
		ToSQL()
	if err != nil {
		return identity.League{}, false, crerr.Wrap(err, "build get league query")
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.League{}, false, nil
		}
		return identity.League{}, false, crerr.Wrap(err, "get league")
	}

	return leagueFromRow(row), true, nil
}

// CreateLeague inserts tolerantly: a concurrent insert of the same
// (name, source) pair is absorbed and the stored row returned.
func (r *IdentityRepository) CreateLeague(ctx context.Context, l identity.League) (identity.League, error) {
	query, args, err := qb.InsertInto("leagues").
		Columns("name", "source").
		Values(l.Name, int(l.Source)).
		Suffix("ON CONFLICT (name, source) DO NOTHING").
		ToSQL()
	if err != nil {
		return identity.League{}, crerr.Wrap(err, "build insert league query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return identity.League{}, crerr.Wrapf(err, "insert league %q", l.Name)
	}

	stored, ok, err := r.GetLeague(ctx, l.Name, l.Source)
	if err != nil {
		return identity.League{}, err
	}
	if !ok {
		return identity.League{}, crerr.Newf("league %q source %d missing after insert", l.Name, int(l.Source))
	}
	return stored, nil
}

func (r *IdentityRepository) GetTeam(ctx context.Context, name string, source identity.Source) (identity.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("name", name), qb.Eq("source", int(source))).
		ToSQL()
	if err != nil {
		return identity.Team{}, false, crerr.Wrap(err, "build get team query")
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.Team{}, false, nil
		}
		return identity.Team{}, false, crerr.Wrap(err, "get team")
	}

	return teamFromRow(row), true, nil
}

func (r *IdentityRepository) CreateTeam(ctx context.Context, t identity.Team) (identity.Team, error) {
	query, args, err := qb.InsertInto("teams").
		Columns("name", "source", "league_id").
		Values(t.Name, int(t.Source), t.LeagueID).
		Suffix("ON CONFLICT (name, source) DO NOTHING").
		ToSQL()
	if err != nil {
		return identity.Team{}, crerr.Wrap(err, "build insert team query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return identity.Team{}, crerr.Wrapf(err, "insert team %q", t.Name)
	}

	stored, ok, err := r.GetTeam(ctx, t.Name, t.Source)
	if err != nil {
		return identity.Team{}, err
	}
	if !ok {
		return identity.Team{}, crerr.Newf("team %q source %d missing after insert", t.Name, int(t.Source))
	}
	return stored, nil
}
