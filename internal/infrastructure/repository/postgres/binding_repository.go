package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
	qb "github.com/fixturelab/matchbind/internal/platform/querybuilder"
)

// BindingRepository persists binding records and the identities resolved
// alongside them.
type BindingRepository struct {
	db *sqlx.DB
}

func NewBindingRepository(db *sqlx.DB) *BindingRepository {
	return &BindingRepository{db: db}
}

// SaveSubmission writes one batch inside a single transaction: league
// identities first, then team identities linked to them, then the binding
// rows. Any failure rolls the whole submission back.
func (r *BindingRepository) SaveSubmission(ctx context.Context, sub binding.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin submission tx")
	}
	defer func() { _ = tx.Rollback() }()

	leagueIDs, err := upsertLeagues(ctx, tx, sub.Leagues)
	if err != nil {
		return err
	}
	if err := upsertTeams(ctx, tx, sub.Teams, leagueIDs); err != nil {
		return err
	}
	if err := insertRecords(ctx, tx, sub.Records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit submission tx")
	}
	return nil
}

func upsertLeagues(ctx context.Context, tx *sqlx.Tx, refs []binding.LeagueRef) (map[binding.LeagueRef]int64, error) {
	ids := make(map[binding.LeagueRef]int64, len(refs))
	for _, ref := range refs {
		query, args, err := qb.InsertInto("leagues").
			Columns("name", "source").
			Values(ref.Name, int(ref.Source)).
			Suffix("ON CONFLICT (name, source) DO NOTHING").
			ToSQL()
		if err != nil {
			return nil, crerr.Wrap(err, "build insert league query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, crerr.Wrapf(err, "insert league %q source %d", ref.Name, int(ref.Source))
		}

		id, err := selectLeagueID(ctx, tx, ref.Name, ref.Source)
		if err != nil {
			return nil, err
		}
		ids[ref] = id
	}
	return ids, nil
}

func selectLeagueID(ctx context.Context, tx *sqlx.Tx, name string, source identity.Source) (int64, error) {
	query, args, err := qb.Select("id").From("leagues").
		Where(qb.Eq("name", name), qb.Eq("source", int(source))).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build select league id query")
	}

	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, crerr.Wrapf(err, "select league id for %q source %d", name, int(source))
	}
	return id, nil
}

func upsertTeams(ctx context.Context, tx *sqlx.Tx, refs []binding.TeamRef, leagueIDs map[binding.LeagueRef]int64) error {
	for _, ref := range refs {
		leagueID, ok := leagueIDs[binding.LeagueRef{Name: ref.LeagueName, Source: ref.Source}]
		if !ok {
			return crerr.Newf("team %q references unresolved league %q source %d",
				ref.Name, ref.LeagueName, int(ref.Source))
		}

		query, args, err := qb.InsertInto("teams").
			Columns("name", "source", "league_id").
			Values(ref.Name, int(ref.Source), leagueID).
			Suffix("ON CONFLICT (name, source) DO NOTHING").
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build insert team query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "insert team %q source %d", ref.Name, int(ref.Source))
		}
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sqlx.Tx, records []binding.Record) error {
	if len(records) == 0 {
		return nil
	}

	builder := qb.InsertInto("bindings").Columns(bindingInsertColumns...)
	for _, record := range records {
		builder.Values(bindingRowValues(record)...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build insert bindings query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert bindings")
	}
	return nil
}

func (r *BindingRepository) List(ctx context.Context) ([]binding.Record, error) {
	query, args, err := qb.Select("*").From("bindings").OrderBy("id").ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list bindings query")
	}

	var rows []bindingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list bindings")
	}

	out := make([]binding.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, bindingFromRow(row))
	}
	return out, nil
}

func (r *BindingRepository) TeamBound(ctx context.Context, triple binding.LeagueTriple, source identity.Source, team string) (bool, error) {
	homeField, err := teamColumn(source, binding.RoleHome)
	if err != nil {
		return false, err
	}
	awayField, err := teamColumn(source, binding.RoleAway)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Select("COUNT(1)").From("bindings").
		Where(
			qb.Eq(string(binding.FieldSource1League), triple[0]),
			qb.Eq(string(binding.FieldSource2League), triple[1]),
			qb.Eq(string(binding.FieldSource3League), triple[2]),
			qb.Or(
				qb.Eq(homeField, team),
				qb.Eq(awayField, team),
			),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build team bound query")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, crerr.Wrap(err, "query team bound")
	}
	return count > 0, nil
}

func (r *BindingRepository) ExistingValues(ctx context.Context, leagueField binding.Field, league string, targetField binding.Field, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	leagueColumn, err := column(leagueField)
	if err != nil {
		return nil, err
	}
	targetColumn, err := column(targetField)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select(targetColumn).Distinct().From("bindings").
		Where(
			qb.Eq(leagueColumn, league),
			qb.In(targetColumn, qb.Strings(values)),
		).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build existing values query")
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "select existing %s values", targetColumn)
	}
	return out, nil
}

func (r *BindingRepository) ExistingValuesAnyLeague(ctx context.Context, targetField binding.Field, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	targetColumn, err := column(targetField)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select(targetColumn).Distinct().From("bindings").
		Where(qb.In(targetColumn, qb.Strings(values))).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build existing values any league query")
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "select existing %s values", targetColumn)
	}
	return out, nil
}

func (r *BindingRepository) FindByTeam(ctx context.Context, source identity.Source, league, team string, role binding.Role) ([]binding.Record, error) {
	leagueField, err := binding.LeagueField(source)
	if err != nil {
		return nil, err
	}
	leagueColumn, err := column(leagueField)
	if err != nil {
		return nil, err
	}
	teamColumn, err := teamColumn(source, role)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select("*").From("bindings").
		Where(
			qb.Eq(leagueColumn, league),
			qb.Eq(teamColumn, team),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build find by team query")
	}

	var rows []bindingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "find bindings by team")
	}

	out := make([]binding.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, bindingFromRow(row))
	}
	return out, nil
}

func (r *BindingRepository) ClearTeamRole(ctx context.Context, ids []int64, role binding.Role, sources []identity.Source) error {
	if len(ids) == 0 || len(sources) == 0 {
		return nil
	}

	builder := qb.Update("bindings")
	for _, source := range sources {
		col, err := teamColumn(source, role)
		if err != nil {
			return err
		}
		builder.SetNull(col)
	}

	idValues := make([]any, 0, len(ids))
	for _, id := range ids {
		idValues = append(idValues, id)
	}
	query, args, err := builder.Where(qb.In("id", idValues)).ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build clear team role query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "clear team role")
	}
	return nil
}

// column resolves a field to its column name, re-checking membership in the
// fixed nine-column catalog before it can reach a query.
func column(f binding.Field) (string, error) {
	for _, known := range binding.Fields() {
		if f == known {
			return string(f), nil
		}
	}
	return "", fmt.Errorf("%w: %q", binding.ErrUnknownField, string(f))
}

func teamColumn(source identity.Source, role binding.Role) (string, error) {
	f, err := binding.TeamField(source, role)
	if err != nil {
		return "", err
	}
	return column(f)
}
