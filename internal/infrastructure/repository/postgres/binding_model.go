package postgres

import (
	"database/sql"
	"time"

	"github.com/fixturelab/matchbind/internal/domain/binding"
)

type bindingTableModel struct {
	ID              int64          `db:"id"`
	Source1League   string         `db:"source1_league"`
	Source1HomeTeam sql.NullString `db:"source1_home_team"`
	Source1AwayTeam sql.NullString `db:"source1_away_team"`
	Source2League   string         `db:"source2_league"`
	Source2HomeTeam sql.NullString `db:"source2_home_team"`
	Source2AwayTeam sql.NullString `db:"source2_away_team"`
	Source3League   string         `db:"source3_league"`
	Source3HomeTeam sql.NullString `db:"source3_home_team"`
	Source3AwayTeam sql.NullString `db:"source3_away_team"`
	CreatedAt       time.Time      `db:"created_at"`
}

func bindingFromRow(row bindingTableModel) binding.Record {
	return binding.Record{
		ID: row.ID,
		Slots: [3]binding.Slot{
			{
				League:   row.Source1League,
				HomeTeam: nullStringToPtr(row.Source1HomeTeam),
				AwayTeam: nullStringToPtr(row.Source1AwayTeam),
			},
			{
				League:   row.Source2League,
				HomeTeam: nullStringToPtr(row.Source2HomeTeam),
				AwayTeam: nullStringToPtr(row.Source2AwayTeam),
			},
			{
				League:   row.Source3League,
				HomeTeam: nullStringToPtr(row.Source3HomeTeam),
				AwayTeam: nullStringToPtr(row.Source3AwayTeam),
			},
		},
		CreatedAt: row.CreatedAt,
	}
}

func bindingRowValues(record binding.Record) []any {
	return []any{
		record.Slots[0].League,
		ptrToNullString(record.Slots[0].HomeTeam),
		ptrToNullString(record.Slots[0].AwayTeam),
		record.Slots[1].League,
		ptrToNullString(record.Slots[1].HomeTeam),
		ptrToNullString(record.Slots[1].AwayTeam),
		record.Slots[2].League,
		ptrToNullString(record.Slots[2].HomeTeam),
		ptrToNullString(record.Slots[2].AwayTeam),
		record.CreatedAt,
	}
}

var bindingInsertColumns = []string{
	string(binding.FieldSource1League),
	string(binding.FieldSource1HomeTeam),
	string(binding.FieldSource1AwayTeam),
	string(binding.FieldSource2League),
	string(binding.FieldSource2HomeTeam),
	string(binding.FieldSource2AwayTeam),
	string(binding.FieldSource3League),
	string(binding.FieldSource3HomeTeam),
	string(binding.FieldSource3AwayTeam),
	"created_at",
}
