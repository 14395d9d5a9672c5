package postgres

import (
	"time"

	"github.com/fixturelab/matchbind/internal/domain/identity"
)

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Source    int       `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

func leagueFromRow(row leagueTableModel) identity.League {
	return identity.League{
		ID:     row.ID,
		Name:   row.Name,
		Source: identity.Source(row.Source),
	}
}

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Source    int       `db:"source"`
	LeagueID  int64     `db:"league_id"`
	CreatedAt time.Time `db:"created_at"`
}

func teamFromRow(row teamTableModel) identity.Team {
	return identity.Team{
		ID:       row.ID,
		Name:     row.Name,
		Source:   identity.Source(row.Source),
		LeagueID: row.LeagueID,
	}
}
