package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelect_WhereOrderLimit(t *testing.T) {
	query, args, err := Select("id", "name").From("leagues").
		Where(Eq("source", 1), Eq("name", "EPL")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	want := "SELECT id, name FROM leagues WHERE source = $1 AND name = $2 ORDER BY id LIMIT 10"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{1, "EPL"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelect_DistinctWithInAndOr(t *testing.T) {
	query, args, err := Select("source1_home_team").Distinct().From("bindings").
		Where(
			Eq("source1_league", "EPL"),
			Or(Eq("source1_home_team", "Arsenal"), Eq("source1_away_team", "Arsenal")),
			In("source1_home_team", Strings([]string{"Arsenal", "Chelsea"})),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	want := "SELECT DISTINCT source1_home_team FROM bindings" +
		" WHERE source1_league = $1" +
		" AND (source1_home_team = $2 OR source1_away_team = $3)" +
		" AND source1_home_team IN ($4, $5)"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d: %v", len(args), args)
	}
}

func TestSelect_EmptyInNeverMatches(t *testing.T) {
	query, args, err := Select("id").From("bindings").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	if query != "SELECT id FROM bindings WHERE 1=0" {
		t.Fatalf("query = %q", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestSelect_MissingParts(t *testing.T) {
	if _, _, err := Select().From("bindings").ToSQL(); err == nil {
		t.Fatal("expected error for missing columns")
	}
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsert_MultiRowWithSuffix(t *testing.T) {
	query, args, err := InsertInto("leagues").
		Columns("name", "source").
		Values("EPL", 1).
		Values("Premier League", 2).
		Suffix("ON CONFLICT (name, source) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	want := "INSERT INTO leagues (name, source) VALUES ($1, $2), ($3, $4) ON CONFLICT (name, source) DO NOTHING"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"EPL", 1, "Premier League", 2}) {
		t.Fatalf("args = %v", args)
	}
}

func TestInsert_RowArityMismatch(t *testing.T) {
	_, _, err := InsertInto("leagues").
		Columns("name", "source").
		Values("EPL").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for row arity mismatch")
	}
}

func TestUpdate_SetNullSkipsPlaceholder(t *testing.T) {
	query, args, err := Update("bindings").
		SetNull("source1_home_team").
		SetNull("source2_home_team").
		Where(In("id", []any{int64(1), int64(2)})).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	want := "UPDATE bindings SET source1_home_team = NULL, source2_home_team = NULL WHERE id IN ($1, $2)"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{int64(1), int64(2)}) {
		t.Fatalf("args = %v", args)
	}
}

func TestUpdate_MixedSetAndNull(t *testing.T) {
	query, args, err := Update("bindings").
		Set("source1_league", "EPL").
		SetNull("source1_home_team").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	want := "UPDATE bindings SET source1_league = $1, source1_home_team = NULL WHERE id = $2"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"EPL", int64(7)}) {
		t.Fatalf("args = %v", args)
	}
}
