package store

import (
	"reflect"
	"testing"
)

func TestQuerySelectAll(t *testing.T) {
	sql, args := NewQuery("generic medicines list").SQL()

	expected := `SELECT * FROM "generic medicines list"`
	if sql != expected {
		t.Errorf("SQL = %q, want %q", sql, expected)
	}
	if len(args) != 0 {
		t.Errorf("Expected no args, got %v", args)
	}
}

func TestQueryFiltersSortAndLimit(t *testing.T) {
	q := NewQuery("generic medicines list").
		WhereEq("Name", "TAB GLIMEPRIDE").
		WhereILike("Type", "diabetic").
		OrderBy("Cost of branded", true).
		Limit(15)

	sql, args := q.SQL()

	expected := `SELECT * FROM "generic medicines list" WHERE "Name" = $1 AND "Type" ILIKE $2 ORDER BY "Cost of branded" DESC LIMIT 15`
	if sql != expected {
		t.Errorf("SQL = %q, want %q", sql, expected)
	}

	expectedArgs := []any{"TAB GLIMEPRIDE", "%diabetic%"}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("args = %v, want %v", args, expectedArgs)
	}
}

func TestQueryDistinctColumn(t *testing.T) {
	sql, _ := NewQuery("generic medicines list").Select("Type").Distinct().SQL()

	expected := `SELECT DISTINCT "Type" FROM "generic medicines list"`
	if sql != expected {
		t.Errorf("SQL = %q, want %q", sql, expected)
	}
}

func TestQueryAscendingSort(t *testing.T) {
	sql, _ := NewQuery("t").OrderBy("Cost of branded", false).SQL()

	if sql != `SELECT * FROM "t" ORDER BY "Cost of branded" ASC` {
		t.Errorf("unexpected SQL: %q", sql)
	}
}

func TestQueryEscapesLikeMetacharacters(t *testing.T) {
	_, args := NewQuery("t").WhereILike("Name", "50%_a\\b").SQL()

	if len(args) != 1 {
		t.Fatalf("Expected one arg, got %v", args)
	}
	if args[0] != `%50\%\_a\\b%` {
		t.Errorf("pattern = %q, want %q", args[0], `%50\%\_a\\b%`)
	}
}

func TestQueryZeroLimitOmitted(t *testing.T) {
	sql, _ := NewQuery("t").Limit(0).SQL()

	if sql != `SELECT * FROM "t"` {
		t.Errorf("unexpected SQL: %q", sql)
	}
}
