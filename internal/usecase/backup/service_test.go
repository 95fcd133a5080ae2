package backup

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSelectTables(t *testing.T) {
	t.Run("empty selects everything sorted", func(t *testing.T) {
		got, err := selectTables(nil)
		if err != nil {
			t.Fatalf("selectTables(nil) error = %v", err)
		}
		if len(got) != len(tables) {
			t.Fatalf("got %d tables, want %d", len(got), len(tables))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Name > got[i].Name {
				t.Fatalf("tables not sorted: %s before %s", got[i-1].Name, got[i].Name)
			}
		}
	})

	t.Run("filters and normalizes names", func(t *testing.T) {
		got, err := selectTables([]string{" Review_Cards ", "items"})
		if err != nil {
			t.Fatalf("selectTables() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d tables, want 2", len(got))
		}
	})

	t.Run("unknown table rejected", func(t *testing.T) {
		if _, err := selectTables([]string{"users"}); err == nil {
			t.Fatal("expected error for unknown table")
		}
	})

	t.Run("only blanks rejected", func(t *testing.T) {
		if _, err := selectTables([]string{" ", ""}); err != errNoTablesSelected {
			t.Fatalf("got %v, want errNoTablesSelected", err)
		}
	})
}

func TestBuildUpsertClause(t *testing.T) {
	tbl := tableSpec{Name: "items", Conflict: []string{"id"}}

	got := buildUpsertClause(tbl, []string{"id", "ref", "domain"})
	want := " ON CONFLICT (id) DO UPDATE SET ref = EXCLUDED.ref, domain = EXCLUDED.domain"
	if got != want {
		t.Errorf("buildUpsertClause() = %q, want %q", got, want)
	}

	got = buildUpsertClause(tbl, []string{"id"})
	if got != " ON CONFLICT (id) DO NOTHING" {
		t.Errorf("id-only insert should DO NOTHING, got %q", got)
	}
}

func TestConvertJSONValuePreservesIntegers(t *testing.T) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"id": 9007199254740993, "ease": 2.5, "ref": "run"}`))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := convertJSONValue(raw["id"]); got != int64(9007199254740993) {
		t.Errorf("id = %v (%T), want int64 beyond float precision", got, got)
	}
	if got := convertJSONValue(raw["ease"]); got != 2.5 {
		t.Errorf("ease = %v, want 2.5", got)
	}
	if got := convertJSONValue(raw["ref"]); got != "run" {
		t.Errorf("ref = %v, want run", got)
	}
}

func TestConvertDBValue(t *testing.T) {
	if got := convertDBValue([]byte("2025-03-10")); got != "2025-03-10" {
		t.Errorf("[]byte = %v, want string", got)
	}
	if got := convertDBValue(int64(7)); got != int64(7) {
		t.Errorf("int64 = %v, want passthrough", got)
	}
}
