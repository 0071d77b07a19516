package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	slot, err := NewSQLiteSlot(db)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	if err := slot.Put(context.Background(), "roundtrip", []byte(`[{"id":1,"title":"Roundtrip task"}]`)); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := slot.Get(context.Background(), "roundtrip")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if string(got) != `[{"id":1,"title":"Roundtrip task"}]` {
		t.Fatalf("unexpected value after roundtrip: %q", got)
	}
}
