package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	writeTestSession(t, s1, "sess-1")
	if err := s1.WriteDamage(ctx, DamageRecord{SessionID: "sess-1", Seq: 1, Amount: 10}); err != nil {
		t.Fatalf("WriteDamage() failed: %v", err)
	}
	s1.Close()

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		records, err := s.ReadDamage(ctx, "sess-1")
		if err != nil {
			t.Fatalf("ReadDamage() failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("iteration %d: got %d records, want 1", i, len(records))
		}
		s.Close()
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	defer s.Close()

	writeTestSession(t, s, "mem")
	if _, err := s.ReadSession(context.Background(), "mem"); err != nil {
		t.Errorf("ReadSession() failed: %v", err)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.expected); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestOpen_SchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}

	var name string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND name = 'idx_damage_events_amount'
	`).Scan(&name)
	if err != nil {
		t.Errorf("summary index missing: %v", err)
	}
}

func TestClose_NilStore(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("nil Close() = %v, want nil", err)
	}
}

func TestWriteSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := Session{ID: "s1", Args: []string{"doomhost", "-iwad", "doom1.wad"}, Script: "e1m1"}
	if err := s.WriteSession(ctx, want); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}

	got, err := s.ReadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadSession() = %+v, want %+v", got, want)
	}
}

func TestWriteSession_NilArgs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, Session{ID: "s1"}); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	got, err := s.ReadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got.Args == nil || len(got.Args) != 0 {
		t.Errorf("Args = %#v, want empty non-nil slice", got.Args)
	}
}

func TestWriteSession_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, Session{ID: "s1", Script: "first"}); err != nil {
		t.Fatalf("first WriteSession() failed: %v", err)
	}
	if err := s.WriteSession(ctx, Session{ID: "s1", Script: "second"}); err != nil {
		t.Fatalf("second WriteSession() failed: %v", err)
	}

	got, err := s.ReadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got.Script != "first" {
		t.Errorf("Script = %q, want first row kept", got.Script)
	}
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadSession() error = %v, want sql.ErrNoRows", err)
	}
}

func TestReadSessions_InsertionOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ReadSessions(ctx)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ReadSessions() on empty log = %#v, want empty slice", empty)
	}

	for _, id := range []string{"c", "a", "b"} {
		writeTestSession(t, s, id)
	}
	sessions, err := s.ReadSessions(ctx)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	var ids []string
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Errorf("session order = %v, want [c a b]", ids)
	}
}

func TestWriteDamage_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestSession(t, s, "s1")

	for _, rec := range []DamageRecord{
		{SessionID: "s1", Seq: 3, Amount: 30},
		{SessionID: "s1", Seq: 1, Amount: 10},
		{SessionID: "s1", Seq: 2, Amount: 20},
	} {
		if err := s.WriteDamage(ctx, rec); err != nil {
			t.Fatalf("WriteDamage(%d) failed: %v", rec.Seq, err)
		}
	}

	records, err := s.ReadDamage(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadDamage() failed: %v", err)
	}
	want := []DamageRecord{
		{SessionID: "s1", Seq: 1, Amount: 10},
		{SessionID: "s1", Seq: 2, Amount: 20},
		{SessionID: "s1", Seq: 3, Amount: 30},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("ReadDamage() = %+v, want %+v", records, want)
	}
}

func TestWriteDamage_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestSession(t, s, "s1")

	rec := DamageRecord{SessionID: "s1", Seq: 1, Amount: 5}
	for i := 0; i < 2; i++ {
		if err := s.WriteDamage(ctx, rec); err != nil {
			t.Fatalf("WriteDamage() %d failed: %v", i, err)
		}
	}
	if err := s.WriteDamage(ctx, DamageRecord{SessionID: "s1", Seq: 1, Amount: 99}); err != nil {
		t.Fatalf("conflicting WriteDamage() failed: %v", err)
	}

	records, err := s.ReadDamage(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadDamage() failed: %v", err)
	}
	if len(records) != 1 || records[0].Amount != 5 {
		t.Errorf("ReadDamage() = %+v, want single record with amount 5", records)
	}
}

func TestWriteDamage_RequiresSession(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteDamage(context.Background(), DamageRecord{SessionID: "ghost", Seq: 1, Amount: 1})
	if err == nil {
		t.Error("WriteDamage() for unknown session succeeded, want foreign key error")
	}
}

func TestWriteDamage_NegativeAmount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestSession(t, s, "s1")

	if err := s.WriteDamage(ctx, DamageRecord{SessionID: "s1", Seq: 1, Amount: -3}); err != nil {
		t.Fatalf("WriteDamage() failed: %v", err)
	}
	records, err := s.ReadDamage(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadDamage() failed: %v", err)
	}
	if len(records) != 1 || records[0].Amount != -3 {
		t.Errorf("ReadDamage() = %+v, want amount -3 preserved", records)
	}
}

func TestReadDamage_Empty(t *testing.T) {
	s := createTestStore(t)
	writeTestSession(t, s, "s1")

	records, err := s.ReadDamage(context.Background(), "s1")
	if err != nil {
		t.Fatalf("ReadDamage() failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ReadDamage() = %#v, want empty non-nil slice", records)
	}
}

func TestSummarize(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestSession(t, s, "s1")
	writeTestSession(t, s, "s2")

	for i, amount := range []int{10, 25, 5} {
		rec := DamageRecord{SessionID: "s1", Seq: int64(i + 1), Amount: amount}
		if err := s.WriteDamage(ctx, rec); err != nil {
			t.Fatalf("WriteDamage() failed: %v", err)
		}
	}

	tests := []struct {
		session string
		want    Summary
	}{
		{"s1", Summary{Count: 3, Total: 40, Max: 25}},
		{"s2", Summary{}},
		{"missing", Summary{}},
	}
	for _, tt := range tests {
		t.Run(tt.session, func(t *testing.T) {
			got, err := s.Summarize(ctx, tt.session)
			if err != nil {
				t.Fatalf("Summarize() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
