package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTestSession writes a session with minimal fields.
func writeTestSession(t *testing.T, s *Store, id string) {
	t.Helper()
	err := s.WriteSession(context.Background(), Session{
		ID:     id,
		Args:   []string{"doomhost", "-episode", "1"},
		Script: "test",
	})
	if err != nil {
		t.Fatalf("WriteSession(%s) failed: %v", id, err)
	}
}
