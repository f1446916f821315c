package store

import (
	"context"
	"fmt"
)

// Session is one host Run.
type Session struct {
	ID     string
	Args   []string
	Script string
}

// DamageRecord is one notification received by the host.
type DamageRecord struct {
	SessionID string
	Seq       int64
	Amount    int
}

// WriteSession inserts a session row.
// Uses ON CONFLICT(id) DO NOTHING - writing the same session twice keeps the
// first row.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	argsJSON, err := marshalArgs(sess.Args)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, args, script)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, argsJSON, sess.Script)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteDamage inserts a damage row.
// Uses ON CONFLICT DO NOTHING on (session_id, seq) for idempotency.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteDamage(ctx context.Context, rec DamageRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO damage_events (session_id, seq, amount)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, rec.SessionID, rec.Seq, rec.Amount)
	if err != nil {
		return fmt.Errorf("write damage %s/%d: %w", rec.SessionID, rec.Seq, err)
	}
	return nil
}
