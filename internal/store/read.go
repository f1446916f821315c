package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary aggregates one session's notifications.
type Summary struct {
	Count int
	Total int
	Max   int
}

// ReadSession retrieves a session by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var (
		sess     Session
		argsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, args, script FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &argsJSON, &sess.Script)
	if err != nil {
		return Session{}, err
	}

	sess.Args, err = unmarshalArgs(argsJSON)
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// ReadSessions returns every session in insertion order.
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ReadSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, args, script FROM sessions ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			sess     Session
			argsJSON string
		)
		if err := rows.Scan(&sess.ID, &argsJSON, &sess.Script); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.Args, err = unmarshalArgs(argsJSON); err != nil {
			return nil, fmt.Errorf("read session %s: %w", sess.ID, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadDamage returns a session's notifications ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ReadDamage(ctx context.Context, sessionID string) ([]DamageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, amount
		FROM damage_events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query damage: %w", err)
	}
	defer rows.Close()

	records := []DamageRecord{}
	for rows.Next() {
		var rec DamageRecord
		if err := rows.Scan(&rec.SessionID, &rec.Seq, &rec.Amount); err != nil {
			return nil, fmt.Errorf("scan damage: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate damage: %w", err)
	}
	return records, nil
}

// Summarize returns count, total and max amount for a session.
// A session with no notifications summarizes to the zero Summary.
func (s *Store) Summarize(ctx context.Context, sessionID string) (Summary, error) {
	var (
		sum      Summary
		total    sql.NullInt64
		maxValue sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(amount), MAX(amount)
		FROM damage_events
		WHERE session_id = ?
	`, sessionID).Scan(&sum.Count, &total, &maxValue)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", sessionID, err)
	}

	sum.Total = int(total.Int64)
	sum.Max = int(maxValue.Int64)
	return sum, nil
}
