package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"ganttboard/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal is the session activity log. It lives in an in-memory SQLite database and is
// discarded with the process.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens a fresh in-memory journal.
func OpenJournal(ctx context.Context) (*Journal, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" would get its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) Append(ctx context.Context, ts time.Time, typ, entityID string, payload any) (model.Event, error) {
	if j == nil || j.db == nil {
		return model.Event{}, errors.New("journal closed")
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return model.Event{}, errors.New("missing event type")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return model.Event{}, err
	}
	ev := model.Event{
		ID:       uuid.NewString(),
		TS:       ts.UTC(),
		Type:     typ,
		EntityID: strings.TrimSpace(entityID),
		Payload:  payload,
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO events(event_id, type, entity_id, issued_at_unixms, payload_json) VALUES(?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.EntityID, ev.TS.UnixMilli(), string(b),
	)
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Tail returns the last limit events, oldest first. limit <= 0 returns everything.
func (j *Journal) Tail(ctx context.Context, limit int) ([]model.Event, error) {
	q := `SELECT event_id, type, entity_id, issued_at_unixms, payload_json FROM events ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	evs, err := j.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(evs)-1; i < k; i, k = i+1, k-1 {
		evs[i], evs[k] = evs[k], evs[i]
	}
	return evs, nil
}

// ForEntity returns every event recorded for entityID, oldest first.
func (j *Journal) ForEntity(ctx context.Context, entityID string) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return j.query(ctx,
		`SELECT event_id, type, entity_id, issued_at_unixms, payload_json FROM events WHERE entity_id = ? ORDER BY seq ASC`,
		entityID,
	)
}

func (j *Journal) Count(ctx context.Context) (int, error) {
	if j == nil || j.db == nil {
		return 0, errors.New("journal closed")
	}
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal closed")
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev          model.Event
			issuedAt    int64
			payloadJSON string
		)
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &issuedAt, &payloadJSON); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(issuedAt).UTC()
		var payload any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err == nil {
			ev.Payload = payload
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
