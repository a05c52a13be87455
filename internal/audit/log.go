// Package audit appends gradebook mutations to an append-only event log.
// The log is write-only from the service's point of view; it exists so a
// deployment can answer "what changed on this account" after the fact.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Event struct {
	Offset    int64
	AccountID string
	Type      string // e.g. GradeCreated, SemesterDeleted
	Key       string // id of the mutated record
	DataJSON  string
	CreatedAt int64
}

// Logger is what the gradebook service writes to. A nil *EventRepo is a
// valid no-op logger.
type Logger interface {
	Append(ctx context.Context, accountID, typ, key string, data any) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, accountID, typ, key string, data any) error {
	if r == nil {
		return nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (account_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		accountID, typ, key, string(buf), time.Now().Unix())
	return err
}

// List returns an account's events, oldest first.
func (r *EventRepo) List(ctx context.Context, accountID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", account_id, typ, key, data, created_at
		 FROM event_log WHERE account_id=$1 ORDER BY "offset"`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.AccountID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
