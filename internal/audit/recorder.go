// Package audit keeps a PostgreSQL trail of wizard session events.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
)

// Schema creates the events table. Applied by EnsureSchema on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS wizard_events (
	id          BIGSERIAL PRIMARY KEY,
	flow        TEXT        NOT NULL,
	session_id  TEXT        NOT NULL,
	user_id     TEXT        NOT NULL,
	event_type  TEXT        NOT NULL,
	step        INTEGER     NOT NULL,
	substep     INTEGER     NOT NULL,
	detail      TEXT        NOT NULL DEFAULT '',
	duration_ms BIGINT      NOT NULL DEFAULT 0,
	occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS wizard_events_user_flow_idx ON wizard_events (user_id, flow, occurred_at DESC);
`

const insertEvent = `INSERT INTO wizard_events
	(flow, session_id, user_id, event_type, step, substep, detail, duration_ms, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const selectRecent = `SELECT flow, session_id, user_id, event_type, step, substep, detail, duration_ms, occurred_at
	FROM wizard_events
	WHERE user_id = $1 AND flow = $2
	ORDER BY occurred_at DESC
	LIMIT $3`

// Recorder writes session events to PostgreSQL. Write failures are logged
// and never reach the session.
type Recorder struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

func NewRecorder(db *sql.DB, timeout time.Duration, log logger.Logger) *Recorder {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Recorder{db: db, timeout: timeout, logger: log}
}

func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create wizard_events: %w", err)
	}
	return nil
}

func (r *Recorder) Record(ctx context.Context, e models.WizardEvent) {
	// The request may already be finished when the event fires.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, insertEvent,
		e.Flow, e.SessionID, e.UserID, string(e.Type),
		e.Step, e.Substep, e.Detail, e.Duration.Milliseconds(), at,
	)
	if err != nil {
		r.logger.Warn("audit write failed", map[string]interface{}{
			"error":     err,
			"flow":      e.Flow,
			"sessionId": e.SessionID,
			"event":     string(e.Type),
		})
	}
}

// Recent returns the newest events for a user's flow, newest first.
func (r *Recorder) Recent(ctx context.Context, userID, flow string, limit int) ([]models.WizardEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectRecent, userID, flow, limit)
	if err != nil {
		return nil, fmt.Errorf("query wizard_events: %w", err)
	}
	defer rows.Close()

	var events []models.WizardEvent
	for rows.Next() {
		var (
			e          models.WizardEvent
			eventType  string
			durationMS int64
		)
		if err := rows.Scan(&e.Flow, &e.SessionID, &e.UserID, &eventType,
			&e.Step, &e.Substep, &e.Detail, &durationMS, &e.At); err != nil {
			return nil, fmt.Errorf("scan wizard_events: %w", err)
		}
		e.Type = models.EventType(eventType)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wizard_events: %w", err)
	}
	return events, nil
}
