package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

// The audit trail is append-only. Events are inserted alongside the mutation
// that caused them; no update or delete path exists.

func insertAuditEventsTx(ctx context.Context, tx *sql.Tx, events []*domain.RotaDayAuditEvent) error {
	query := `
		INSERT INTO rota_day_audit_events (rota_day_id, event_type, actor, summary, before_json, after_json)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	for _, ev := range events {
		var beforeJSON, afterJSON []byte
		var err error

		if ev.Before != nil {
			if beforeJSON, err = json.Marshal(ev.Before); err != nil {
				return err
			}
		}
		if ev.After != nil {
			if afterJSON, err = json.Marshal(ev.After); err != nil {
				return err
			}
		}

		args := []any{ev.RotaDayID, ev.EventType, ev.Actor, ev.Summary, beforeJSON, afterJSON}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&ev.ID, &ev.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetAuditEventsByRotaDayID(rotaDayID int64) ([]*domain.RotaDayAuditEvent, error) {
	query := `
		SELECT id, rota_day_id, event_type, actor, summary, before_json, after_json, created_at
		FROM rota_day_audit_events
		WHERE rota_day_id = $1
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rotaDayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.RotaDayAuditEvent, 0)
	for rows.Next() {
		ev := &domain.RotaDayAuditEvent{}
		var beforeJSON, afterJSON []byte

		dst := []any{&ev.ID, &ev.RotaDayID, &ev.EventType, &ev.Actor, &ev.Summary, &beforeJSON, &afterJSON, &ev.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if len(beforeJSON) > 0 {
			if err := json.Unmarshal(beforeJSON, &ev.Before); err != nil {
				return nil, err
			}
		}
		if len(afterJSON) > 0 {
			if err := json.Unmarshal(afterJSON, &ev.After); err != nil {
				return nil, err
			}
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
