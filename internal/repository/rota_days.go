package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (r *Repository) GetRotaDayByDate(date time.Time) (*domain.RotaDay, error) {
	query := `
		SELECT id, date, status, publish_version, published_at, created_at, version
		FROM rota_days WHERE date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	day := &domain.RotaDay{}
	dst := []any{&day.ID, &day.Date, &day.Status, &day.PublishVersion, &day.PublishedAt, &day.CreatedAt, &day.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(dst...); err != nil {
		return nil, err
	}

	return day, nil
}

// GetOrCreateRotaDay returns the day row for a date, creating a DRAFT shell
// if none exists yet.
func (r *Repository) GetOrCreateRotaDay(date time.Time) (*domain.RotaDay, error) {
	query := `
		INSERT INTO rota_days (date)
		VALUES ($1)
		ON CONFLICT (date) DO UPDATE SET date = EXCLUDED.date
		RETURNING id, date, status, publish_version, published_at, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	day := &domain.RotaDay{}
	dst := []any{&day.ID, &day.Date, &day.Status, &day.PublishVersion, &day.PublishedAt, &day.CreatedAt, &day.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(dst...); err != nil {
		return nil, err
	}

	return day, nil
}

func (r *Repository) GetRotaDaysInRange(from, to time.Time) ([]*domain.RotaDay, error) {
	query := `
		SELECT id, date, status, publish_version, published_at, created_at, version
		FROM rota_days
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*domain.RotaDay, 0)
	for rows.Next() {
		day := &domain.RotaDay{}
		dst := []any{&day.ID, &day.Date, &day.Status, &day.PublishVersion, &day.PublishedAt, &day.CreatedAt, &day.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// PublishRotaDay moves a day to PUBLISHED, bumps its publish version and
// appends the ROTA_PUBLISHED audit event, all in one transaction.
func (r *Repository) PublishRotaDay(day *domain.RotaDay, actor string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE rota_days
		SET
			status = $1,
			publish_version = publish_version + 1,
			published_at = NOW(),
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING status, publish_version, published_at, version
	`

	dst := []any{&day.Status, &day.PublishVersion, &day.PublishedAt, &day.Version}
	if err := tx.QueryRowContext(ctx, query, domain.RotaDayPublished, day.ID, day.Version).Scan(dst...); err != nil {
		return err
	}

	event := &domain.RotaDayAuditEvent{
		RotaDayID: day.ID,
		EventType: domain.AuditRotaPublished,
		Actor:     actor,
		Summary:   fmt.Sprintf("Published rota for %s (version %d)", day.Date.Format("2006-01-02"), day.PublishVersion),
	}
	if err := insertAuditEventsTx(ctx, tx, []*domain.RotaDayAuditEvent{event}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
