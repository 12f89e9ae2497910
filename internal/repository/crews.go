package repository

import (
	"context"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (r *Repository) GetAllCrews() ([]*domain.Crew, error) {
	query := `
		SELECT id, name, sort_order, created_at, version
		FROM crews
		ORDER BY sort_order, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := make([]*domain.Crew, 0)
	for rows.Next() {
		crew := &domain.Crew{}
		if err := rows.Scan(&crew.ID, &crew.Name, &crew.SortOrder, &crew.CreatedAt, &crew.Version); err != nil {
			return nil, err
		}
		crews = append(crews, crew)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return crews, nil
}

func (r *Repository) GetCrewByID(id int64) (*domain.Crew, error) {
	query := `
		SELECT name, sort_order, created_at, version
		FROM crews WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	crew := &domain.Crew{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&crew.Name, &crew.SortOrder, &crew.CreatedAt, &crew.Version); err != nil {
		return nil, err
	}

	return crew, nil
}

func (r *Repository) CreateCrew(crew *domain.Crew) error {
	query := `
		INSERT INTO crews (name, sort_order)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, crew.Name, crew.SortOrder).Scan(&crew.ID, &crew.CreatedAt, &crew.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateCrew(crew *domain.Crew) error {
	query := `
		UPDATE crews
		SET
			name = $1,
			sort_order = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{crew.Name, crew.SortOrder, crew.ID, crew.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&crew.CreatedAt, &crew.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteCrew(id int64) error {
	query := `
		DELETE FROM crews WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
