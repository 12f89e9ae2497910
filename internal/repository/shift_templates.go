package repository

import (
	"context"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (r *Repository) GetAllShiftTemplates() ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, start_time, end_time, block, created_at, version
		FROM shift_templates
		ORDER BY start_time, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.ShiftTemplate, 0)
	for rows.Next() {
		st := &domain.ShiftTemplate{}
		if err := rows.Scan(&st.ID, &st.Name, &st.StartTime, &st.EndTime, &st.Block, &st.CreatedAt, &st.Version); err != nil {
			return nil, err
		}
		templates = append(templates, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetShiftTemplateByID(id int64) (*domain.ShiftTemplate, error) {
	query := `
		SELECT name, start_time, end_time, block, created_at, version
		FROM shift_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	st := &domain.ShiftTemplate{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&st.Name, &st.StartTime, &st.EndTime, &st.Block, &st.CreatedAt, &st.Version); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Repository) CreateShiftTemplate(st *domain.ShiftTemplate) error {
	query := `
		INSERT INTO shift_templates (name, start_time, end_time, block)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.Block}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftTemplate(st *domain.ShiftTemplate) error {
	query := `
		UPDATE shift_templates
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			block = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.Block, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftTemplate(id int64) error {
	query := `
		DELETE FROM shift_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
