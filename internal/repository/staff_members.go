package repository

import (
	"context"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (r *Repository) GetAllStaffMembers() ([]*domain.StaffMember, error) {
	query := `
		SELECT s.id, s.first_name, s.last_name, s.email, s.mobile_number, s.role, s.crew_id, COALESCE(c.name, ''), s.is_active, s.created_at, s.version
		FROM staff_members s
		LEFT JOIN crews c ON s.crew_id = c.id
		ORDER BY c.sort_order NULLS LAST, c.name, s.last_name, s.first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.StaffMember, 0)
	for rows.Next() {
		m := &domain.StaffMember{}
		dst := []any{&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.MobileNumber, &m.Role, &m.CrewID, &m.CrewName, &m.IsActive, &m.CreatedAt, &m.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) GetStaffMemberByID(id int64) (*domain.StaffMember, error) {
	query := `
		SELECT s.first_name, s.last_name, s.email, s.mobile_number, s.role, s.crew_id, COALESCE(c.name, ''), s.is_active, s.created_at, s.version
		FROM staff_members s
		LEFT JOIN crews c ON s.crew_id = c.id
		WHERE s.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	m := &domain.StaffMember{
		ID: id,
	}

	dst := []any{&m.FirstName, &m.LastName, &m.Email, &m.MobileNumber, &m.Role, &m.CrewID, &m.CrewName, &m.IsActive, &m.CreatedAt, &m.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *Repository) CreateStaffMember(m *domain.StaffMember) error {
	query := `
		INSERT INTO staff_members (first_name, last_name, email, mobile_number, role, crew_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{m.FirstName, m.LastName, m.Email, m.MobileNumber, m.Role, m.CrewID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.IsActive, &m.CreatedAt, &m.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateStaffMember(m *domain.StaffMember) error {
	query := `
		UPDATE staff_members
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			mobile_number = $4,
			role = $5,
			crew_id = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{m.FirstName, m.LastName, m.Email, m.MobileNumber, m.Role, m.CrewID, m.IsActive, m.ID, m.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&m.CreatedAt, &m.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaffMember(id int64) error {
	query := `
		DELETE FROM staff_members WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
