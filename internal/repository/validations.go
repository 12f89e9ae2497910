package repository

import (
	"context"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

const operatorValidationColumns = `
	ov.id, ov.staff_id, ov.isolator_section_id, ov.status, ov.valid_from, ov.expires_on,
	ov.assessed_by, ov.evidence_ref, ov.notes, ov.created_at, ov.updated_at, ov.version,
	s.first_name || ' ' || s.last_name, i.name || ' ' || sec.section
`

const operatorValidationJoins = `
	FROM operator_validations ov
	JOIN staff_members s ON ov.staff_id = s.id
	JOIN isolator_sections sec ON ov.isolator_section_id = sec.id
	JOIN isolators i ON sec.isolator_id = i.id
	JOIN clean_rooms cr ON i.clean_room_id = cr.id
`

func scanOperatorValidation(scanner interface{ Scan(...any) error }) (*domain.OperatorValidation, error) {
	v := &domain.OperatorValidation{}
	dst := []any{
		&v.ID, &v.StaffID, &v.IsolatorSectionID, &v.Status, &v.ValidFrom, &v.ExpiresOn,
		&v.AssessedBy, &v.EvidenceRef, &v.Notes, &v.CreatedAt, &v.UpdatedAt, &v.Version,
		&v.StaffName, &v.SectionName,
	}
	if err := scanner.Scan(dst...); err != nil {
		return nil, err
	}
	return v, nil
}

// GetOperatorValidations lists validation records, optionally filtered by a
// free-text search over staff / isolator / room names and by status.
func (r *Repository) GetOperatorValidations(q string, status string) ([]*domain.OperatorValidation, error) {
	query := `
		SELECT ` + operatorValidationColumns + operatorValidationJoins + `
		WHERE ($1 = '' OR s.first_name ILIKE '%' || $1 || '%' OR s.last_name ILIKE '%' || $1 || '%'
			OR s.email ILIKE '%' || $1 || '%' OR i.name ILIKE '%' || $1 || '%' OR cr.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR ov.status = $2)
		ORDER BY s.last_name, s.first_name, i.sort_order, sec.section
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	validations := make([]*domain.OperatorValidation, 0)
	for rows.Next() {
		v, err := scanOperatorValidation(rows)
		if err != nil {
			return nil, err
		}
		validations = append(validations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return validations, nil
}

func (r *Repository) GetOperatorValidationByID(id int64) (*domain.OperatorValidation, error) {
	query := `
		SELECT ` + operatorValidationColumns + operatorValidationJoins + `
		WHERE ov.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanOperatorValidation(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) CreateOperatorValidation(v *domain.OperatorValidation) error {
	query := `
		INSERT INTO operator_validations (staff_id, isolator_section_id, status, valid_from, expires_on, assessed_by, evidence_ref, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{v.StaffID, v.IsolatorSectionID, v.Status, v.ValidFrom, v.ExpiresOn, v.AssessedBy, v.EvidenceRef, v.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOperatorValidation(v *domain.OperatorValidation) error {
	query := `
		UPDATE operator_validations
		SET
			status = $1,
			valid_from = $2,
			expires_on = $3,
			assessed_by = $4,
			evidence_ref = $5,
			notes = $6,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{v.Status, v.ValidFrom, v.ExpiresOn, v.AssessedBy, v.EvidenceRef, v.Notes, v.ID, v.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&v.CreatedAt, &v.UpdatedAt, &v.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteOperatorValidation(id int64) error {
	query := `
		DELETE FROM operator_validations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// DeleteOperatorValidationByPair is the quick-remove path from the validation
// matrix, keyed by (staff, section) instead of the record ID.
func (r *Repository) DeleteOperatorValidationByPair(staffID, sectionID int64) error {
	query := `
		DELETE FROM operator_validations WHERE staff_id = $1 AND isolator_section_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, staffID, sectionID); err != nil {
		return err
	}

	return nil
}

// UpsertOperatorValidation is the quick-update path from the validation
// matrix: insert the (staff, section) record or overwrite its status and
// expiry in place.
func (r *Repository) UpsertOperatorValidation(v *domain.OperatorValidation) error {
	query := `
		INSERT INTO operator_validations (staff_id, isolator_section_id, status, valid_from, expires_on)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id, isolator_section_id) DO UPDATE
		SET status = EXCLUDED.status,
			expires_on = EXCLUDED.expires_on,
			updated_at = NOW(),
			version = operator_validations.version + 1
		RETURNING id, valid_from, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{v.StaffID, v.IsolatorSectionID, v.Status, v.ValidFrom, v.ExpiresOn}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.ValidFrom, &v.CreatedAt, &v.UpdatedAt, &v.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllOperatorValidations() ([]*domain.OperatorValidation, error) {
	return r.GetOperatorValidations("", "")
}

// GetEligibleStaffForSection lists active operatives holding an effective
// validation for the section on the given date.
func (r *Repository) GetEligibleStaffForSection(sectionID int64, on time.Time) ([]*domain.StaffMember, error) {
	query := `
		SELECT s.id, s.first_name, s.last_name, s.email, s.mobile_number, s.role, s.crew_id, COALESCE(c.name, ''), s.is_active, s.created_at, s.version
		FROM staff_members s
		LEFT JOIN crews c ON s.crew_id = c.id
		JOIN operator_validations ov ON ov.staff_id = s.id
		WHERE s.is_active = TRUE
		AND s.role = 'OPERATIVE'
		AND ov.isolator_section_id = $1
		AND ov.status = 'VALID'
		AND ov.valid_from <= $2
		AND (ov.expires_on IS NULL OR ov.expires_on >= $2)
		ORDER BY c.sort_order NULLS LAST, c.name, s.last_name, s.first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, sectionID, on)
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
