package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

const assignmentQuery = `
	SELECT
		a.id,
		a.rota_day_id,
		a.staff_id,
		a.shift_template_id,
		a.clean_room_id,
		a.isolator_section_id,
		a.notes,
		s.first_name || ' ' || s.last_name,
		cr.name,
		COALESCE(i.name || ' ' || sec.section, ''),
		st.name,
		st.block
	FROM assignments a
	JOIN staff_members s ON a.staff_id = s.id
	JOIN clean_rooms cr ON a.clean_room_id = cr.id
	JOIN shift_templates st ON a.shift_template_id = st.id
	LEFT JOIN isolator_sections sec ON a.isolator_section_id = sec.id
	LEFT JOIN isolators i ON sec.isolator_id = i.id
	WHERE a.rota_day_id = $1
	ORDER BY st.block, cr.number, i.sort_order NULLS FIRST, sec.section, s.last_name
`

type rowQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryAssignments(ctx context.Context, q rowQuerier, rotaDayID int64) ([]*domain.Assignment, error) {
	rows, err := q.QueryContext(ctx, assignmentQuery, rotaDayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		a := &domain.Assignment{}
		dst := []any{
			&a.ID, &a.RotaDayID, &a.StaffID, &a.ShiftTemplateID, &a.CleanRoomID,
			&a.IsolatorSectionID, &a.Notes, &a.StaffName, &a.RoomName,
			&a.SectionName, &a.ShiftName, &a.Block,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsByRotaDayID(rotaDayID int64) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return queryAssignments(ctx, r.dbpool, rotaDayID)
}

// ReplaceRotaDayAssignments swaps the whole assignment set of a day for the
// proposed one, appending the derived audit events inside the same
// transaction. The returned events are what was recorded.
func (r *Repository) ReplaceRotaDayAssignments(day *domain.RotaDay, actor string, proposed []*domain.Assignment) ([]*domain.RotaDayAuditEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	before, err := queryAssignments(ctx, tx, day.ID)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM assignments WHERE rota_day_id = $1`
	if _, err := tx.ExecContext(ctx, query, day.ID); err != nil {
		return nil, err
	}

	for _, a := range proposed {
		query := `
			INSERT INTO assignments (rota_day_id, staff_id, shift_template_id, clean_room_id, isolator_section_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`

		args := []any{day.ID, a.StaffID, a.ShiftTemplateID, a.CleanRoomID, a.IsolatorSectionID, a.Notes}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
			return nil, err
		}
		a.RotaDayID = day.ID
	}

	events := domain.DiffAssignments(day.ID, actor, before, proposed)
	if err := insertAuditEventsTx(ctx, tx, events); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return events, nil
}
