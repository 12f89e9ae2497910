package repository

import (
	"context"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (r *Repository) GetAllCleanRooms() ([]*domain.CleanRoom, error) {
	query := `
		SELECT id, number, name, description, created_at, version
		FROM clean_rooms
		ORDER BY number
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.CleanRoom, 0)
	for rows.Next() {
		room := &domain.CleanRoom{}
		if err := rows.Scan(&room.ID, &room.Number, &room.Name, &room.Description, &room.CreatedAt, &room.Version); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *Repository) GetCleanRoomByID(id int64) (*domain.CleanRoom, error) {
	query := `
		SELECT number, name, description, created_at, version
		FROM clean_rooms WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	room := &domain.CleanRoom{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&room.Number, &room.Name, &room.Description, &room.CreatedAt, &room.Version); err != nil {
		return nil, err
	}

	return room, nil
}

func (r *Repository) CreateCleanRoom(room *domain.CleanRoom) error {
	query := `
		INSERT INTO clean_rooms (number, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, room.Number, room.Name, room.Description).Scan(&room.ID, &room.CreatedAt, &room.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateCleanRoom(room *domain.CleanRoom) error {
	query := `
		UPDATE clean_rooms
		SET
			number = $1,
			name = $2,
			description = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{room.Number, room.Name, room.Description, room.ID, room.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&room.CreatedAt, &room.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteCleanRoom(id int64) error {
	query := `
		DELETE FROM clean_rooms WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetIsolatorsByCleanRoomID(roomID int64) ([]*domain.Isolator, error) {
	query := `
		SELECT id, clean_room_id, name, sort_order, is_active, created_at, version
		FROM isolators
		WHERE clean_room_id = $1
		ORDER BY sort_order, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	isolators := make([]*domain.Isolator, 0)
	for rows.Next() {
		iso := &domain.Isolator{}
		if err := rows.Scan(&iso.ID, &iso.CleanRoomID, &iso.Name, &iso.SortOrder, &iso.IsActive, &iso.CreatedAt, &iso.Version); err != nil {
			return nil, err
		}
		isolators = append(isolators, iso)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return isolators, nil
}

func (r *Repository) GetAllIsolators() ([]*domain.Isolator, error) {
	query := `
		SELECT id, clean_room_id, name, sort_order, is_active, created_at, version
		FROM isolators
		ORDER BY sort_order, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	isolators := make([]*domain.Isolator, 0)
	for rows.Next() {
		iso := &domain.Isolator{}
		if err := rows.Scan(&iso.ID, &iso.CleanRoomID, &iso.Name, &iso.SortOrder, &iso.IsActive, &iso.CreatedAt, &iso.Version); err != nil {
			return nil, err
		}
		isolators = append(isolators, iso)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return isolators, nil
}

func (r *Repository) GetIsolatorByID(id int64) (*domain.Isolator, error) {
	query := `
		SELECT clean_room_id, name, sort_order, is_active, created_at, version
		FROM isolators WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	iso := &domain.Isolator{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&iso.CleanRoomID, &iso.Name, &iso.SortOrder, &iso.IsActive, &iso.CreatedAt, &iso.Version); err != nil {
		return nil, err
	}

	return iso, nil
}

// CreateIsolator inserts the isolator and its default L/R sections in one
// transaction, so an isolator can never exist without its sections.
func (r *Repository) CreateIsolator(iso *domain.Isolator) error {
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
		INSERT INTO isolators (clean_room_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query, iso.CleanRoomID, iso.Name, iso.SortOrder).Scan(&iso.ID, &iso.IsActive, &iso.CreatedAt, &iso.Version); err != nil {
		return err
	}

	for _, side := range []domain.SectionSide{domain.SectionLeft, domain.SectionRight} {
		query := `
			INSERT INTO isolator_sections (isolator_id, section)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, iso.ID, side); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateIsolator(iso *domain.Isolator) error {
	query := `
		UPDATE isolators
		SET
			name = $1,
			sort_order = $2,
			is_active = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING clean_room_id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{iso.Name, iso.SortOrder, iso.IsActive, iso.ID, iso.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&iso.CleanRoomID, &iso.CreatedAt, &iso.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllIsolatorSections() ([]*domain.IsolatorSection, error) {
	query := `
		SELECT sec.id, sec.isolator_id, sec.section, sec.is_active, i.name, i.clean_room_id, cr.name
		FROM isolator_sections sec
		JOIN isolators i ON sec.isolator_id = i.id
		JOIN clean_rooms cr ON i.clean_room_id = cr.id
		ORDER BY cr.number, i.sort_order, sec.section
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]*domain.IsolatorSection, 0)
	for rows.Next() {
		sec := &domain.IsolatorSection{}
		dst := []any{&sec.ID, &sec.IsolatorID, &sec.Section, &sec.IsActive, &sec.IsolatorName, &sec.CleanRoomID, &sec.RoomName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

func (r *Repository) GetIsolatorSectionByID(id int64) (*domain.IsolatorSection, error) {
	query := `
		SELECT sec.isolator_id, sec.section, sec.is_active, i.name, i.clean_room_id, cr.name
		FROM isolator_sections sec
		JOIN isolators i ON sec.isolator_id = i.id
		JOIN clean_rooms cr ON i.clean_room_id = cr.id
		WHERE sec.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sec := &domain.IsolatorSection{
		ID: id,
	}

	dst := []any{&sec.IsolatorID, &sec.Section, &sec.IsActive, &sec.IsolatorName, &sec.CleanRoomID, &sec.RoomName}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return sec, nil
}

func (r *Repository) SetIsolatorSectionActive(id int64, isActive bool) error {
	query := `
		UPDATE isolator_sections SET is_active = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, isActive, id); err != nil {
		return err
	}

	return nil
}
