package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func assignmentColumns() []string {
	return []string{
		"id", "rota_day_id", "staff_id", "shift_template_id", "clean_room_id",
		"isolator_section_id", "notes", "staff_name", "room_name",
		"section_name", "shift_name", "block",
	}
}

func TestGetAssignmentsByRotaDayID(t *testing.T) {
	repo, mock := newTestRepository(t)

	secID := int64(10)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentColumns()).
			AddRow(int64(1), int64(7), int64(1), int64(1), int64(1), secID, "", "James Smith", "Aseptic Suite 1", "Isolator A L", "Early", string(domain.BlockAM)).
			AddRow(int64(2), int64(7), int64(2), int64(1), int64(1), nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", string(domain.BlockAM)))

	assignments, err := repo.GetAssignmentsByRotaDayID(7)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	require.NotNil(t, assignments[0].IsolatorSectionID)
	assert.Equal(t, secID, *assignments[0].IsolatorSectionID)
	assert.False(t, assignments[0].IsRoomDuty())

	assert.Nil(t, assignments[1].IsolatorSectionID)
	assert.True(t, assignments[1].IsRoomDuty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRotaDayAssignments(t *testing.T) {
	repo, mock := newTestRepository(t)

	day := &domain.RotaDay{ID: 7, Date: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}
	now := time.Now()
	secID := int64(10)

	proposed := []*domain.Assignment{
		{
			StaffID: 1, ShiftTemplateID: 1, CleanRoomID: 1, IsolatorSectionID: &secID,
			StaffName: "James Smith", RoomName: "Aseptic Suite 1", SectionName: "Isolator A L",
			ShiftName: "Early", Block: domain.BlockAM,
		},
	}

	mock.ExpectBegin()
	// the previous set held a different staff member, so the replacement
	// records one created and one deleted event
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(day.ID).
		WillReturnRows(sqlmock.NewRows(assignmentColumns()).
			AddRow(int64(3), day.ID, int64(2), int64(1), int64(1), nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", string(domain.BlockAM)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments")).
		WithArgs(day.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(day.ID, int64(1), int64(1), int64(1), secID, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rota_day_audit_events")).
		WithArgs(day.ID, string(domain.AuditAssignmentCreated), "planner1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(100), now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rota_day_audit_events")).
		WithArgs(day.ID, string(domain.AuditAssignmentDeleted), "planner1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(101), now))
	mock.ExpectCommit()

	events, err := repo.ReplaceRotaDayAssignments(day, "planner1", proposed)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domain.AuditAssignmentCreated, events[0].EventType)
	assert.Equal(t, domain.AuditAssignmentDeleted, events[1].EventType)
	assert.Equal(t, int64(4), proposed[0].ID)
	assert.Equal(t, day.ID, proposed[0].RotaDayID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRotaDayAssignmentsNoChanges(t *testing.T) {
	repo, mock := newTestRepository(t)

	day := &domain.RotaDay{ID: 7, Date: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}

	proposed := []*domain.Assignment{
		{
			StaffID: 2, ShiftTemplateID: 1, CleanRoomID: 1,
			StaffName: "Sarah Jones", RoomName: "Aseptic Suite 1",
			ShiftName: "Early", Block: domain.BlockAM,
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(day.ID).
		WillReturnRows(sqlmock.NewRows(assignmentColumns()).
			AddRow(int64(3), day.ID, int64(2), int64(1), int64(1), nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", string(domain.BlockAM)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments")).
		WithArgs(day.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(day.ID, int64(2), int64(1), int64(1), nil, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectCommit()

	events, err := repo.ReplaceRotaDayAssignments(day, "planner1", proposed)
	require.NoError(t, err)
	assert.Empty(t, events, "re-saving an identical set records nothing")
	assert.NoError(t, mock.ExpectationsWereMet())
}
